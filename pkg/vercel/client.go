package vercel

import (
	"net/http"
	"time"
)

// Client is a typed client over Vercel's REST control plane. Resource
// paths are versioned per resource type; the configured team id is
// appended as a query parameter to every request.
type Client struct {
	cfg     Config
	http    *http.Client
	retry   RetryPolicy
	limiter *RateLimiter
	breaker CircuitBreaker

	now   func() time.Time
	sleep func(time.Duration)
}

func NewFromEnv() *Client {
	return New(LoadFromEnv())
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
		retry: RetryPolicy{
			MaxRetries: cfg.RetryCount,
			BaseDelay:  cfg.RetryDelay,
		},
		limiter: NewRateLimiter(cfg.RateLimit, cfg.RateBurst),
		breaker: NewCircuitBreaker(cfg),
		now:     time.Now,
		sleep:   time.Sleep,
	}
}
