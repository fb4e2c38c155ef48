package railway

import (
	"net/http"
	"time"
)

// Client is a typed client over Railway's GraphQL control plane. Every
// operation is a named query or mutation carrying an input object;
// transport and authentication details stay inside doQuery.
type Client struct {
	cfg  Config
	http *http.Client

	// now and sleep are swapped out in tests.
	now   func() time.Time
	sleep func(time.Duration)
}

func NewFromEnv() *Client {
	return New(LoadFromEnv())
}

func New(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:   cfg,
		http:  &http.Client{Timeout: timeout},
		now:   time.Now,
		sleep: time.Sleep,
	}
}
