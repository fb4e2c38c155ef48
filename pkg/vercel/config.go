package vercel

import (
	"os"
	"strconv"
	"time"
)

const defaultBaseURL = "https://api.vercel.com"

type Config struct {
	BaseURL  string
	APIToken string
	TeamID   string

	Timeout time.Duration

	RetryCount int
	RetryDelay time.Duration

	RateLimit int
	RateBurst int

	CircuitBreakerEnabled bool
	CBFailureThreshold    int
	CBRecoveryTime        time.Duration
	CBMinRequests         int
	CBSamplingDuration    time.Duration
	CBHalfOpenMaxSuccess  int
}

func LoadFromEnv() Config {
	return Config{
		BaseURL:  getenv("VERCEL_API_URL", defaultBaseURL),
		APIToken: os.Getenv("VERCEL_API_TOKEN"),
		TeamID:   os.Getenv("VERCEL_TEAM_ID"),

		Timeout: time.Second * time.Duration(getInt("VERCEL_CLIENT_TIMEOUT", 30)),

		RetryCount: getInt("VERCEL_CLIENT_RETRY_COUNT", 3),
		RetryDelay: time.Second * time.Duration(getInt("VERCEL_CLIENT_RETRY_DELAY", 2)),

		RateLimit: getInt("VERCEL_CLIENT_RATE_LIMIT", 100),
		RateBurst: getInt("VERCEL_CLIENT_RATE_BURST", 2),

		CircuitBreakerEnabled: getBool("VERCEL_CLIENT_ENABLE_CIRCUIT_BREAKER", true),
		CBFailureThreshold:    getInt("VERCEL_CLIENT_CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
		CBRecoveryTime:        time.Second * time.Duration(getInt("VERCEL_CLIENT_CIRCUIT_BREAKER_RECOVERY_TIME", 60)),
		CBMinRequests:         getInt("VERCEL_CLIENT_CIRCUIT_BREAKER_MIN_REQUESTS", 10),
		CBSamplingDuration:    time.Second * time.Duration(getInt("VERCEL_CLIENT_CIRCUIT_BREAKER_SAMPLING_DURATION", 60)),
		CBHalfOpenMaxSuccess:  getInt("VERCEL_CLIENT_CIRCUIT_BREAKER_HALF_OPEN_MAX_SUCCESS", 3),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		return v == "true"
	}
	return def
}
