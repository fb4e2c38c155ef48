package railway

import (
	"os"
	"strconv"
	"time"
)

const defaultEndpoint = "https://backboard.railway.app/graphql/v2"

type Config struct {
	Endpoint string
	APIToken string
	TeamID   string

	Timeout time.Duration

	// Variable reads retry because service variables are not guaranteed to
	// be readable immediately after a deployment reports success.
	VariableRetries    int
	VariableRetryDelay time.Duration

	DeployTimeout      time.Duration
	DeployPollInterval time.Duration
}

func LoadFromEnv() Config {
	return Config{
		Endpoint: getenv("RAILWAY_API_ENDPOINT", defaultEndpoint),
		APIToken: os.Getenv("RAILWAY_API_TOKEN"),
		TeamID:   os.Getenv("RAILWAY_TEAM_ID"),

		Timeout: time.Second * time.Duration(getInt("RAILWAY_CLIENT_TIMEOUT", 30)),

		VariableRetries:    getInt("RAILWAY_VARIABLE_RETRIES", 10),
		VariableRetryDelay: time.Second * time.Duration(getInt("RAILWAY_VARIABLE_RETRY_DELAY", 5)),

		DeployTimeout:      time.Second * time.Duration(getInt("RAILWAY_DEPLOY_TIMEOUT", 300)),
		DeployPollInterval: time.Second * time.Duration(getInt("RAILWAY_DEPLOY_POLL_INTERVAL", 5)),
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
