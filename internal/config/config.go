package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the orchestrator-level configuration. Platform credentials
// live in each client's own config (railway.LoadFromEnv, vercel.LoadFromEnv).
type Config struct {
	AppName    string
	AppVersion string

	Environment string

	// TemplateRepository is the "owner/repo" every tenant hosting project
	// is instantiated from.
	TemplateRepository string
	TemplateFramework  string

	// AppRootDomain is the shared parent domain for tenant subdomains,
	// e.g. "advisors.example.com".
	AppRootDomain string
	AppRootScheme string

	// AppDatabaseURL points at the main advisor application's own store;
	// used only to prefill tenant contact fields during provisioning.
	// Optional: the lookup is skipped when empty.
	AppDatabaseURL string

	DeployTimeout      time.Duration
	DeployPollInterval time.Duration

	FleetListLimit int
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppName:    getenv("APP_SERVICE", "wealthpro-cloud"),
		AppVersion: getenv("APP_VERSION", "0.1.0"),

		Environment: getenv("ENVIRONMENT", "development"),

		TemplateRepository: strings.TrimSpace(getenv("TEMPLATE_REPOSITORY", "sonyho2715/wealth-pro-template")),
		TemplateFramework:  strings.TrimSpace(getenv("TEMPLATE_FRAMEWORK", "nextjs")),

		AppRootDomain: strings.TrimLeft(strings.TrimSpace(getenv("APP_ROOT_DOMAIN", "")), "."),
		AppRootScheme: strings.TrimSpace(getenv("APP_ROOT_SCHEME", "https")),

		AppDatabaseURL: strings.TrimSpace(getenv("APP_DATABASE_URL", "")),

		DeployTimeout:      time.Second * time.Duration(getenvInt("DEPLOY_TIMEOUT", 600)),
		DeployPollInterval: time.Second * time.Duration(getenvInt("DEPLOY_POLL_INTERVAL", 10)),

		FleetListLimit: getenvInt("FLEET_LIST_LIMIT", 100),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
