package config

import (
	"os"
	"strings"
)

// Config holds the application configuration
// Note: the service is stateless - exercises are generated per request
type Config struct {
	// Environment
	Environment string
	Port        string

	// Frontend build served under /static and listed by /app
	FrontendDir        string
	CORSAllowedOrigins []string

	// Exercises
	DefaultScaleStyle string

	// Observability
	SentryDSN           string // Sentry DSN for error tracking
	CloudWatchNamespace string // CloudWatch namespace, production only
}

func Load() *Config {
	return &Config{
		Environment:         getEnv("ENVIRONMENT", "development"),
		Port:                getEnv("PORT", "8080"),
		FrontendDir:         getEnv("FRONTEND_DIR", "conbrio-frontend/build"),
		CORSAllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		DefaultScaleStyle:   getEnv("DEFAULT_SCALE_STYLE", "ABRSM"),
		SentryDSN:           getEnv("SENTRY_DSN", ""),
		CloudWatchNamespace: getEnv("CLOUDWATCH_NAMESPACE", "Conbrio/API"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsProduction returns true when metrics should be shipped to CloudWatch
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
