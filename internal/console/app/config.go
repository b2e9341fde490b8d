package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer        string // Issuer claim stamped into bearer tokens
	JWTSecret     string // Optional: signing secret; generated into JWTSecretFile when empty
	JWTSecretFile string // Optional: path to persisted signing secret (default: ./jwt.secret)

	DatabaseFile  string        // Optional: path to SQLite database file (default: ./console.db)
	PlansFile     string        // Optional: path to plans JSON document (default: ./plans.json)
	PepperFile    string        // Optional: path to password-hash pepper file (default: ./pepper)
	SessionTTL    time.Duration // Optional: browser session lifetime (default: 12h)
	ScanEngineURL string        // Optional: base URL of the scan engine; empty disables the proxy
	StaticDir     string        // Optional: built frontend dir; empty disables static serving

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 4000)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:        getEnvOrDefault("CONSOLE_ISSUER", "goedr-console"),
		JWTSecret:     os.Getenv("CONSOLE_JWT_SECRET"),
		JWTSecretFile: getEnvOrDefault("CONSOLE_JWT_SECRET_FILE", "jwt.secret"),

		DatabaseFile:  getEnvOrDefault("CONSOLE_DATABASE_FILE", "console.db"),
		PlansFile:     getEnvOrDefault("CONSOLE_PLANS_FILE", "plans.json"),
		PepperFile:    getEnvOrDefault("CONSOLE_PEPPER_FILE", "pepper"),
		SessionTTL:    getEnvDurationOrDefault("CONSOLE_SESSION_TTL", 12*time.Hour),
		ScanEngineURL: os.Getenv("CONSOLE_SCAN_ENGINE_URL"),
		StaticDir:     os.Getenv("CONSOLE_STATIC_DIR"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("CONSOLE_PORT", 4000),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg
}

// IsProduction controls Secure cookie flags.
func (c Config) IsProduction() bool {
	return c.Env == "prod" || c.Env == "production"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Accept duration strings ("1h", "30m") or plain integer minutes.
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
