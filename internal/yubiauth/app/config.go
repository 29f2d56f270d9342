package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Registry modes. Open mode accepts any device for any user and is logged
// loudly at startup.
const (
	RegistryModeOpen      = "open"
	RegistryModeAllowlist = "allowlist"
	RegistryModeSqlite    = "sqlite"
)

type Config struct {
	// Yubico validation API credentials. The secret key is optional; without
	// it requests are unsigned and response signatures are not checked.
	YubicoClientID  string
	YubicoSecretKey string
	ValidationURLs  []string // Optional: override the public YubiCloud servers

	RegistryMode      string // open, allowlist, sqlite (default: open)
	RegistryAllowlist string // "user:publicid" pairs for allowlist mode
	DatabaseFile      string // sqlite registry database (default: ./yubiauth.db)

	// Session tokens minted by the primary authentication tier.
	SessionSecret string
	SessionIssuer string

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		YubicoClientID:  os.Getenv("YUBICO_CLIENT_ID"),
		YubicoSecretKey: os.Getenv("YUBICO_SECRET_KEY"),

		RegistryMode:      getEnvOrDefault("REGISTRY_MODE", RegistryModeOpen),
		RegistryAllowlist: os.Getenv("REGISTRY_ALLOWLIST"),
		DatabaseFile:      getEnvOrDefault("DATABASE_FILE", "yubiauth.db"),

		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionIssuer: getEnvOrDefault("SESSION_ISSUER", "cas-login"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	if urls := os.Getenv("YUBICO_VALIDATION_URLS"); urls != "" {
		for _, u := range strings.Split(urls, ",") {
			if u = strings.TrimSpace(u); u != "" {
				cfg.ValidationURLs = append(cfg.ValidationURLs, u)
			}
		}
	}

	return cfg
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
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	return defaultValue
}
