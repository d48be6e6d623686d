package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	StoreDriver  string // Optional: session store driver (memory, sqlite, redis) (default: memory)
	DatabaseFile string // Optional: path to SQLite database file (default: ./checkout.db)

	RedisAddr     string // Optional: redis address (default: localhost:6379)
	RedisPassword string // Optional: redis AUTH password

	JWTIssuer   string   // Optional: expected issuer claim on shopper tokens
	JWTAudience []string // Optional: accepted audience claims (empty: no audience validation)
	JWKSURL     string   // Optional: identity provider JWKS endpoint
	JWKSFile    string   // Optional: JWKS document on disk (takes precedence over JWKS URL)

	CartServiceURL    string        // Base URL of the cart service
	OrderServiceURL   string        // Base URL of the order service
	PaymentServiceURL string        // Base URL of the payment processor
	PaymentTimeout    time.Duration // Bound on a single authorize call (default: 10s)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired-session sweep interval (default: 15m)
}

func LoadConfig() Config {
	cfg := Config{
		StoreDriver:  getEnvOrDefault("CHECKOUT_STORE_DRIVER", "memory"),
		DatabaseFile: getEnvOrDefault("CHECKOUT_DATABASE_FILE", "checkout.db"),

		RedisAddr:     getEnvOrDefault("CHECKOUT_REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("CHECKOUT_REDIS_PASSWORD"), // Optional

		JWTIssuer: os.Getenv("CHECKOUT_JWT_ISSUER"),
		JWKSURL:   os.Getenv("CHECKOUT_JWKS_URL"),
		JWKSFile:  os.Getenv("CHECKOUT_JWKS_FILE"),

		CartServiceURL:    getEnvOrDefault("CART_SERVICE_URL", "http://localhost:8082"),
		OrderServiceURL:   getEnvOrDefault("ORDER_SERVICE_URL", "http://localhost:8083"),
		PaymentServiceURL: getEnvOrDefault("PAYMENT_SERVICE_URL", "http://localhost:8081"),
		PaymentTimeout:    getEnvDurationOrDefault("PAYMENT_TIMEOUT", 10*time.Second),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 15*time.Minute),
	}

	// Audience is a comma-separated list; empty means no audience validation.
	if raw := os.Getenv("CHECKOUT_JWT_AUDIENCE"); raw != "" {
		for _, aud := range strings.Split(raw, ",") {
			if aud = strings.TrimSpace(aud); aud != "" {
				cfg.JWTAudience = append(cfg.JWTAudience, aud)
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

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
