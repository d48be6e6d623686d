package paymentsim

import (
	"os"
	"strconv"
)

// Config holds the simulator's runtime settings. The simulator is a dev
// dependency, so everything defaults to something usable with no env set.
type Config struct {
	Port      int    // HTTP port (default: 8081)
	Env       string // Environment label for logs (default: dev)
	LogLevel  string // Log level (default: info)
	LogFormat string // Log format (default: text)
}

func LoadConfig() Config {
	return Config{
		Port:      getEnvIntOrDefault("PAYMENTSIM_PORT", 8081),
		Env:       getEnvOrDefault("ENV", "dev"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "text"),
	}
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
