package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	// Server
	APIHost   string
	APIPort   string
	ServerEnv string

	// Database
	DatabaseURL string

	// Routing engine (OSRM)
	RoutingHost       string
	RoutingPort       string
	RoutingTimeoutSec int

	// Cache behavior
	CachePrecision  int // decimal places used for cache-key rounding, 0 = exact match
	HistoryMaxLimit int

	// SigNoz
	SigNozEndpoint string
}

func Load() *Config {
	return &Config{
		// Server
		APIHost:   getEnv("API_HOST", "0.0.0.0"),
		APIPort:   getEnv("API_PORT", "8000"),
		ServerEnv: getEnv("SERVER_ENV", "development"),

		// Database - DATABASE_URL wins, otherwise assembled from POSTGRES_* vars
		DatabaseURL: getDatabaseURL(),

		// Routing engine
		RoutingHost:       getEnv("ROUTING_HOST", "localhost"),
		RoutingPort:       getEnv("ROUTING_PORT", "5001"),
		RoutingTimeoutSec: getEnvAsInt("ROUTING_TIMEOUT", 10),

		// Cache behavior
		CachePrecision:  getEnvAsInt("CACHE_PRECISION", 6),
		HistoryMaxLimit: getEnvAsInt("HISTORY_MAX_LIMIT", 100),

		// SigNoz
		SigNozEndpoint: getEnv("SIGNOZ_ENDPOINT", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDatabaseURL returns DATABASE_URL or builds it from individual env vars
func getDatabaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := getEnv("POSTGRES_HOST", "localhost")
	port := getEnv("POSTGRES_PORT", "5432")
	user := getEnv("POSTGRES_USER", "postgres")
	password := getEnv("POSTGRES_PASSWORD", "")
	dbname := getEnv("POSTGRES_DB", "circuity_db")
	sslmode := getEnv("POSTGRES_SSLMODE", "disable")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		user, password, host, port, dbname, sslmode)
}
