package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultOpenWeatherURL is the OpenWeatherMap current-weather endpoint.
const DefaultOpenWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

type AppConfig struct {
	// OpenWeatherAPIKey is sent as appid. It is not validated here; a missing
	// key only shows up as a failed upstream call.
	OpenWeatherAPIKey string
	OpenWeatherURL    string

	// HTTPTimeout bounds every outbound provider call.
	HTTPTimeout time.Duration

	Port     string
	LogLevel string

	// CORSOrigins is a comma-separated origin list handed to the CORS middleware.
	CORSOrigins string

	// StatsInterval controls how often lookup counters are logged (0 = disabled).
	StatsInterval time.Duration

	Breaker BreakerConfig
}

// BreakerConfig configures the optional circuit breaker in front of the provider.
type BreakerConfig struct {
	Enabled     bool
	MaxFailures uint32        // consecutive provider failures before opening
	OpenTimeout time.Duration // how long the breaker stays open
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.OpenWeatherURL = getenvDefault("OPENWEATHER_BASE_URL", DefaultOpenWeatherURL)
	cfg.Port = getenvDefault("PORT", "8080")
	cfg.LogLevel = strings.ToLower(getenvDefault("LOG_LEVEL", "info"))
	cfg.CORSOrigins = getenvDefault("CORS_ORIGINS", "*")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: must be positive")
	}

	if cfg.StatsInterval, err = getenvDuration("STATS_INTERVAL", "15m"); err != nil {
		return nil, err
	}

	enabled, err := strconv.ParseBool(getenvDefault("CIRCUIT_BREAKER_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid CIRCUIT_BREAKER_ENABLED: %w", err)
	}
	cfg.Breaker.Enabled = enabled

	failures := getenvInt("CIRCUIT_BREAKER_FAILURES", 5)
	if failures <= 0 {
		return nil, fmt.Errorf("invalid CIRCUIT_BREAKER_FAILURES: must be positive")
	}
	cfg.Breaker.MaxFailures = uint32(failures)

	if cfg.Breaker.OpenTimeout, err = getenvDuration("CIRCUIT_BREAKER_TIMEOUT", "30s"); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
