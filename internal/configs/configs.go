/*
Package configs loads and parses the application's configuration settings
from environment variables.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// City directory sources.
const (
	CitySourceWiki     = "wiki"
	CitySourcePostgres = "postgres"
)

// AppConfig contains all configuration parameters required for the application to run.
// All configuration values are loaded from environment variables.
type AppConfig struct {
	// General Server Settings
	Environment string
	Port        int

	// TurnDuration is the per-turn countdown window in paired games.
	TurnDuration time.Duration

	// Security Settings
	AllowedOrigins []string
	JWTSecret      string

	// City Directory Settings
	CitySource  string // "wiki" scrapes at startup, "postgres" reads the snapshot
	CityListURL string // overrides the built-in Wikipedia list URL when set
	DatabaseDSN string // required for the postgres source; optional snapshot target for wiki
}

// LoadConfig reads and parses the application configuration from environment
// variables, providing development defaults and failing fast on invalid or
// missing required values.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
	}
	if port < 1024 || port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the allowed range (1024-65535)", port)
	}
	cfg.Port = port

	turnSecondsStr := os.Getenv("TURN_SECONDS")
	if turnSecondsStr == "" {
		turnSecondsStr = "30"
	}
	turnSeconds, err := strconv.Atoi(turnSecondsStr)
	if err != nil || turnSeconds <= 0 {
		return nil, fmt.Errorf("invalid TURN_SECONDS environment variable: %q", turnSecondsStr)
	}
	cfg.TurnDuration = time.Duration(turnSeconds) * time.Second

	if originsStr := os.Getenv("ALLOWED_ORIGINS"); originsStr != "" {
		for _, origin := range strings.Split(originsStr, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		if cfg.Environment != "development" {
			return nil, fmt.Errorf("JWT_SECRET environment variable is required in %s environment", cfg.Environment)
		}
		cfg.JWTSecret = "insecure_development_secret_change_me"
	}

	cfg.CitySource = os.Getenv("CITY_SOURCE")
	if cfg.CitySource == "" {
		cfg.CitySource = CitySourceWiki
	}
	if cfg.CitySource != CitySourceWiki && cfg.CitySource != CitySourcePostgres {
		return nil, fmt.Errorf("invalid CITY_SOURCE %q: must be %q or %q", cfg.CitySource, CitySourceWiki, CitySourcePostgres)
	}

	cfg.CityListURL = os.Getenv("CITY_LIST_URL")

	cfg.DatabaseDSN = os.Getenv("DATABASE_URL")
	if cfg.CitySource == CitySourcePostgres && cfg.DatabaseDSN == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required when CITY_SOURCE is %q", CitySourcePostgres)
	}

	return cfg, nil
}
