package configs

import (
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("PORT", "")
	t.Setenv("TURN_SECONDS", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("CITY_SOURCE", "")
	t.Setenv("CITY_LIST_URL", "")
	t.Setenv("DATABASE_URL", "")
}

func TestLoadConfigDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Environment != "development" {
		t.Errorf("expected development environment, got %s", cfg.Environment)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Port)
	}
	if cfg.TurnDuration != 30*time.Second {
		t.Errorf("expected 30s turn duration, got %s", cfg.TurnDuration)
	}
	if cfg.CitySource != CitySourceWiki {
		t.Errorf("expected wiki city source, got %s", cfg.CitySource)
	}
	if cfg.JWTSecret == "" {
		t.Error("development should fall back to a default JWT secret")
	}
}

func TestLoadConfigValidation(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"bad port", "PORT", "notaport"},
		{"privileged port", "PORT", "80"},
		{"bad turn seconds", "TURN_SECONDS", "0"},
		{"bad city source", "CITY_SOURCE", "filesystem"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(c.key, c.value)
			if _, err := LoadConfig(); err == nil {
				t.Fatalf("expected error for %s=%s", c.key, c.value)
			}
		})
	}
}

func TestLoadConfigProductionRequiresSecret(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ENVIRONMENT", "production")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("production without JWT_SECRET should fail")
	}

	t.Setenv("JWT_SECRET", "prodsecret")
	if _, err := LoadConfig(); err != nil {
		t.Fatalf("LoadConfig failed with secret set: %v", err)
	}
}

func TestLoadConfigPostgresRequiresDSN(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("CITY_SOURCE", "postgres")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("postgres source without DATABASE_URL should fail")
	}

	t.Setenv("DATABASE_URL", "postgres://localhost/goroda")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed with DSN set: %v", err)
	}
	if cfg.CitySource != CitySourcePostgres {
		t.Fatalf("expected postgres city source, got %s", cfg.CitySource)
	}
}

func TestLoadConfigOrigins(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.AllowedOrigins)
	}
	if cfg.AllowedOrigins[0] != "https://a.example" || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("origins not trimmed: %v", cfg.AllowedOrigins)
	}
}
