package config

import (
	"os"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/bookmarks")
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default port 8080 got %q", cfg.HTTPPort)
	}
	if cfg.DBMaxConns != 10 || cfg.DBMinConns != 1 {
		t.Fatalf("unexpected pool defaults max=%d min=%d", cfg.DBMaxConns, cfg.DBMinConns)
	}
	if cfg.SessionTTLMinutes != 10080 {
		t.Fatalf("expected week-long session default got %d", cfg.SessionTTLMinutes)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("DB_MIN_CONNS", "5")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBMaxConns != 25 || cfg.DBMinConns != 5 {
		t.Fatalf("expected overridden pool sizes, got max=%d min=%d", cfg.DBMaxConns, cfg.DBMinConns)
	}
}

func TestLoadConfigMissingRequired(t *testing.T) {
	// t.Setenv registra la restauracion; el unset posterior deja la
	// variable realmente ausente durante el test.
	for _, key := range []string{"DATABASE_URL", "GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET"} {
		t.Setenv(key, "x")
		os.Unsetenv(key)
	}

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for missing required values")
	}
}
