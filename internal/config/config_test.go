package config

import (
	"errors"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/clipfeed")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("SESSION_MAX_AGE", "")
	t.Setenv("DB_MAX_OPEN_CONNS", "-3")
	t.Setenv("WORKER_COUNT", "abc")
	t.Setenv("R2_ACCOUNT_ID", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want %q", cfg.ServerPort, "8080")
	}
	if cfg.SessionMaxAge != 2592000 {
		t.Errorf("SessionMaxAge = %d, want 2592000", cfg.SessionMaxAge)
	}
	if cfg.DBMaxOpenConns != 10 {
		t.Errorf("DBMaxOpenConns = %d, want 10", cfg.DBMaxOpenConns)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("WorkerCount = %d, want 2", cfg.WorkerCount)
	}
	if cfg.UploadsEnabled() {
		t.Error("uploads should be disabled without R2 settings")
	}
}

func TestLoadConfig_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := LoadConfig()
	if !errors.Is(err, ErrMissingDatabaseURL) {
		t.Errorf("error = %v, want %v", err, ErrMissingDatabaseURL)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/clipfeed")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("SESSION_MAX_AGE", "60")
	t.Setenv("DB_AUTO_MIGRATE", "true")
	t.Setenv("R2_ACCOUNT_ID", "acc")
	t.Setenv("R2_ACCESS_KEY_ID", "key")
	t.Setenv("R2_SECRET_ACCESS_KEY", "secret")
	t.Setenv("R2_BUCKET_NAME", "clips")
	t.Setenv("R2_PUBLIC_URL", "https://cdn.example.com")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ServerPort != "9000" || cfg.SessionMaxAge != 60 || !cfg.DBAutoMigrate {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if !cfg.UploadsEnabled() {
		t.Error("uploads should be enabled when every R2 setting is present")
	}
}
