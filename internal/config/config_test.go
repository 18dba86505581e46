package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "STORE", "MAX_WORKERS", "MAX_QUEUE_SIZE", "STEP_DELAY", "JOB_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.Store != "sqlite" {
		t.Errorf("expected default store sqlite, got %s", cfg.Store)
	}
	if cfg.MaxWorkers != 3 {
		t.Errorf("expected 3 workers, got %d", cfg.MaxWorkers)
	}
	if cfg.MaxQueueSize != 10 {
		t.Errorf("expected queue size 10, got %d", cfg.MaxQueueSize)
	}
	if cfg.StepDelay != time.Second {
		t.Errorf("expected 1s step delay, got %s", cfg.StepDelay)
	}
	if cfg.JobTimeout != 2*time.Minute {
		t.Errorf("expected 2m job timeout, got %s", cfg.JobTimeout)
	}
	if !cfg.IsDevelopment() {
		t.Error("expected development mode by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("ENV", "production")
	t.Setenv("STORE", "memory")
	t.Setenv("MAX_WORKERS", "7")
	t.Setenv("STEP_DELAY", "250ms")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "9999" {
		t.Errorf("expected port 9999, got %s", cfg.Port)
	}
	if cfg.IsDevelopment() {
		t.Error("expected production mode")
	}
	if cfg.Store != "memory" {
		t.Errorf("expected memory store, got %s", cfg.Store)
	}
	if cfg.MaxWorkers != 7 {
		t.Errorf("expected 7 workers, got %d", cfg.MaxWorkers)
	}
	if cfg.StepDelay != 250*time.Millisecond {
		t.Errorf("expected 250ms step delay, got %s", cfg.StepDelay)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("unexpected origins %v", cfg.AllowedOrigins)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("MAX_WORKERS", "lots")
	t.Setenv("JOB_TIMEOUT", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.MaxWorkers != 3 {
		t.Errorf("expected fallback to 3 workers, got %d", cfg.MaxWorkers)
	}
	if cfg.JobTimeout != 2*time.Minute {
		t.Errorf("expected fallback 2m timeout, got %s", cfg.JobTimeout)
	}
}
