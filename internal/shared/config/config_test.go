package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"PORT", "ENV", "DATABASE_URL", "CONTENT_FILE", "CV_FILE_PREFIX", "CV_TEMP_TTL", "CV_SWEEP_INTERVAL", "CV_HANDLE_LIFETIME", "CV_FORCE_REVOKE_DELAY", "SESSION_IDLE_TTL"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %q", cfg.Port)
	}
	if cfg.Env != "dev" {
		t.Fatalf("expected dev env, got %q", cfg.Env)
	}
	if cfg.CV.FilePrefix != "portfolio-cv" {
		t.Fatalf("expected default prefix, got %q", cfg.CV.FilePrefix)
	}
	if cfg.CV.TempTTL != 10*time.Minute || cfg.CV.SweepInterval != 2*time.Minute {
		t.Fatalf("unexpected store timings: %+v", cfg.CV)
	}
	if cfg.CV.HandleLifetime != 5*time.Second || cfg.CV.ForceRevokeDelay != time.Second {
		t.Fatalf("unexpected handle timings: %+v", cfg.CV)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadParsesDurationsAndFallsBackOnGarbage(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CV_TEMP_TTL", "90s")
	t.Setenv("CV_SWEEP_INTERVAL", "soon")

	cfg := Load()
	if cfg.CV.TempTTL != 90*time.Second {
		t.Fatalf("expected 90s TTL, got %s", cfg.CV.TempTTL)
	}
	if cfg.CV.SweepInterval != 2*time.Minute {
		t.Fatalf("expected default sweep interval on parse error, got %s", cfg.CV.SweepInterval)
	}
}

func TestLoadReadsDotEnvWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("CV_FILE_PREFIX=from-file\nPORT=9999\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("PORT", "7070")
	t.Setenv("CV_FILE_PREFIX", "")
	os.Unsetenv("CV_FILE_PREFIX")

	cfg := Load()
	if cfg.CV.FilePrefix != "from-file" {
		t.Fatalf("expected prefix from .env, got %q", cfg.CV.FilePrefix)
	}
	if cfg.Port != "7070" {
		t.Fatalf("expected process env to win, got %q", cfg.Port)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Config{
		Port: "8080",
		Env:  "production",
		CV: CVConfig{
			FilePrefix:       "cv",
			TempTTL:          0,
			SweepInterval:    time.Minute,
			HandleLifetime:   time.Second,
			ForceRevokeDelay: time.Second,
			SessionIdleTTL:   time.Minute,
		},
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !strings.Contains(err.Error(), "CV_TEMP_TTL") {
		t.Fatalf("expected TTL problem, got %v", err)
	}
	if !strings.Contains(err.Error(), "DATABASE_URL or CONTENT_FILE") {
		t.Fatalf("expected production content problem, got %v", err)
	}
}
