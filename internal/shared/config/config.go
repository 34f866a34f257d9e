package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"portfolio-backend/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	DatabaseURL     string
	Env             string
	ContentFile     string
	CV              CVConfig
}

// CVConfig tunes CV generation and the temporary document store.
type CVConfig struct {
	FilePrefix       string
	TempTTL          time.Duration
	SweepInterval    time.Duration
	HandleLifetime   time.Duration
	ForceRevokeDelay time.Duration
	SessionIdleTTL   time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		telemetry.Warn("config.database_url_missing", map[string]any{"env": env})
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		DatabaseURL:     dbURL,
		Env:             env,
		ContentFile:     getEnv("CONTENT_FILE", ""),
		CV: CVConfig{
			FilePrefix:       getEnv("CV_FILE_PREFIX", "portfolio-cv"),
			TempTTL:          getEnvDuration("CV_TEMP_TTL", 10*time.Minute),
			SweepInterval:    getEnvDuration("CV_SWEEP_INTERVAL", 2*time.Minute),
			HandleLifetime:   getEnvDuration("CV_HANDLE_LIFETIME", 5*time.Second),
			ForceRevokeDelay: getEnvDuration("CV_FORCE_REVOKE_DELAY", time.Second),
			SessionIdleTTL:   getEnvDuration("SESSION_IDLE_TTL", 30*time.Minute),
		},
	}
}

// Validate reports configuration that cannot work at runtime.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Port) == "" {
		errs = append(errs, errors.New("PORT is empty"))
	}
	if c.Env == "production" && c.DatabaseURL == "" && c.ContentFile == "" {
		errs = append(errs, errors.New("production needs DATABASE_URL or CONTENT_FILE"))
	}
	if strings.TrimSpace(c.CV.FilePrefix) == "" {
		errs = append(errs, errors.New("CV_FILE_PREFIX is empty"))
	}
	for name, d := range map[string]time.Duration{
		"CV_TEMP_TTL":           c.CV.TempTTL,
		"CV_SWEEP_INTERVAL":     c.CV.SweepInterval,
		"CV_HANDLE_LIFETIME":    c.CV.HandleLifetime,
		"CV_FORCE_REVOKE_DELAY": c.CV.ForceRevokeDelay,
		"SESSION_IDLE_TTL":      c.CV.SessionIdleTTL,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", name, d))
		}
	}
	return errors.Join(errs...)
}

// IsDevLike reports whether the environment tolerates missing infrastructure.
func (c Config) IsDevLike() bool {
	return c.Env == "dev" || c.Env == "local"
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		telemetry.Warn("config.invalid_duration", map[string]any{"key": key, "value": raw, "error": err.Error()})
		return def
	}
	return d
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}
