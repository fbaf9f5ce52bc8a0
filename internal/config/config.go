package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DatabaseURL string // PULSE_DATABASE_URL (required)
	HTTPAddr    string // PULSE_HTTP_ADDR (default ":8080")
	NATSURL     string // PULSE_NATS_URL (optional, empty = no events)
	AuthToken   string // PULSE_AUTH_TOKEN (optional, empty = auth disabled)

	// RunBudget caps the wall-clock time of one analysis pass.
	RunBudget time.Duration // PULSE_RUN_BUDGET (default 2m)

	// TuningFile optionally overrides scorer weights and default
	// thresholds (TOML).
	TuningFile string // PULSE_TUNING_FILE

	// Cron expressions for scheduled passes; empty = disabled.
	CronBottlenecks string // PULSE_CRON_BOTTLENECKS
	CronSuggestions string // PULSE_CRON_SUGGESTIONS

	// Export settings
	ExportInterval   time.Duration // PULSE_EXPORT_INTERVAL (default 0 = disabled)
	ExportS3Bucket   string        // PULSE_EXPORT_S3_BUCKET (enables S3 when set)
	ExportS3Endpoint string        // PULSE_EXPORT_S3_ENDPOINT (custom endpoint for MinIO)
	ExportS3Region   string        // PULSE_EXPORT_S3_REGION (default "us-east-1")
	ExportS3Prefix   string        // PULSE_EXPORT_S3_PREFIX (default "pulse/digests")
	ExportGitRepo    string        // PULSE_EXPORT_GIT_REPO (enables git when set; path to clone)
	ExportGitFile    string        // PULSE_EXPORT_GIT_FILE (default "digest.jsonl")
	ExportGitBranch  string        // PULSE_EXPORT_GIT_BRANCH (default "main")
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:      os.Getenv("PULSE_DATABASE_URL"),
		HTTPAddr:         envOrDefault("PULSE_HTTP_ADDR", ":8080"),
		NATSURL:          os.Getenv("PULSE_NATS_URL"),
		AuthToken:        os.Getenv("PULSE_AUTH_TOKEN"),
		TuningFile:       os.Getenv("PULSE_TUNING_FILE"),
		CronBottlenecks:  os.Getenv("PULSE_CRON_BOTTLENECKS"),
		CronSuggestions:  os.Getenv("PULSE_CRON_SUGGESTIONS"),
		ExportS3Bucket:   os.Getenv("PULSE_EXPORT_S3_BUCKET"),
		ExportS3Endpoint: os.Getenv("PULSE_EXPORT_S3_ENDPOINT"),
		ExportS3Region:   envOrDefault("PULSE_EXPORT_S3_REGION", "us-east-1"),
		ExportS3Prefix:   envOrDefault("PULSE_EXPORT_S3_PREFIX", "pulse/digests"),
		ExportGitRepo:    os.Getenv("PULSE_EXPORT_GIT_REPO"),
		ExportGitFile:    envOrDefault("PULSE_EXPORT_GIT_FILE", "digest.jsonl"),
		ExportGitBranch:  envOrDefault("PULSE_EXPORT_GIT_BRANCH", "main"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("PULSE_DATABASE_URL is required")
	}

	budget, err := durationEnv("PULSE_RUN_BUDGET", 2*time.Minute)
	if err != nil {
		return nil, err
	}
	c.RunBudget = budget

	interval, err := durationEnv("PULSE_EXPORT_INTERVAL", 0)
	if err != nil {
		return nil, err
	}
	c.ExportInterval = interval

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
