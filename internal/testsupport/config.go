// Package testsupport provides shared helpers for package tests: canned
// configurations, synthetic image corpora and manifest builders.
package testsupport

import (
	"testing"

	"imgeda/internal/config"
)

// ConfigOption customizes the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a validated config suitable for tests: a small worker
// pool, a short item timeout and tight checkpoint interval so tests
// exercise flush paths without thousands of files.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Scan.Workers = 2
	cfg.Scan.CheckpointEvery = 4
	cfg.Scan.ItemTimeoutSeconds = 30

	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

// WithCheckpointEvery overrides the checkpoint flush interval.
func WithCheckpointEvery(n int) ConfigOption {
	return func(c *config.Config) {
		c.Scan.CheckpointEvery = n
	}
}

// WithWorkers overrides the worker pool size.
func WithWorkers(n int) ConfigOption {
	return func(c *config.Config) {
		c.Scan.Workers = n
	}
}

// WithItemTimeout overrides the per-item analyzer timeout in seconds.
func WithItemTimeout(seconds int) ConfigOption {
	return func(c *config.Config) {
		c.Scan.ItemTimeoutSeconds = seconds
	}
}
