// Package testsupport provides fixtures shared by package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"logsnap/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Watch.LogDir = filepath.Join(base, "watched")
	cfg.Watch.FilePattern = "*.log"
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Tail.Fraction = 0.5
	cfg.Tail.RefreshIntervalSeconds = 1
	cfg.Tail.MaxLineBytes = 1 << 16

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

// WithFraction overrides the tail fraction on the test config.
func WithFraction(fraction float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Tail.Fraction = fraction
	}
}

// WithMaxLineBytes overrides the per-line bound on the test config.
func WithMaxLineBytes(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Tail.MaxLineBytes = n
	}
}
