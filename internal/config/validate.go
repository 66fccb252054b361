package config

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateWatch(); err != nil {
		return err
	}
	if err := c.validateTail(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateWatch() error {
	if c.Watch.LogDir == "" {
		return errors.New("watch.log_dir must be set")
	}
	if c.Watch.FilePattern == "" {
		return errors.New("watch.file_pattern must be set")
	}
	if _, err := filepath.Match(c.Watch.FilePattern, "probe"); err != nil {
		return fmt.Errorf("watch.file_pattern %q is not a valid glob: %w", c.Watch.FilePattern, err)
	}
	return nil
}

func (c *Config) validateTail() error {
	if c.Tail.Fraction <= 0 || c.Tail.Fraction > 1 {
		return fmt.Errorf("tail.fraction must be in (0, 1], got %v", c.Tail.Fraction)
	}
	if c.Tail.RefreshIntervalSeconds <= 0 {
		return fmt.Errorf("tail.refresh_interval_seconds must be positive, got %d", c.Tail.RefreshIntervalSeconds)
	}
	if c.Tail.MaxLineBytes <= 0 {
		return fmt.Errorf("tail.max_line_bytes must be positive, got %d", c.Tail.MaxLineBytes)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	if c.Logging.RetentionDays < 0 {
		return fmt.Errorf("logging.retention_days must not be negative, got %d", c.Logging.RetentionDays)
	}
	return nil
}
