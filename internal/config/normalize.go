package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeWatch(); err != nil {
		return err
	}
	c.normalizeTail()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeWatch() error {
	var err error
	if strings.TrimSpace(c.Watch.LogDir) == "" {
		c.Watch.LogDir = defaultWatchLogDir
	}
	if c.Watch.LogDir, err = expandPath(c.Watch.LogDir); err != nil {
		return fmt.Errorf("watch.log_dir: %w", err)
	}
	c.Watch.FilePattern = strings.TrimSpace(c.Watch.FilePattern)
	if c.Watch.FilePattern == "" {
		c.Watch.FilePattern = defaultFilePattern
	}
	return nil
}

func (c *Config) normalizeTail() {
	if c.Tail.Fraction == 0 {
		c.Tail.Fraction = defaultFraction
	}
	if c.Tail.RefreshIntervalSeconds == 0 {
		c.Tail.RefreshIntervalSeconds = defaultRefreshIntervalSeconds
	}
	if c.Tail.MaxLineBytes == 0 {
		c.Tail.MaxLineBytes = defaultMaxLineBytes
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays == 0 {
		c.Logging.RetentionDays = defaultLogRetentionDays
	}
}
