package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"logsnap/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "")

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected resolved existing path %q, got %q exists=%v", path, resolved, exists)
	}
	if cfg.Tail.Fraction != 0.1 {
		t.Fatalf("default fraction = %v, want 0.1", cfg.Tail.Fraction)
	}
	if cfg.Tail.RefreshIntervalSeconds != 60 {
		t.Fatalf("default interval = %d, want 60", cfg.Tail.RefreshIntervalSeconds)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("default log format = %q", cfg.Logging.Format)
	}
}

func TestLoadParsesAndExpands(t *testing.T) {
	path := writeConfig(t, `
[watch]
log_dir = "~/logs"
file_pattern = "app-*.log"

[tail]
fraction = 0.5
refresh_interval_seconds = 5
max_line_bytes = 4096
`)

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Tail.Fraction != 0.5 || cfg.Tail.RefreshIntervalSeconds != 5 || cfg.Tail.MaxLineBytes != 4096 {
		t.Fatalf("unexpected tail config: %+v", cfg.Tail)
	}
	if strings.HasPrefix(cfg.Watch.LogDir, "~") || !filepath.IsAbs(cfg.Watch.LogDir) {
		t.Fatalf("watch.log_dir not expanded: %q", cfg.Watch.LogDir)
	}
	if cfg.Watch.FilePattern != "app-*.log" {
		t.Fatalf("file pattern = %q", cfg.Watch.FilePattern)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"fraction too large", "[tail]\nfraction = 1.5\n"},
		{"fraction negative", "[tail]\nfraction = -0.2\n"},
		{"negative interval", "[tail]\nrefresh_interval_seconds = -1\n"},
		{"bad log format", "[logging]\nformat = \"xml\"\n"},
		{"bad glob", "[watch]\nfile_pattern = \"[\"\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			if _, _, _, err := config.Load(path); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestDerivedPaths(t *testing.T) {
	path := writeConfig(t, "[paths]\ndata_dir = \""+t.TempDir()+"\"\n")

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if filepath.Dir(cfg.DatabasePath()) != cfg.Paths.DataDir {
		t.Fatalf("database path %q not under data dir", cfg.DatabasePath())
	}
	if filepath.Dir(cfg.SocketPath()) != cfg.Paths.DataDir {
		t.Fatalf("socket path %q not under data dir", cfg.SocketPath())
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load of sample failed: %v", err)
	}
	if !exists {
		t.Fatal("sample config not detected")
	}
	if cfg.Tail.Fraction != 0.1 {
		t.Fatalf("sample fraction = %v", cfg.Tail.Fraction)
	}
}
