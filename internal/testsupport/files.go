package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"logsnap/internal/config"
)

// WriteLogFile creates name under the watched log directory with the given
// content and returns its full path.
func WriteLogFile(t testing.TB, cfg *config.Config, name, content string) string {
	t.Helper()

	if err := os.MkdirAll(cfg.Watch.LogDir, 0o755); err != nil {
		t.Fatalf("create watched dir: %v", err)
	}
	path := filepath.Join(cfg.Watch.LogDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log file %s: %v", name, err)
	}
	return path
}

// AppendLogFile appends content to an existing log file, mimicking a live
// writer between refreshes.
func AppendLogFile(t testing.TB, path, content string) {
	t.Helper()

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatalf("open log file for append: %v", err)
	}
	defer file.Close()
	if _, err := file.WriteString(content); err != nil {
		t.Fatalf("append log file: %v", err)
	}
}
