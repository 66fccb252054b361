package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConsoleHandlerFormatsRecord(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, levelVar, false))

	NewComponentLogger(logger, "refresher").Info("refresh complete",
		Int(FieldLineCount, 42),
		String(FieldPath, "/var/log/messages"),
	)

	out := buf.String()
	if !strings.Contains(out, "INFO refresher: refresh complete") {
		t.Fatalf("unexpected console output: %q", out)
	}
	if !strings.Contains(out, "line_count=42") {
		t.Fatalf("missing line_count attr: %q", out)
	}
	if !strings.Contains(out, "path=/var/log/messages") {
		t.Fatalf("missing path attr: %q", out)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newConsoleHandler(&buf, new(slog.LevelVar), false))

	logger.Warn("check", String("detail", "needs quoting"))

	if !strings.Contains(buf.String(), `detail="needs quoting"`) {
		t.Fatalf("value not quoted: %q", buf.String())
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelWarn)
	logger := slog.New(newConsoleHandler(&buf, levelVar, false))

	logger.Info("dropped")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") || !strings.Contains(out, "kept") {
		t.Fatalf("level filtering broken: %q", out)
	}
}

func TestJSONHandlerFieldNames(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newJSONHandler(&buf, new(slog.LevelVar), false))

	logger.Info("hello", Int("n", 1))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("invalid json output: %v (%q)", err, buf.String())
	}
	if record["msg"] != "hello" || record["level"] != "info" {
		t.Fatalf("unexpected record: %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("missing ts field: %v", record)
	}
}

func TestNewWritesToFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "run.log")

	logger, err := New(Options{Level: "debug", Format: "json", OutputPaths: []string{logPath}, ErrorOutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Info("persisted")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "persisted") {
		t.Fatalf("log file missing record: %q", data)
	}
}

func TestCleanupOldRunLogs(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "logsnapd-old.log")
	current := filepath.Join(dir, "logsnapd-current.log")
	other := filepath.Join(dir, "keep.txt")
	for _, path := range []string{old, current, other} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	stale := time.Now().AddDate(0, 0, -10)
	if err := os.Chtimes(old, stale, stale); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if err := os.Chtimes(other, stale, stale); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	CleanupOldRunLogs(NewNop(), dir, "logsnapd-*.log", 7, current)

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatal("stale run log should have been removed")
	}
	if _, err := os.Stat(current); err != nil {
		t.Fatal("current run log should survive")
	}
	if _, err := os.Stat(other); err != nil {
		t.Fatal("non-matching file should survive")
	}
}
