package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CleanupOldRunLogs removes run logs under dir matching pattern that are
// older than retentionDays, keeping any path listed in exclude. A
// retentionDays value of 0 disables pruning.
func CleanupOldRunLogs(logger *slog.Logger, dir, pattern string, retentionDays int, exclude ...string) {
	if retentionDays <= 0 || strings.TrimSpace(dir) == "" {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	keep := make(map[string]struct{}, len(exclude))
	for _, path := range exclude {
		if abs, err := filepath.Abs(strings.TrimSpace(path)); err == nil {
			keep[abs] = struct{}{}
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if matched, err := filepath.Match(pattern, entry.Name()); err != nil || !matched {
			continue
		}
		fullPath := filepath.Join(dir, entry.Name())
		if abs, err := filepath.Abs(fullPath); err == nil {
			fullPath = abs
		}
		if _, skip := keep[fullPath]; skip {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(fullPath); err != nil {
			if logger != nil {
				logger.Warn("log retention remove failed; file remains",
					String(FieldPath, fullPath),
					Error(err),
					String(FieldErrorHint, "check log_dir permissions"),
				)
			}
		}
	}
}
