package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"logsnap/internal/scan"
	"logsnap/internal/tailer"
)

// RefreshMeta describes one successful refresh.
type RefreshMeta struct {
	ID            int64
	FilePath      string
	RefreshedAt   time.Time
	LineCount     int
	MaxLineLength int
	Window        tailer.Window
}

// ReplaceLines clears the line table and inserts the new generation in index
// order, recording refresh metadata, all inside a single transaction. A
// failure rolls back completely so the previous generation stays queryable.
func (s *Store) ReplaceLines(ctx context.Context, window tailer.Window, stats scan.Stats, lines []scan.Line) error {
	ctx = ensureContext(ctx)
	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, "DELETE FROM log_lines"); err != nil {
			return fmt.Errorf("clear lines: %w", err)
		}

		insert, err := tx.PrepareContext(ctx, "INSERT INTO log_lines (line_no, message) VALUES (?, ?)")
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer insert.Close()

		for _, line := range lines {
			if _, err := insert.ExecContext(ctx, line.Index, line.Text); err != nil {
				return fmt.Errorf("insert line %d: %w", line.Index, err)
			}
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO refreshes (
                file_path, refreshed_at, line_count, max_line_length,
                window_offset, window_length, total_size
            ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			window.Path,
			time.Now().UTC().Format(time.RFC3339Nano),
			len(lines),
			stats.MaxLineLength,
			window.Offset,
			window.Length,
			window.TotalSize,
		); err != nil {
			return fmt.Errorf("record refresh: %w", err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSink, err)
	}
	return nil
}

// Lines returns the stored generation in line order. A limit of 0 returns
// everything.
func (s *Store) Lines(ctx context.Context, limit int) ([]scan.Line, error) {
	ctx = ensureContext(ctx)
	query := "SELECT line_no, message FROM log_lines ORDER BY line_no"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query lines: %w", err)
	}
	defer rows.Close()

	var lines []scan.Line
	for rows.Next() {
		var line scan.Line
		if err := rows.Scan(&line.Index, &line.Text); err != nil {
			return nil, fmt.Errorf("scan line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lines: %w", err)
	}
	return lines, nil
}

// CountLines reports the size of the stored generation.
func (s *Store) CountLines(ctx context.Context) (int, error) {
	ctx = ensureContext(ctx)
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM log_lines").Scan(&count); err != nil {
		return 0, fmt.Errorf("count lines: %w", err)
	}
	return count, nil
}

// LastRefresh returns metadata for the most recent refresh, or nil if no
// refresh has completed yet.
func (s *Store) LastRefresh(ctx context.Context) (*RefreshMeta, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT id, file_path, refreshed_at, line_count, max_line_length,
                window_offset, window_length, total_size
           FROM refreshes ORDER BY id DESC LIMIT 1`)

	var meta RefreshMeta
	var refreshedAt string
	err := row.Scan(
		&meta.ID,
		&meta.FilePath,
		&refreshedAt,
		&meta.LineCount,
		&meta.MaxLineLength,
		&meta.Window.Offset,
		&meta.Window.Length,
		&meta.Window.TotalSize,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query last refresh: %w", err)
	}
	meta.Window.Path = meta.FilePath

	if meta.RefreshedAt, err = time.Parse(time.RFC3339Nano, refreshedAt); err != nil {
		return nil, fmt.Errorf("parse refreshed_at %q: %w", refreshedAt, err)
	}
	return &meta, nil
}

// RefreshHistory returns up to limit refresh records, newest first.
func (s *Store) RefreshHistory(ctx context.Context, limit int) ([]RefreshMeta, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, file_path, refreshed_at, line_count, max_line_length,
                window_offset, window_length, total_size
           FROM refreshes ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query refresh history: %w", err)
	}
	defer rows.Close()

	var history []RefreshMeta
	for rows.Next() {
		var meta RefreshMeta
		var refreshedAt string
		if err := rows.Scan(
			&meta.ID,
			&meta.FilePath,
			&refreshedAt,
			&meta.LineCount,
			&meta.MaxLineLength,
			&meta.Window.Offset,
			&meta.Window.Length,
			&meta.Window.TotalSize,
		); err != nil {
			return nil, fmt.Errorf("scan refresh: %w", err)
		}
		meta.Window.Path = meta.FilePath
		if meta.RefreshedAt, err = time.Parse(time.RFC3339Nano, refreshedAt); err != nil {
			return nil, fmt.Errorf("parse refreshed_at %q: %w", refreshedAt, err)
		}
		history = append(history, meta)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate refreshes: %w", err)
	}
	return history, nil
}
