package refresher

import (
	"context"
	"errors"
	"time"

	"logsnap/internal/logging"
	"logsnap/internal/scan"
	"logsnap/internal/tailer"
)

// RefreshNow performs one refresh cycle synchronously and returns the
// produced lines. Errors propagate to the caller instead of only being
// logged; the snapshot and sink are updated exactly as on a timed tick.
func (m *Manager) RefreshNow(ctx context.Context) ([]scan.Line, error) {
	m.mu.Lock()
	if m.state == StateShuttingDown {
		m.mu.Unlock()
		return nil, errors.New("refresher is shut down")
	}
	m.mu.Unlock()
	return m.runTick(ctx)
}

// runTick executes one refresh under the refresh mutex: resolve the current
// file, read and trim its tail, segment, then replace snapshot and sink
// contents. Any failure abandons the tick without partial sink writes.
//
// The tick runs detached from the caller's cancellation: shutdown stops the
// loop at its wait points, but a refresh that already started runs to
// completion so the snapshot and sink never diverge.
func (m *Manager) runTick(ctx context.Context) ([]scan.Line, error) {
	ctx = context.WithoutCancel(ctx)

	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	m.setState(StateRunning)
	defer m.setState(StateIdle)

	cfg := m.currentConfig()
	started := time.Now()

	path, err := tailer.Resolve(cfg.Watch.LogDir, cfg.Watch.FilePattern)
	if err != nil {
		m.setLastError(err)
		return nil, err
	}

	buf, window, err := tailer.ReadTail(m.source, path, cfg.Tail.Fraction)
	if err != nil {
		m.setLastError(err)
		return nil, err
	}

	stats := scan.Scan(buf)
	lines, err := scan.Segment(buf, cfg.Tail.MaxLineBytes)
	if err != nil {
		m.setLastError(err)
		return nil, err
	}

	m.snapshot.Replace(buf, lines, window, stats)

	if err := m.store.ReplaceLines(ctx, window, stats, lines); err != nil {
		m.setLastError(err)
		return nil, err
	}

	m.setLastError(nil)
	m.logger.Debug("refresh complete",
		logging.String(logging.FieldPath, path),
		logging.Int(logging.FieldLineCount, len(lines)),
		logging.Int64("window_offset", window.Offset),
		logging.Int64("window_length", window.Length),
		logging.Duration("elapsed", time.Since(started)),
	)
	return lines, nil
}
