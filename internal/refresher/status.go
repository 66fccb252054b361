package refresher

import (
	"time"

	"logsnap/internal/scan"
	"logsnap/internal/snapshot"
)

// StatusSummary reports the scheduler's published state.
type StatusSummary struct {
	State       State
	LastError   string
	LineCount   int
	RefreshedAt time.Time
	Fraction    float64
	Interval    time.Duration
}

// Status returns the current state, last tick error, and snapshot metadata.
func (m *Manager) Status() StatusSummary {
	m.mu.Lock()
	state := m.state
	lastErr := ""
	if m.lastErr != nil {
		lastErr = m.lastErr.Error()
	}
	fraction := m.cfg.Tail.Fraction
	interval := time.Duration(m.cfg.Tail.RefreshIntervalSeconds) * time.Second
	m.mu.Unlock()

	info := m.snapshot.Info()
	return StatusSummary{
		State:       state,
		LastError:   lastErr,
		LineCount:   info.LineCount,
		RefreshedAt: info.RefreshedAt,
		Fraction:    fraction,
		Interval:    interval,
	}
}

// Snapshot returns the lines of the last stored snapshot without touching
// the filesystem.
func (m *Manager) Snapshot() []scan.Line {
	return m.snapshot.Lines()
}

// SnapshotInfo returns metadata about the last stored snapshot.
func (m *Manager) SnapshotInfo() snapshot.Info {
	return m.snapshot.Info()
}
