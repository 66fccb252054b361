// Package snapshot holds the most recent refresh result in memory.
//
// The store is a single slot guarded by one mutex: every successful refresh
// replaces the previous generation wholesale, and readers never observe a
// half-written buffer. There is no history; the SQLite sink carries refresh
// metadata over time.
package snapshot

import (
	"sync"
	"time"

	"logsnap/internal/scan"
	"logsnap/internal/tailer"
)

// Info describes the snapshot currently held by the store.
type Info struct {
	Window      tailer.Window
	Stats       scan.Stats
	LineCount   int
	RefreshedAt time.Time
}

// Store is the process-wide single-generation snapshot slot.
type Store struct {
	mu    sync.Mutex
	buf   []byte
	lines []scan.Line
	info  Info
}

// NewStore returns an empty store: zero lines, zero time, until the first
// successful refresh replaces it.
func NewStore() *Store {
	return &Store{}
}

// Replace swaps in a new generation. The previous buffer and lines are
// discarded, never merged.
func (s *Store) Replace(buf []byte, lines []scan.Line, window tailer.Window, stats scan.Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = buf
	s.lines = lines
	s.info = Info{
		Window:      window,
		Stats:       stats,
		LineCount:   len(lines),
		RefreshedAt: time.Now().UTC(),
	}
}

// Lines returns the stored line records without touching the filesystem.
// The returned slice is a copy so callers cannot race a later Replace.
func (s *Store) Lines() []scan.Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]scan.Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Buffer returns a copy of the trimmed line-delimited text.
func (s *Store) Buffer() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]byte, len(s.buf))
	copy(out, s.buf)
	return out
}

// Info reports metadata about the current generation. A zero RefreshedAt
// means no refresh has completed yet.
func (s *Store) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info
}
