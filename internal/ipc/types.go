package ipc

import "time"

// PingRequest checks daemon liveness.
type PingRequest struct{}

// PingResponse acknowledges a ping.
type PingResponse struct {
	PID int `json:"pid"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents combined daemon/refresher status information.
type StatusResponse struct {
	Running      bool      `json:"running"`
	State        string    `json:"state"`
	LastError    string    `json:"last_error"`
	LineCount    int       `json:"line_count"`
	RefreshedAt  time.Time `json:"refreshed_at"`
	Fraction     float64   `json:"fraction"`
	IntervalSecs int       `json:"interval_seconds"`
	DatabasePath string    `json:"database_path"`
	LockPath     string    `json:"lock_path"`
	PID          int       `json:"pid"`
}

// LineRecord is the wire form of one segmented log line.
type LineRecord struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// RefreshRequest triggers one synchronous refresh cycle.
type RefreshRequest struct{}

// RefreshResponse reports the refreshed generation.
type RefreshResponse struct {
	Lines []LineRecord `json:"lines"`
}

// LinesRequest fetches the current snapshot, optionally limited. Source
// selects where lines come from: "snapshot" (default, in-memory) or "store"
// (SQLite).
type LinesRequest struct {
	Limit  int    `json:"limit"`
	Source string `json:"source"`
}

// LinesResponse contains line records in index order.
type LinesResponse struct {
	Lines []LineRecord `json:"lines"`
}

// ReloadRequest asks the daemon to re-read its configuration.
type ReloadRequest struct{}

// ReloadResponse acknowledges the reload request.
type ReloadResponse struct {
	Accepted bool `json:"accepted"`
}

// StopRequest asks the daemon process to shut down.
type StopRequest struct{}

// StopResponse indicates the shutdown was initiated.
type StopResponse struct {
	Stopping bool `json:"stopping"`
}
