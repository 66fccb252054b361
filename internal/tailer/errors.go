package tailer

import "errors"

var (
	// ErrNotFound indicates the log file or directory entry is missing.
	ErrNotFound = errors.New("log file not found")
	// ErrAmbiguous indicates more than one file matched the current-file pattern.
	ErrAmbiguous = errors.New("multiple candidate log files")
	// ErrReadFailed indicates the byte-range read failed, typically a race
	// against rotation or truncation between stat and read.
	ErrReadFailed = errors.New("log read failed")
	// ErrNoCompleteLine indicates the requested window contains no newline at
	// all, so no complete line can be produced from it.
	ErrNoCompleteLine = errors.New("window contains no complete line")
)
