// Package scan walks byte buffers of line-delimited log text.
//
// Scan performs a single forward pass collecting line statistics (count,
// longest line, offset of the first newline) without touching the buffer.
// Segment performs the second pass that materializes complete lines as
// records, enforcing the per-line size bound and discarding any unterminated
// trailing fragment.
//
// Both passes are deterministic and allocation-bounded; the tailer relies on
// Scan's first-newline offset to trim partial leading lines before Segment
// ever sees the buffer.
package scan
