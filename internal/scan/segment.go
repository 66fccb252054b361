package scan

import (
	"errors"
	"fmt"
)

// ErrLineTooLong indicates a line exceeded the configured per-line byte
// bound before its terminating newline was seen.
var ErrLineTooLong = errors.New("line exceeds maximum length")

// Line is one newline-terminated record produced from a trimmed buffer.
// Index is 1-based and resets every refresh; Text carries no newline.
type Line struct {
	Index int
	Text  string
}

// Segment splits buf into complete lines. Every returned line was terminated
// by '\n' in the source; bytes after the last newline are discarded. A line
// whose accumulated length would exceed maxLineBytes before its newline
// aborts the whole pass with ErrLineTooLong so callers never persist a
// partial refresh.
func Segment(buf []byte, maxLineBytes int) ([]Line, error) {
	var lines []Line
	start := 0
	for pos, b := range buf {
		if b != '\n' {
			if maxLineBytes > 0 && pos-start >= maxLineBytes {
				return nil, fmt.Errorf("%w: line %d is over %d bytes", ErrLineTooLong, len(lines)+1, maxLineBytes)
			}
			continue
		}
		lines = append(lines, Line{Index: len(lines) + 1, Text: string(buf[start:pos])})
		start = pos + 1
	}
	if maxLineBytes > 0 && len(buf)-start > maxLineBytes {
		return nil, fmt.Errorf("%w: trailing line %d is over %d bytes", ErrLineTooLong, len(lines)+1, maxLineBytes)
	}
	return lines, nil
}
