package tailer

import (
	"fmt"

	"logsnap/internal/scan"
)

// Window describes the byte range requested from the file.
type Window struct {
	Path      string
	TotalSize int64
	Offset    int64
	Length    int64
}

// windowFor computes the tail window for a file of the given size.
// fraction 1.0 requests the whole file from offset 0.
func windowFor(path string, size int64, fraction float64) Window {
	w := Window{Path: path, TotalSize: size}
	if fraction >= 1.0 {
		w.Length = size
		return w
	}
	w.Offset = int64(float64(size) * (1 - fraction))
	// The window always reaches end of file, so the length is whatever
	// remains past the offset.
	w.Length = size - w.Offset
	return w
}

// ReadTail reads the trailing fraction of the file at path and trims the
// buffer so it starts on a line boundary. The returned Window reports the
// raw byte range that was requested, before trimming.
//
// With fraction 1.0 the buffer is returned whole: reading starts at byte 0,
// so there is no partial leading line to discard. A partial window with no
// newline at all cannot yield a complete line and fails with
// ErrNoCompleteLine rather than silently returning nothing.
func ReadTail(src FileSource, path string, fraction float64) ([]byte, Window, error) {
	if fraction <= 0 || fraction > 1.0 {
		return nil, Window{}, fmt.Errorf("tail fraction %v out of range (0, 1]", fraction)
	}

	size, err := src.Stat(path)
	if err != nil {
		return nil, Window{}, err
	}

	window := windowFor(path, size, fraction)
	if window.Length == 0 {
		return nil, window, nil
	}

	buf, err := src.ReadRange(path, window.Offset, window.Length)
	if err != nil {
		return nil, window, err
	}

	if fraction >= 1.0 {
		return buf, window, nil
	}

	stats := scan.Scan(buf)
	if stats.FirstNewline == scan.NoNewline {
		return nil, window, fmt.Errorf("%w: %d byte window of %s", ErrNoCompleteLine, len(buf), path)
	}
	return buf[stats.FirstNewline+1:], window, nil
}
