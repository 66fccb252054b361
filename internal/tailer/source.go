package tailer

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// FileSource is the byte-range read primitive the tailer consumes. The
// daemon uses the OS-backed implementation; tests substitute in-memory ones.
type FileSource interface {
	// Stat returns the current size of the regular file at path.
	Stat(path string) (int64, error)
	// ReadRange returns exactly the bytes [offset, offset+length) of path.
	ReadRange(path string, offset, length int64) ([]byte, error)
}

// OSFileSource reads files through the local filesystem.
type OSFileSource struct{}

func (OSFileSource) Stat(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return 0, fmt.Errorf("stat log file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return 0, fmt.Errorf("%w: %s is not a regular file", ErrNotFound, path)
	}
	return info.Size(), nil
}

func (OSFileSource) ReadRange(path string, offset, length int64) ([]byte, error) {
	if length == 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrReadFailed, path, err)
	}
	defer file.Close()

	buf := make([]byte, length)
	n, err := file.ReadAt(buf, offset)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: read %s at %d: %v", ErrReadFailed, path, offset, err)
	}
	// The file may have been truncated between stat and read; keep what the
	// read actually returned.
	return buf[:n], nil
}
