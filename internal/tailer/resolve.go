package tailer

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Resolve returns the single file under dir matching pattern. It is the
// "current log file" lookup: zero matches fail with ErrNotFound and more
// than one with ErrAmbiguous, since the tailer has no rotation heuristics to
// pick between candidates.
func Resolve(dir, pattern string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return "", fmt.Errorf("resolve log file: bad pattern %q: %w", pattern, err)
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: no file matching %q under %s", ErrNotFound, pattern, dir)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %q under %s matches [%s]", ErrAmbiguous, pattern, dir, strings.Join(matches, ", "))
	}
}
