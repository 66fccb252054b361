package scan

// NoNewline marks the FirstNewline field when a buffer contains no '\n'.
const NoNewline = -1

// Stats summarizes a single forward pass over a buffer.
type Stats struct {
	// LineCount is the number of '\n' bytes seen.
	LineCount int
	// MaxLineLength is the length in bytes of the longest terminated line,
	// excluding its newline.
	MaxLineLength int
	// FirstNewline is the 0-based offset of the first '\n', or NoNewline.
	FirstNewline int
}

// Scan walks buf byte by byte and returns line statistics. The buffer is
// never mutated. An empty buffer yields zero counts and FirstNewline set to
// NoNewline.
func Scan(buf []byte) Stats {
	stats := Stats{FirstNewline: NoNewline}
	lineLen := 0
	for pos, b := range buf {
		if b != '\n' {
			lineLen++
			continue
		}
		if stats.FirstNewline == NoNewline {
			stats.FirstNewline = pos
		}
		stats.LineCount++
		if lineLen > stats.MaxLineLength {
			stats.MaxLineLength = lineLen
		}
		lineLen = 0
	}
	return stats
}
