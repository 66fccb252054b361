// Package tailer reads the trailing fraction of a live, append-only log
// file and trims the result to a line boundary.
//
// ReadTail computes the byte window implied by the configured fraction,
// fetches it through the FileSource primitive, and discards the partial
// leading line that an arbitrary start offset produces. Resolve implements
// the "current log file" lookup over a watched directory, refusing both
// empty and ambiguous candidate sets.
//
// The package is pure given its FileSource; tests exercise it with in-memory
// sources and the daemon hands it the OS-backed implementation.
package tailer
