// Package refresher drives the periodic tail-read-and-segment cycle.
//
// The Manager runs one background goroutine that waits for the refresh
// interval, an explicit wake, a reload signal, or shutdown. Each tick
// resolves the current log file, reads its tail fraction, segments the
// trimmed buffer into lines, and replaces both the in-memory snapshot and
// the SQLite line table. Refreshes are single-flight: the loop processes
// ticks sequentially and synchronous RefreshNow calls serialize against it
// on the same mutex.
//
// All tick failures (missing file, read race, oversized line, sink error)
// are logged and scoped to that tick; the loop always returns to waiting.
// Shutdown is cooperative and final: an in-flight refresh finishes, then the
// loop exits and the Manager will not restart.
package refresher
