// Package daemon coordinates the long-running logsnap process.
//
// It wires configuration, the SQLite line store, and the refresher into a
// single lifecycle with flock-based locking to prevent multiple instances
// against the same data directory. The daemon exposes the control surface
// the IPC layer serves: status, on-demand refresh, snapshot queries, and
// config reload.
//
// Keep orchestration logic here; the refresh semantics themselves live in
// the refresher package.
package daemon
