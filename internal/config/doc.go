// Package config loads, normalizes, and validates logsnap configuration.
//
// Configuration lives in a TOML file (default ~/.config/logsnap/config.toml)
// and is split into [watch] (which log file to follow), [tail] (fraction,
// refresh cadence, per-line bound), [paths] (daemon state directories), and
// [logging] (daemon log output). Load applies defaults, expands ~ paths, and
// rejects unusable values so the rest of the process never re-checks them.
//
// The daemon re-runs Load on a reload signal; new tail settings take effect
// on the next refresh tick.
package config
