// Package logging builds the slog loggers used across logsnap.
//
// New constructs a logger from explicit options; NewFromConfig derives those
// options from application config, teeing output to stdout and the daemon's
// run log. The console handler renders compact single-line records for
// humans, the json handler structured records for ingestion.
//
// Use the Attr helpers and field constants here rather than raw keys so log
// output stays greppable across packages.
package logging
