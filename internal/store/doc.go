// Package store persists refreshed log lines in SQLite.
//
// The Store manages the database connection, schema initialization, and the
// clear-and-insert transaction that replaces the line table wholesale on
// every refresh. Alongside the lines it records one metadata row per
// successful refresh (window, counts, timestamps) so operators can inspect
// refresh history even though the line table only ever holds the latest
// generation.
//
// Schema changes bump schemaVersion in schema.go; the database is transient
// materialized state and can always be deleted and rebuilt from the next
// refresh.
package store
