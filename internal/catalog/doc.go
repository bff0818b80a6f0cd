// Package catalog persists run history in SQLite and exposes helpers for
// browsing past operations.
//
// The Store manages database connections, schema initialization, and the
// per-run detail rows behind every recorded scan, duplicate sweep, and
// organize pass. Each run captures counters plus the individual pairs,
// moves, and failures so later inspection does not depend on log files.
//
// The database records outcomes only; nothing in the scanning or duplicate
// detection paths reads it back to make decisions. Schema changes bump the
// version in schema.go; users clear the database to adopt the new schema.
package catalog
