// Package runstore persists a history of finished runs in SQLite.
//
// The store is an append-only ledger: the orchestrator records one row per
// finalized run and the CLI lists recent rows. It never feeds back into
// pipeline behavior.
package runstore
