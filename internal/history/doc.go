// Package history persists a summary row for every av3atool run in a SQLite
// database under the state directory.
//
// Rows are inserted as running when a pipeline starts and finalized once it
// succeeds or fails. The schema is versioned; a mismatch is reported rather
// than migrated, so users clear the database after upgrades that change it.
package history
