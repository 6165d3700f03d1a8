// Package history persists a record of every cleanup run in SQLite.
//
// Each run gets one row in the runs table, keyed by the run ID the workflow
// generates, plus one row per processed item in the deletions table. The
// schema ships as embedded migrations applied on Open; the CLI reads it back
// for the history command and the doctor checks.
package history
