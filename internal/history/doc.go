// Package history records finished runs in a SQLite database under the state
// directory: one row per run with its options, chapter counts, final status,
// and the manifest JSON it produced.
package history
