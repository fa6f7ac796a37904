// Package journal is the application service over the store: record
// operations for the emotional log, thought records and exposure ladder,
// the current feeling, preferences, dashboard progress and daily
// suggestions.
//
// Every operation is a single slot write, so a failed validation leaves
// the collection exactly as it was.
package journal
