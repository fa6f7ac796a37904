// Package store provides typed, durable slots for Presente's journal state.
//
// A slot is a named key holding one JSON document: a record collection, the
// achievements list, the current feeling, preferences. Writes go through a
// single commit path:
//
//  1. Field validation (Slot.Validate) and transition check (Slot.Check)
//  2. CUE shape validation (internal/schema)
//  3. Canonical JSON encoding (internal/model)
//  4. Logical sequence stamp and durable save to the Medium
//  5. Synchronous notification of that key's subscribers
//
// # Ordering
//
// Every committed write gets a seq from a logical clock resumed from the
// medium's last revision. Revisions are append-only and ordered by seq,
// never by wall time.
//
// # Degradation
//
// Reads never fail. An absent, undecodable or schema-invalid payload reads
// as the slot default. A medium that errors on save keeps the write in an
// in-memory overlay so the session continues; the failure is logged at WARN.
//
// # Media
//
//   - MemoryMedium: process-local, used by tests and --db=:memory:
//   - SQLiteMedium: WAL-mode SQLite with an append-only revision log
package store
