// Package model defines the journal's record types and their serialized form.
//
// This package contains types and pure helpers only. Every other internal
// package imports model; model imports nothing internal.
//
// Key design constraints:
//   - JSON field names are camelCase and match the durable slot payloads
//   - Record ids are opaque strings, unique within their collection
//   - Timestamps serialize as RFC 3339 strings
//   - No float fields; levels and counts are ints
package model
