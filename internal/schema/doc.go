// Package schema validates slot payloads against CUE definitions.
//
// Every durable slot names a definition in journal.cue (e.g. "#EmotionalLog").
// A payload is accepted only if it unifies with that definition and the
// result is concrete. Definitions are closed, so unknown fields are
// rejected as well.
//
// Uses CUE SDK's Go API directly (not CLI subprocess). A cue.Context is
// not safe for concurrent use, so Validator serializes access.
package schema
