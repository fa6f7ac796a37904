// Package assist wraps the hosted text-completion service.
//
// The service is an opaque collaborator: Completer sends one prompt and
// returns one string. Assistant holds the three call sites the journal uses
// (motivational quote, CBT guidance for a thought record, role-play reply)
// and turns every failure into a fixed Spanish fallback, so callers never
// see an error from this package.
package assist
