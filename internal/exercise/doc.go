// Package exercise runs guided exercises as small state machines.
//
// Timer drives timed exercises from a one-second tick source: breathing
// (inhale, hold, exhale, looping) and the attention anchor (a single
// countdown). Wizard walks through ordered steps with no clock: the
// panic-prevention guide and 5-4-3-2-1 sensory grounding.
//
// Each Timer owns at most one tick goroutine. Every run is stamped with a
// generation; a tick delivered for an older generation is dropped, so a
// Pause, Stop or Close cannot be undone by a tick already in flight.
package exercise
