// Package engine unlocks achievements from changes to journal collections.
//
// The engine watches registered collections through store subscriptions.
// When a collection commits, each rule bound to it is evaluated against the
// new snapshot; a rule whose achievement is still locked and whose
// predicate now holds flips that achievement to unlocked and stamps
// dateUnlocked. The achievements slot is written only when something
// unlocked, so the engine's own write never feeds back into itself.
//
// # Rules
//
// Rules come from a YAML catalog (catalog.yaml, embedded). Each entry names
// the achievement, the collection it watches and a predicate in expr-lang.
// Predicates see the collection environment:
//
//	entries   the records, typed ([]model.EmotionalLogEntry, ...)
//	count     len(entries)
//	dates     timestamps of entries that carry one
//
// plus distinctDaysInWindow(dates, window), the number of distinct civil
// days with an entry inside the best window of that many consecutive days.
//
// # Invariants
//
//   - Unlocked achievements are never revisited or re-locked
//   - Evaluating the same inputs twice unlocks nothing the second time
//   - Only rules bound to the changed collection are evaluated
//   - A rule naming an unregistered collection fails New
//   - Predicate runtime errors and snapshot type mismatches are logged and
//     treated as not satisfied
package engine
