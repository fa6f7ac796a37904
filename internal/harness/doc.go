// Package harness runs scripted journal sessions and checks their effects.
//
// A scenario drives the journal service against a fresh in-memory store with
// the achievement engine attached. The clock is manual and record ids are
// sequential, so a scenario is reproducible and its trace of slot commits can
// be compared against a golden file.
//
// # Scenario Format
//
//	name: first_log_unlocks
//	description: "The first log entry unlocks first_log"
//	start: "2024-03-10T12:00:00Z"
//	timezone: UTC
//	flow:
//	  - op: log.add
//	    args: { situation: "Reunión", thoughts: "...", feelings: "...", actions: "...", anxiety: 6 }
//	  - op: log.delete
//	    args: { id: rec-0009 }
//	    expect: { error: NOT_FOUND }
//	  - op: clock.advance
//	    args: { by: 24h }
//	assertions:
//	  - type: trace_contains
//	    slot: achievements
//	  - type: final_state
//	    slot: emotionalLog
//	    where: { id: rec-0001 }
//	    expect: { anxietyLevel: 6 }
//	  - type: achievements
//	    unlocked: [first_log]
//
// # Operations
//
// log.add, log.edit, log.delete, thought.add, thought.delete, exposure.add,
// exposure.edit, exposure.toggle, exposure.complete, exposure.delete,
// feeling.set, preferences.set and clock.advance. Edit operations only
// change the fields they name.
//
// # Assertion Types
//
//   - trace_contains: some commit matches slot and/or op
//   - trace_order: the first commits of the listed slots occur in order
//   - trace_count: exactly count commits match slot and/or op
//   - final_state: the stored slot value matches where/expect/count
//   - achievements: the listed ids are unlocked or locked
package harness
