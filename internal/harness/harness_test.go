package harness

import (
	"path/filepath"
	"testing"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
	require.NoError(t, err)
	return s
}

func TestGoldenScenarios(t *testing.T) {
	for _, name := range []string{"three_day_streak", "exposure_ladder"} {
		t.Run(name, func(t *testing.T) {
			result, err := RunWithGolden(t, loadTestScenario(t, name))
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_Deterministic(t *testing.T) {
	s := loadTestScenario(t, "three_day_streak")

	first, err := Run(t.Context(), s)
	require.NoError(t, err)
	second, err := Run(t.Context(), s)
	require.NoError(t, err)

	a, err := Snapshot(s.Name, first)
	require.NoError(t, err)
	b, err := Snapshot(s.Name, second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestRun_EngineCommitFollowsRecordCommit(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: thought
description: first thought record
flow:
  - op: thought.add
    args: { situation: "Clase", thought: "Todos me miran", alternative: "Cada uno está en lo suyo" }
`))
	require.NoError(t, err)

	result, err := Run(t.Context(), s)
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)
	require.Len(t, result.Trace, 2)

	assert.Equal(t, SlotThoughtRecords, result.Trace[0].Slot)
	assert.Equal(t, int64(1), result.Trace[0].Seq)
	assert.Equal(t, SlotAchievements, result.Trace[1].Slot)
	assert.Equal(t, []string{"first_thought_record"}, result.Trace[1].Unlocked)
	assert.Equal(t, "thought.add", result.Trace[1].Op)
}

func TestRun_UnexpectedErrorFails(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: bad_delete
description: deleting a missing log is an error
flow:
  - op: log.delete
    args: { id: missing }
`))
	require.NoError(t, err)

	result, err := Run(t.Context(), s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "flow[0] log.delete: unexpected error")
	assert.Empty(t, result.Trace)
}

func TestRun_WrongExpectedCodeFails(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: wrong_code
description: the error code must match
flow:
  - op: log.add
    args: { situation: s, thoughts: t, feelings: f, actions: a, anxiety: 12 }
    expect: { error: NOT_FOUND }
  - op: log.add
    args: { situation: s, thoughts: t, feelings: f, actions: a, anxiety: 3 }
    expect: { error: VALIDATION_FAILED }
`))
	require.NoError(t, err)

	result, err := Run(t.Context(), s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "expected error NOT_FOUND, got VALIDATION_FAILED")
	assert.Contains(t, result.Errors[1], "expected error VALIDATION_FAILED, got success")
}

func TestRun_EditChangesOnlyNamedFields(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: edit
description: edit keeps unnamed fields
flow:
  - op: log.add
    args: { situation: antes, thoughts: t, feelings: f, actions: a, anxiety: 3 }
  - op: clock.advance
    args: { by: 1h }
  - op: log.edit
    args: { id: rec-0001, situation: después }
assertions:
  - type: final_state
    slot: emotionalLog
    where: { id: rec-0001 }
    expect: { situation: después, thoughts: t, anxietyLevel: 3, date: "2024-03-10T12:00:00Z" }
  - type: trace_count
    op: log.edit
    count: 1
`))
	require.NoError(t, err)

	result, err := Run(t.Context(), s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_MalformedArgs(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: malformed
description: args must decode
flow:
  - op: clock.advance
    args: { by: soon }
`))
	require.NoError(t, err)

	_, err = Run(t.Context(), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flow[0] clock.advance")
}

func TestRun_Timezone(t *testing.T) {
	// 23:30 and 00:30 UTC fall on the same civil day in America/Bogota.
	s, err := ParseScenario([]byte(`
name: tz
description: civil days follow the scenario timezone
start: "2024-03-10T23:30:00Z"
timezone: America/Bogota
flow:
  - op: log.add
    args: { situation: s, thoughts: t, feelings: f, actions: a, anxiety: 1 }
  - op: clock.advance
    args: { by: 1h }
  - op: log.add
    args: { situation: s, thoughts: t, feelings: f, actions: a, anxiety: 1 }
  - op: clock.advance
    args: { by: 24h }
  - op: log.add
    args: { situation: s, thoughts: t, feelings: f, actions: a, anxiety: 1 }
assertions:
  - type: achievements
    unlocked: [first_log]
    locked: [consistent_log_3days]
`))
	require.NoError(t, err)

	result, err := Run(t.Context(), s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}
