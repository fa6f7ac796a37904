package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	harnessScenarios = "../harness/testdata/scenarios"
	harnessGolden    = "../harness/testdata/golden"
)

const failingScenario = `name: wrong_count
description: "Asserts one log where there are none"
flow:
  - op: feeling.set
    args: { feeling: Calmado }
assertions:
  - type: final_state
    slot: emotionalLog
    count: 1
`

const passingScenario = `name: calm
description: "Sets the feeling"
flow:
  - op: feeling.set
    args: { feeling: Calmado }
assertions:
  - type: final_state
    slot: currentFeeling
    expect: { value: Calmado }
`

func writeScenario(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestTestCommand_GoldenScenariosPass(t *testing.T) {
	opts := newTestOptions(t)

	out := mustRun(t, opts, "test", harnessScenarios, "--golden", harnessGolden)
	assert.Contains(t, out, "✓ three_day_streak\n")
	assert.Contains(t, out, "✓ exposure_ladder\n")
	assert.Contains(t, out, "Test Summary: 2 passed, 0 failed, 2 total\n")
	assert.Contains(t, out, "✓ All scenarios passed\n")
}

func TestTestCommand_Filter(t *testing.T) {
	opts := newTestOptions(t)

	res := decodeData[TestResult](t, opts, "test", harnessScenarios, "--golden", harnessGolden, "--filter", "exposure_*")
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "exposure_ladder", res.Scenarios[0].Name)
	assert.True(t, res.Scenarios[0].Pass)
}

func TestTestCommand_GoldenMismatch(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "calm.yaml", passingScenario)
	golden := filepath.Join(dir, "golden")
	require.NoError(t, os.MkdirAll(golden, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(golden, "calm.golden"), []byte(`{"scenario_name":"calm","trace":[]}`), 0o644))

	opts := newTestOptions(t)
	stdout, _, code := run(t, opts, "", "test", dir)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stdout, "✗ calm\n")
	assert.Contains(t, stdout, "trace does not match golden file")
}

func TestTestCommand_UpdateWritesGolden(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "calm.yaml", passingScenario)

	opts := newTestOptions(t)
	out := mustRun(t, opts, "test", dir, "--update")
	assert.Contains(t, out, "✓ calm (golden updated)\n")

	data, err := os.ReadFile(filepath.Join(dir, "golden", "calm.golden"))
	require.NoError(t, err)
	var snap struct {
		Name  string            `json:"scenario_name"`
		Trace []json.RawMessage `json:"trace"`
	}
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, "calm", snap.Name)
	assert.Len(t, snap.Trace, 1)

	out = mustRun(t, newTestOptions(t), "test", dir)
	assert.Contains(t, out, "✓ calm\n")
}

func TestTestCommand_FailingAssertion(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "wrong_count.yaml", failingScenario)
	writeScenario(t, dir, "calm.yml", passingScenario)

	opts := newTestOptions(t)
	stdout, stderr, code := run(t, opts, "", "--format", "json", "test", dir)
	assert.Equal(t, ExitFailure, code)
	assert.Empty(t, stderr, "failures are reported once, in the result")

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp), stdout)
	assert.Equal(t, 2, resp.Data.Total)
	assert.Equal(t, 1, resp.Data.Passed)
	assert.Equal(t, 1, resp.Data.Failed)

	byName := map[string]ScenarioResult{}
	for _, s := range resp.Data.Scenarios {
		byName[s.Name] = s
	}
	require.Contains(t, byName, "wrong_count")
	assert.False(t, byName["wrong_count"].Pass)
	require.NotEmpty(t, byName["wrong_count"].Errors)
	assert.Contains(t, byName["wrong_count"].Errors[0], "final_state assertion failed")
}

func TestTestCommand_InvalidScenario(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "broken.yaml", "name: broken\nflow: []\n")

	opts := newTestOptions(t)
	stdout, _, code := run(t, opts, "", "test", dir)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stdout, "✗ broken.yaml\n")
	assert.Contains(t, stdout, "failed to load scenario")
}

func TestTestCommand_MissingDir(t *testing.T) {
	opts := newTestOptions(t)

	_, stderr, code := run(t, opts, "", "test", filepath.Join(t.TempDir(), "nope"))
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "scenarios directory not found")
}

func TestTestCommand_Empty(t *testing.T) {
	opts := newTestOptions(t)
	assert.Equal(t, "No scenarios found.\n", mustRun(t, opts, "test", t.TempDir()))
}
