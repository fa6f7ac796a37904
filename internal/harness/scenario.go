package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted journal session.
// The flow runs against a fresh store with a manual clock and sequential
// record ids, so the same scenario always produces the same trace.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// Start is the RFC 3339 wall-clock time the scenario begins at.
	// Defaults to DefaultStart.
	Start string `yaml:"start,omitempty"`

	// Timezone is the IANA zone that defines civil days. Defaults to UTC.
	Timezone string `yaml:"timezone,omitempty"`

	// Flow contains the operations to run in order.
	Flow []Step `yaml:"flow"`

	// Assertions validate the trace and the final slot values.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one operation of the flow.
type Step struct {
	// Op names the operation, e.g. "log.add" or "clock.advance".
	Op string `yaml:"op"`

	// Args holds the operation arguments. Their shape depends on Op.
	Args yaml.Node `yaml:"args,omitempty"`

	// Expect declares the outcome. Nil means the step must succeed.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect declares an expected step failure.
type Expect struct {
	// Error is the expected error code, e.g. "NOT_FOUND" or "VALIDATION_FAILED".
	Error string `yaml:"error"`
}

// Assertion validates the trace or the final state.
type Assertion struct {
	// Type is one of trace_contains, trace_order, trace_count, final_state
	// or achievements.
	Type string `yaml:"type"`

	// Slot is the short slot name, e.g. "emotionalLog".
	Slot string `yaml:"slot,omitempty"`

	// Op optionally narrows trace assertions to commits caused by one operation.
	Op string `yaml:"op,omitempty"`

	// Slots is the expected order of first commits (trace_order).
	Slots []string `yaml:"slots,omitempty"`

	// Count is the expected number of matches (trace_count, final_state).
	Count *int `yaml:"count,omitempty"`

	// Where selects records by field equality (final_state).
	Where map[string]any `yaml:"where,omitempty"`

	// Expect lists field values the selected record must have (final_state).
	Expect map[string]any `yaml:"expect,omitempty"`

	// Unlocked and Locked list achievement ids (achievements).
	Unlocked []string `yaml:"unlocked,omitempty"`
	Locked   []string `yaml:"locked,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
	AssertAchievements  = "achievements"
)

// DefaultStart is the scenario clock's start when none is given.
const DefaultStart = "2024-03-10T12:00:00Z"

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates a scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}
	if s.Start != "" {
		if _, err := time.Parse(time.RFC3339, s.Start); err != nil {
			return fmt.Errorf("start: %w", err)
		}
	}
	if s.Timezone != "" {
		if _, err := time.LoadLocation(s.Timezone); err != nil {
			return fmt.Errorf("timezone: %w", err)
		}
	}

	for i, step := range s.Flow {
		if _, ok := operations[step.Op]; !ok {
			return fmt.Errorf("flow[%d]: unknown op %q", i, step.Op)
		}
		if step.Expect != nil && step.Expect.Error == "" {
			return fmt.Errorf("flow[%d]: expect.error is required", i)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
	}
	return nil
}

func validateAssertion(a Assertion) error {
	switch a.Type {
	case AssertTraceContains:
		if a.Slot == "" && a.Op == "" {
			return fmt.Errorf("trace_contains requires slot or op")
		}
	case AssertTraceOrder:
		if len(a.Slots) < 2 {
			return fmt.Errorf("trace_order requires at least two slots")
		}
	case AssertTraceCount:
		if a.Count == nil {
			return fmt.Errorf("trace_count requires count")
		}
	case AssertFinalState:
		if a.Slot == "" {
			return fmt.Errorf("final_state requires slot")
		}
	case AssertAchievements:
		if len(a.Unlocked) == 0 && len(a.Locked) == 0 {
			return fmt.Errorf("achievements requires unlocked or locked")
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}

	for _, name := range append([]string{a.Slot}, a.Slots...) {
		if name == "" {
			continue
		}
		if _, ok := slotKeys[name]; !ok {
			return fmt.Errorf("unknown slot %q", name)
		}
	}
	return nil
}
