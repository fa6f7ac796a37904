package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/roach88/presente/internal/journal"
	"github.com/roach88/presente/internal/store"
)

// AssertionError is a failed assertion.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s assertion failed:\n  Expected: %s\n  Actual: %s", e.Type, e.Expected, e.Actual)
}

// matches reports whether ev satisfies the slot and op filters of a.
func matches(ev TraceEvent, a Assertion) bool {
	if a.Slot != "" && ev.Slot != a.Slot {
		return false
	}
	if a.Op != "" && ev.Op != a.Op {
		return false
	}
	return true
}

func describe(a Assertion) string {
	parts := make([]string, 0, 2)
	if a.Slot != "" {
		parts = append(parts, "slot="+a.Slot)
	}
	if a.Op != "" {
		parts = append(parts, "op="+a.Op)
	}
	return strings.Join(parts, " ")
}

func assertTraceContains(trace []TraceEvent, a Assertion) error {
	for _, ev := range trace {
		if matches(ev, a) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: "a commit with " + describe(a),
		Actual:   fmt.Sprintf("none among %d commits", len(trace)),
	}
}

// assertTraceOrder checks that the first commits of the listed slots occur
// in the listed order.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	last := int64(-1)
	prev := ""
	for _, slot := range a.Slots {
		idx := slices.IndexFunc(trace, func(ev TraceEvent) bool { return ev.Slot == slot })
		if idx < 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("commit to %s", slot),
				Actual:   "slot never committed",
			}
		}
		if trace[idx].Seq <= last {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("%s committed after %s", slot, prev),
				Actual:   fmt.Sprintf("%s at seq %d, %s at seq %d", slot, trace[idx].Seq, prev, last),
			}
		}
		last, prev = trace[idx].Seq, slot
	}
	return nil
}

func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, ev := range trace {
		if matches(ev, a) {
			count++
		}
	}
	if count != *a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d commits with %s", *a.Count, describe(a)),
			Actual:   fmt.Sprintf("%d commits", count),
		}
	}
	return nil
}

// assertFinalState checks the stored value of a slot.
//
// For record slots, Where selects records by field equality and Count (if
// set) must equal the number selected. Expect is checked with subset
// semantics against the single selected record; more than one match is
// ambiguous. For scalar slots the value itself is compared with
// expect.value.
func assertFinalState(ctx context.Context, st *store.Store, a Assertion) error {
	payload, ok := st.Raw(ctx, slotKeys[a.Slot])
	var value any
	if ok {
		if err := json.Unmarshal(payload, &value); err != nil {
			return fmt.Errorf("decode %s: %w", a.Slot, err)
		}
	}

	records, isList := value.([]any)
	if !ok && a.Slot != SlotCurrentFeeling && a.Slot != SlotPreferences {
		records, isList = []any{}, true
	}
	if !isList {
		return assertScalar(a, value, ok)
	}

	var selected []map[string]any
	for _, rec := range records {
		obj, _ := rec.(map[string]any)
		if subsetMatch(obj, a.Where) {
			selected = append(selected, obj)
		}
	}

	if a.Count != nil && len(selected) != *a.Count {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("%d records in %s where %s", *a.Count, a.Slot, formatWhere(a.Where)),
			Actual:   fmt.Sprintf("%d records", len(selected)),
		}
	}
	if len(a.Expect) == 0 {
		return nil
	}
	if len(selected) == 0 {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("record in %s where %s", a.Slot, formatWhere(a.Where)),
			Actual:   "record not found",
		}
	}
	if len(selected) > 1 {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("exactly one record in %s where %s", a.Slot, formatWhere(a.Where)),
			Actual:   "multiple records matched (assertion is ambiguous)",
		}
	}
	return expectFields(selected[0], a.Expect)
}

func assertScalar(a Assertion, value any, ok bool) error {
	if obj, isObj := value.(map[string]any); isObj {
		return expectFields(obj, a.Expect)
	}
	want, has := a.Expect["value"]
	if !has {
		return fmt.Errorf("final_state on %s requires expect.value", a.Slot)
	}
	if !ok {
		value = ""
	}
	if !valuesEqual(value, want) {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("%s = %v", a.Slot, want),
			Actual:   fmt.Sprintf("%s = %v", a.Slot, value),
		}
	}
	return nil
}

func expectFields(obj map[string]any, expect map[string]any) error {
	for _, key := range sortedKeys(expect) {
		actual, exists := obj[key]
		if !exists {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("field %q to exist", key),
				Actual:   fmt.Sprintf("fields present: %v", sortedKeys(obj)),
			}
		}
		if !valuesEqual(actual, expect[key]) {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("field %q = %v", key, expect[key]),
				Actual:   fmt.Sprintf("field %q = %v", key, actual),
			}
		}
	}
	return nil
}

func assertAchievements(ctx context.Context, st *store.Store, a Assertion) error {
	achs := journal.Achievements.Get(ctx, st)
	unlocked := make(map[string]bool, len(achs))
	for _, ach := range achs {
		unlocked[ach.ID] = ach.Unlocked
	}
	for _, id := range a.Unlocked {
		if !unlocked[id] {
			return &AssertionError{
				Type:     AssertAchievements,
				Expected: fmt.Sprintf("%s unlocked", id),
				Actual:   "locked",
			}
		}
	}
	for _, id := range a.Locked {
		if unlocked[id] {
			return &AssertionError{
				Type:     AssertAchievements,
				Expected: fmt.Sprintf("%s locked", id),
				Actual:   "unlocked",
			}
		}
	}
	return nil
}

// subsetMatch reports whether obj has every key of where with an equal value.
func subsetMatch(obj map[string]any, where map[string]any) bool {
	for key, want := range where {
		got, ok := obj[key]
		if !ok || !valuesEqual(got, want) {
			return false
		}
	}
	return true
}

// valuesEqual compares a decoded JSON value with a YAML scenario value.
// The expected side goes through JSON so numbers compare as float64.
func valuesEqual(actual, expected any) bool {
	data, err := json.Marshal(expected)
	if err != nil {
		return false
	}
	var normalized any
	if err := json.Unmarshal(data, &normalized); err != nil {
		return false
	}
	return reflect.DeepEqual(actual, normalized)
}

func formatWhere(where map[string]any) string {
	if len(where) == 0 {
		return "(no conditions)"
	}
	parts := make([]string, 0, len(where))
	for _, k := range sortedKeys(where) {
		parts = append(parts, fmt.Sprintf("%s=%v", k, where[k]))
	}
	return strings.Join(parts, " AND ")
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AssertionContext provides store access for state assertions.
type AssertionContext struct {
	Store *store.Store
	Ctx   context.Context
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns one message per failed assertion.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		case AssertFinalState, AssertAchievements:
			if actx == nil || actx.Store == nil {
				err = fmt.Errorf("%s requires store context", assertion.Type)
			} else if assertion.Type == AssertFinalState {
				err = assertFinalState(actx.Ctx, actx.Store, assertion)
			} else {
				err = assertAchievements(actx.Ctx, actx.Store, assertion)
			}
		default:
			err = fmt.Errorf("unknown assertion type %q", assertion.Type)
		}

		if err != nil {
			errs = append(errs, fmt.Sprintf("assertion[%d]: %v", i, err))
		}
	}

	return errs
}
