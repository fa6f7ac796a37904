package harness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/presente/internal/engine"
	"github.com/roach88/presente/internal/journal"
	"github.com/roach88/presente/internal/model"
	"github.com/roach88/presente/internal/store"
	"github.com/roach88/presente/internal/testutil"
)

// Short slot names used in scenarios and traces.
const (
	SlotEmotionalLog   = "emotionalLog"
	SlotThoughtRecords = "thoughtRecords"
	SlotExposureSteps  = "exposureSteps"
	SlotAchievements   = "achievements"
	SlotCurrentFeeling = "currentFeeling"
	SlotPreferences    = "userPrefs"
)

var slotKeys = map[string]string{
	SlotEmotionalLog:   journal.KeyEmotionalLog,
	SlotThoughtRecords: journal.KeyThoughtRecords,
	SlotExposureSteps:  journal.KeyExposureSteps,
	SlotAchievements:   journal.KeyAchievements,
	SlotCurrentFeeling: journal.KeyCurrentFeeling,
	SlotPreferences:    journal.KeyPreferences,
}

// slotOrder fixes subscription order.
var slotOrder = []string{
	SlotEmotionalLog,
	SlotThoughtRecords,
	SlotExposureSteps,
	SlotAchievements,
	SlotCurrentFeeling,
	SlotPreferences,
}

// IDPrefix prefixes the record ids generated during a scenario.
const IDPrefix = "rec"

// runner holds the state of one scenario execution.
type runner struct {
	store  *store.Store
	svc    *journal.Service
	clock  *testutil.ManualClock
	result *Result

	step int
	op   string
}

// Run executes a scenario and returns the result.
//
// Each scenario runs on a fresh in-memory store with the achievement engine
// attached, a manual clock starting at the scenario's start and record ids
// "rec-0001", "rec-0002", ... Every committed slot write is traced.
//
// A returned error means the scenario could not be executed at all; step
// and assertion failures are reported in the result.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	start := scenario.Start
	if start == "" {
		start = DefaultStart
	}
	t0, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return nil, fmt.Errorf("parse start: %w", err)
	}
	loc := time.UTC
	if scenario.Timezone != "" {
		if loc, err = time.LoadLocation(scenario.Timezone); err != nil {
			return nil, fmt.Errorf("load timezone: %w", err)
		}
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := testutil.NewManualClock(t0)
	st := store.New(store.NewMemoryMedium(), store.WithLogger(logger))
	defer st.Close()

	eng, err := engine.New(journal.Achievements, engine.DefaultCatalog(), journal.Collections(),
		engine.WithClock(clock.Now),
		engine.WithLocation(loc),
		engine.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}

	r := &runner{
		store: st,
		svc: journal.NewService(st,
			journal.WithIDGenerator(testutil.NewSequenceIDs(IDPrefix)),
			journal.WithClock(clock.Now),
			journal.WithLocation(loc),
			journal.WithLogger(logger),
		),
		clock:  clock,
		result: NewResult(),
	}

	eng.Reconcile(ctx, st)

	// The tracer subscribes before the engine so a record commit is traced
	// ahead of the achievements commit it triggers.
	unsubs := r.trace()
	detach := eng.Attach(ctx, st)
	defer func() {
		detach()
		for _, unsub := range unsubs {
			unsub()
		}
	}()

	for i, step := range scenario.Flow {
		r.step, r.op = i, step.Op
		if err := r.exec(ctx, step); err != nil {
			return nil, fmt.Errorf("flow[%d] %s: %w", i, step.Op, err)
		}
	}

	sort.SliceStable(r.result.Trace, func(i, j int) bool {
		return r.result.Trace[i].Seq < r.result.Trace[j].Seq
	})

	for _, msg := range EvaluateAssertions(r.result, scenario.Assertions, &AssertionContext{Store: st, Ctx: ctx}) {
		r.result.AddError(msg)
	}
	return r.result, nil
}

// exec runs one step and records a mismatch with its expectation.
// It returns an error only when the step's arguments cannot be decoded.
func (r *runner) exec(ctx context.Context, step Step) error {
	op := operations[step.Op]
	err := op(ctx, r, step.Args)
	var argErr *argsError
	if errors.As(err, &argErr) {
		return argErr.err
	}

	switch {
	case step.Expect == nil && err != nil:
		r.result.AddError(fmt.Sprintf("flow[%d] %s: unexpected error: %v", r.step, step.Op, err))
	case step.Expect != nil && err == nil:
		r.result.AddError(fmt.Sprintf("flow[%d] %s: expected error %s, got success", r.step, step.Op, step.Expect.Error))
	case step.Expect != nil && errorCode(err) != step.Expect.Error:
		r.result.AddError(fmt.Sprintf("flow[%d] %s: expected error %s, got %s: %v", r.step, step.Op, step.Expect.Error, errorCode(err), err))
	}
	return nil
}

// trace subscribes to every slot and records its commits.
func (r *runner) trace() []func() {
	unsubs := make([]func(), 0, len(slotOrder))
	for _, name := range slotOrder {
		unsubs = append(unsubs, r.store.Subscribe(slotKeys[name], func(payload []byte) {
			r.result.AddTrace(r.event(name, payload))
		}))
	}
	return unsubs
}

func (r *runner) event(slot string, payload []byte) TraceEvent {
	ev := TraceEvent{
		Seq:  r.store.Seq(),
		Step: r.step,
		Op:   r.op,
		Slot: slot,
	}
	switch slot {
	case SlotEmotionalLog, SlotThoughtRecords, SlotExposureSteps:
		var records []json.RawMessage
		if err := json.Unmarshal(payload, &records); err == nil {
			n := len(records)
			ev.Records = &n
		}
	case SlotAchievements:
		var achs []model.Achievement
		if err := json.Unmarshal(payload, &achs); err == nil {
			for _, a := range achs {
				if a.Unlocked {
					ev.Unlocked = append(ev.Unlocked, a.ID)
				}
			}
		}
	case SlotCurrentFeeling:
		var f string
		if err := json.Unmarshal(payload, &f); err == nil {
			ev.Value = f
		}
	}
	return ev
}

// errorCode maps a step error to the code scenarios expect.
func errorCode(err error) string {
	if errors.Is(err, journal.ErrNotFound) {
		return "NOT_FOUND"
	}
	if code := store.ErrorCode(err); code != "" {
		return code
	}
	return "INTERNAL"
}

// argsError marks a malformed step, as opposed to a rejected operation.
type argsError struct {
	err error
}

func (e *argsError) Error() string { return e.err.Error() }

func decodeArgs(node yaml.Node, v any) error {
	if node.Kind == 0 {
		return nil
	}
	if err := node.Decode(v); err != nil {
		return &argsError{err: fmt.Errorf("decode args: %w", err)}
	}
	return nil
}

type operation func(ctx context.Context, r *runner, args yaml.Node) error

var operations = map[string]operation{
	"log.add":           opLogAdd,
	"log.edit":          opLogEdit,
	"log.delete":        opLogDelete,
	"thought.add":       opThoughtAdd,
	"thought.delete":    opThoughtDelete,
	"exposure.add":      opExposureAdd,
	"exposure.edit":     opExposureEdit,
	"exposure.toggle":   opExposureToggle,
	"exposure.complete": opExposureComplete,
	"exposure.delete":   opExposureDelete,
	"feeling.set":       opFeelingSet,
	"preferences.set":   opPreferencesSet,
	"clock.advance":     opClockAdvance,
}

type idArgs struct {
	ID string `yaml:"id"`
}

type logArgs struct {
	Situation string `yaml:"situation"`
	Thoughts  string `yaml:"thoughts"`
	Feelings  string `yaml:"feelings"`
	Actions   string `yaml:"actions"`
	Anxiety   int    `yaml:"anxiety"`
}

type logEditArgs struct {
	ID        string  `yaml:"id"`
	Situation *string `yaml:"situation"`
	Thoughts  *string `yaml:"thoughts"`
	Feelings  *string `yaml:"feelings"`
	Actions   *string `yaml:"actions"`
	Anxiety   *int    `yaml:"anxiety"`
}

type thoughtArgs struct {
	Situation       string `yaml:"situation"`
	Thought         string `yaml:"thought"`
	Emotion         string `yaml:"emotion"`
	EvidenceFor     string `yaml:"evidence_for"`
	EvidenceAgainst string `yaml:"evidence_against"`
	Alternative     string `yaml:"alternative"`
	Outcome         string `yaml:"outcome"`
}

type exposureArgs struct {
	Description string `yaml:"description"`
	Anxiety     int    `yaml:"anxiety"`
	Repetitions int    `yaml:"repetitions"`
	Notes       string `yaml:"notes"`
}

type exposureEditArgs struct {
	ID          string  `yaml:"id"`
	Description *string `yaml:"description"`
	Anxiety     *int    `yaml:"anxiety"`
	Repetitions *int    `yaml:"repetitions"`
	Notes       *string `yaml:"notes"`
	Completed   *bool   `yaml:"completed"`
}

type feelingArgs struct {
	Feeling string `yaml:"feeling"`
}

type preferencesArgs struct {
	Timezone      string `yaml:"timezone"`
	DailyReminder string `yaml:"daily_reminder"`
}

type advanceArgs struct {
	By string `yaml:"by"`
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func opLogAdd(ctx context.Context, r *runner, node yaml.Node) error {
	var a logArgs
	if err := decodeArgs(node, &a); err != nil {
		return err
	}
	_, err := r.svc.AddLog(ctx, journal.LogInput{
		Situation:    a.Situation,
		Thoughts:     a.Thoughts,
		Feelings:     a.Feelings,
		Actions:      a.Actions,
		AnxietyLevel: a.Anxiety,
	})
	return err
}

func opLogEdit(ctx context.Context, r *runner, node yaml.Node) error {
	var a logEditArgs
	if err := decodeArgs(node, &a); err != nil {
		return err
	}
	logs := r.svc.Logs(ctx)
	idx := model.IndexOf(logs, a.ID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", journal.ErrNotFound, a.ID)
	}
	entry := logs[idx]
	set(&entry.Situation, a.Situation)
	set(&entry.Thoughts, a.Thoughts)
	set(&entry.Feelings, a.Feelings)
	set(&entry.Actions, a.Actions)
	set(&entry.AnxietyLevel, a.Anxiety)
	return r.svc.EditLog(ctx, entry)
}

func opLogDelete(ctx context.Context, r *runner, node yaml.Node) error {
	var a idArgs
	if err := decodeArgs(node, &a); err != nil {
		return err
	}
	return r.svc.DeleteLog(ctx, a.ID)
}

func opThoughtAdd(ctx context.Context, r *runner, node yaml.Node) error {
	var a thoughtArgs
	if err := decodeArgs(node, &a); err != nil {
		return err
	}
	_, err := r.svc.AddThought(ctx, journal.ThoughtInput{
		Situation:          a.Situation,
		AutomaticThought:   a.Thought,
		Emotion:            a.Emotion,
		EvidenceFor:        a.EvidenceFor,
		EvidenceAgainst:    a.EvidenceAgainst,
		AlternativeThought: a.Alternative,
		Outcome:            a.Outcome,
	})
	return err
}

func opThoughtDelete(ctx context.Context, r *runner, node yaml.Node) error {
	var a idArgs
	if err := decodeArgs(node, &a); err != nil {
		return err
	}
	return r.svc.DeleteThought(ctx, a.ID)
}

func opExposureAdd(ctx context.Context, r *runner, node yaml.Node) error {
	var a exposureArgs
	if err := decodeArgs(node, &a); err != nil {
		return err
	}
	_, err := r.svc.AddExposure(ctx, journal.ExposureInput{
		Description:   a.Description,
		TargetAnxiety: a.Anxiety,
		Repetitions:   a.Repetitions,
		Notes:         a.Notes,
	})
	return err
}

func opExposureEdit(ctx context.Context, r *runner, node yaml.Node) error {
	var a exposureEditArgs
	if err := decodeArgs(node, &a); err != nil {
		return err
	}
	steps := r.svc.Exposures(ctx)
	idx := model.IndexOf(steps, a.ID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", journal.ErrNotFound, a.ID)
	}
	step := steps[idx]
	set(&step.Description, a.Description)
	set(&step.TargetAnxiety, a.Anxiety)
	set(&step.Repetitions, a.Repetitions)
	set(&step.Notes, a.Notes)
	set(&step.Completed, a.Completed)
	return r.svc.EditExposure(ctx, step)
}

func opExposureToggle(ctx context.Context, r *runner, node yaml.Node) error {
	var a idArgs
	if err := decodeArgs(node, &a); err != nil {
		return err
	}
	_, err := r.svc.ToggleExposure(ctx, a.ID)
	return err
}

func opExposureComplete(ctx context.Context, r *runner, node yaml.Node) error {
	var a idArgs
	if err := decodeArgs(node, &a); err != nil {
		return err
	}
	return r.svc.CompleteExposure(ctx, a.ID)
}

func opExposureDelete(ctx context.Context, r *runner, node yaml.Node) error {
	var a idArgs
	if err := decodeArgs(node, &a); err != nil {
		return err
	}
	return r.svc.DeleteExposure(ctx, a.ID)
}

func opFeelingSet(ctx context.Context, r *runner, node yaml.Node) error {
	var a feelingArgs
	if err := decodeArgs(node, &a); err != nil {
		return err
	}
	return r.svc.SetFeeling(ctx, model.Feeling(a.Feeling))
}

func opPreferencesSet(ctx context.Context, r *runner, node yaml.Node) error {
	var a preferencesArgs
	if err := decodeArgs(node, &a); err != nil {
		return err
	}
	return r.svc.SetPreferences(ctx, model.Preferences{
		Timezone:      a.Timezone,
		DailyReminder: a.DailyReminder,
	})
}

func opClockAdvance(_ context.Context, r *runner, node yaml.Node) error {
	var a advanceArgs
	if err := decodeArgs(node, &a); err != nil {
		return err
	}
	d, err := time.ParseDuration(a.By)
	if err != nil {
		return &argsError{err: fmt.Errorf("clock.advance: %w", err)}
	}
	r.clock.Advance(d)
	return nil
}
