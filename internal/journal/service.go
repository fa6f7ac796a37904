package journal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/roach88/presente/internal/model"
	"github.com/roach88/presente/internal/store"
)

// ErrNotFound is returned when an operation names an id that is not in the
// collection.
var ErrNotFound = errors.New("journal: record not found")

// Service performs the journal's record operations against a store.
type Service struct {
	store  *store.Store
	ids    IDGenerator
	now    func() time.Time
	loc    *time.Location
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithIDGenerator sets the record id source. Defaults to UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Service) {
		s.ids = g
	}
}

// WithClock sets the wall clock used to stamp records. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLocation sets the location that defines civil days. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		s.loc = loc
	}
}

// WithLogger sets the service's logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService returns a Service over st.
func NewService(st *store.Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		ids:    UUIDv7Generator{},
		now:    time.Now,
		loc:    time.Local,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying store.
func (s *Service) Store() *store.Store {
	return s.store
}

// Location returns the service's civil-day location.
func (s *Service) Location() *time.Location {
	return s.loc
}

// stamp returns the submission time, without monotonic reading and at
// millisecond precision.
func (s *Service) stamp() time.Time {
	return s.now().Truncate(time.Millisecond)
}

// LogInput is the user-supplied part of an emotional log entry.
type LogInput struct {
	Situation    string
	Thoughts     string
	Feelings     string
	Actions      string
	AnxietyLevel int
}

// AddLog records a new entry at the top of the log.
func (s *Service) AddLog(ctx context.Context, in LogInput) (model.EmotionalLogEntry, error) {
	entry := model.EmotionalLogEntry{
		ID:           s.ids.Generate(),
		Date:         s.stamp(),
		Situation:    in.Situation,
		Thoughts:     in.Thoughts,
		Feelings:     in.Feelings,
		Actions:      in.Actions,
		AnxietyLevel: in.AnxietyLevel,
	}
	if err := prepend(ctx, s.store, EmotionalLog, entry); err != nil {
		return model.EmotionalLogEntry{}, fmt.Errorf("add log: %w", err)
	}
	s.logger.Debug("log added", "id", entry.ID)
	return entry, nil
}

// Logs returns the emotional log, most recent first.
func (s *Service) Logs(ctx context.Context) []model.EmotionalLogEntry {
	return EmotionalLog.Get(ctx, s.store)
}

// EditLog replaces the entry with the same id.
func (s *Service) EditLog(ctx context.Context, entry model.EmotionalLogEntry) error {
	if err := replace(ctx, s.store, EmotionalLog, entry); err != nil {
		return fmt.Errorf("edit log: %w", err)
	}
	return nil
}

// DeleteLog removes the entry with id.
func (s *Service) DeleteLog(ctx context.Context, id string) error {
	if err := remove(ctx, s.store, EmotionalLog, id); err != nil {
		return fmt.Errorf("delete log: %w", err)
	}
	return nil
}

// ThoughtInput is the user-supplied part of a thought record.
type ThoughtInput struct {
	Situation          string
	AutomaticThought   string
	Emotion            string
	EvidenceFor        string
	EvidenceAgainst    string
	AlternativeThought string
	Outcome            string
}

// AddThought records a new thought record at the top of the list.
func (s *Service) AddThought(ctx context.Context, in ThoughtInput) (model.ThoughtRecord, error) {
	rec := model.ThoughtRecord{
		ID:                 s.ids.Generate(),
		Date:               s.stamp(),
		Situation:          in.Situation,
		AutomaticThought:   in.AutomaticThought,
		Emotion:            in.Emotion,
		EvidenceFor:        in.EvidenceFor,
		EvidenceAgainst:    in.EvidenceAgainst,
		AlternativeThought: in.AlternativeThought,
		Outcome:            in.Outcome,
	}
	if err := prepend(ctx, s.store, ThoughtRecords, rec); err != nil {
		return model.ThoughtRecord{}, fmt.Errorf("add thought: %w", err)
	}
	s.logger.Debug("thought record added", "id", rec.ID)
	return rec, nil
}

// Thoughts returns the thought records, most recent first.
func (s *Service) Thoughts(ctx context.Context) []model.ThoughtRecord {
	return ThoughtRecords.Get(ctx, s.store)
}

// EditThought replaces the record with the same id.
func (s *Service) EditThought(ctx context.Context, rec model.ThoughtRecord) error {
	if err := replace(ctx, s.store, ThoughtRecords, rec); err != nil {
		return fmt.Errorf("edit thought: %w", err)
	}
	return nil
}

// DeleteThought removes the record with id.
func (s *Service) DeleteThought(ctx context.Context, id string) error {
	if err := remove(ctx, s.store, ThoughtRecords, id); err != nil {
		return fmt.Errorf("delete thought: %w", err)
	}
	return nil
}

// ExposureInput is the user-supplied part of an exposure step.
type ExposureInput struct {
	Description   string
	TargetAnxiety int
	Repetitions   int
	Notes         string
}

// AddExposure inserts a step keeping the ladder ordered by target anxiety.
// A step joins after existing steps of equal anxiety. Repetitions below 1
// become 1.
func (s *Service) AddExposure(ctx context.Context, in ExposureInput) (model.ExposureStep, error) {
	if in.Repetitions < 1 {
		in.Repetitions = 1
	}
	step := model.ExposureStep{
		ID:            s.ids.Generate(),
		Description:   in.Description,
		TargetAnxiety: in.TargetAnxiety,
		Repetitions:   in.Repetitions,
		Notes:         in.Notes,
	}
	err := ExposureSteps.Update(ctx, s.store, func(cur []model.ExposureStep) ([]model.ExposureStep, error) {
		next := append(make([]model.ExposureStep, 0, len(cur)+1), cur...)
		next = append(next, step)
		sort.SliceStable(next, func(i, j int) bool {
			return next[i].TargetAnxiety < next[j].TargetAnxiety
		})
		return next, nil
	})
	if err != nil {
		return model.ExposureStep{}, fmt.Errorf("add exposure: %w", err)
	}
	s.logger.Debug("exposure step added", "id", step.ID)
	return step, nil
}

// Exposures returns the exposure ladder.
func (s *Service) Exposures(ctx context.Context) []model.ExposureStep {
	return ExposureSteps.Get(ctx, s.store)
}

// EditExposure replaces the step with the same id, in place.
func (s *Service) EditExposure(ctx context.Context, step model.ExposureStep) error {
	if err := replace(ctx, s.store, ExposureSteps, step); err != nil {
		return fmt.Errorf("edit exposure: %w", err)
	}
	return nil
}

// ToggleExposure flips the completed flag of the step with id and returns
// the new value. Un-completing a step does not re-lock any achievement.
func (s *Service) ToggleExposure(ctx context.Context, id string) (bool, error) {
	var completed bool
	err := ExposureSteps.Update(ctx, s.store, func(cur []model.ExposureStep) ([]model.ExposureStep, error) {
		idx := model.IndexOf(cur, id)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		next := append([]model.ExposureStep(nil), cur...)
		next[idx].Completed = !next[idx].Completed
		completed = next[idx].Completed
		return next, nil
	})
	if err != nil {
		return false, fmt.Errorf("toggle exposure: %w", err)
	}
	return completed, nil
}

// CompleteExposure marks the step with id completed. It is a no-op write
// if the step is already completed.
func (s *Service) CompleteExposure(ctx context.Context, id string) error {
	err := ExposureSteps.Update(ctx, s.store, func(cur []model.ExposureStep) ([]model.ExposureStep, error) {
		idx := model.IndexOf(cur, id)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		next := append([]model.ExposureStep(nil), cur...)
		next[idx].Completed = true
		return next, nil
	})
	if err != nil {
		return fmt.Errorf("complete exposure: %w", err)
	}
	return nil
}

// DeleteExposure removes the step with id. Other steps keep their ids and order.
func (s *Service) DeleteExposure(ctx context.Context, id string) error {
	if err := remove(ctx, s.store, ExposureSteps, id); err != nil {
		return fmt.Errorf("delete exposure: %w", err)
	}
	return nil
}

// Feeling returns the current feeling ("" when none is selected).
func (s *Service) Feeling(ctx context.Context) model.Feeling {
	return CurrentFeeling.Get(ctx, s.store)
}

// SetFeeling stores the current feeling.
func (s *Service) SetFeeling(ctx context.Context, f model.Feeling) error {
	if err := CurrentFeeling.Set(ctx, s.store, f); err != nil {
		return fmt.Errorf("set feeling: %w", err)
	}
	return nil
}

// Preferences returns the user preferences.
func (s *Service) Preferences(ctx context.Context) model.Preferences {
	return Preferences.Get(ctx, s.store)
}

// SetPreferences stores the user preferences.
func (s *Service) SetPreferences(ctx context.Context, p model.Preferences) error {
	if err := Preferences.Set(ctx, s.store, p); err != nil {
		return fmt.Errorf("set preferences: %w", err)
	}
	return nil
}

// Achievements returns the achievements list.
func (s *Service) Achievements(ctx context.Context) []model.Achievement {
	return Achievements.Get(ctx, s.store)
}

// History returns the committed revisions of key.
func (s *Service) History(ctx context.Context, key string) ([]store.Revision, error) {
	return s.store.History(ctx, key)
}

func prepend[T any](ctx context.Context, st *store.Store, slot store.Slot[[]T], rec T) error {
	return slot.Update(ctx, st, func(cur []T) ([]T, error) {
		next := make([]T, 0, len(cur)+1)
		next = append(next, rec)
		return append(next, cur...), nil
	})
}

func replace[T model.Identified](ctx context.Context, st *store.Store, slot store.Slot[[]T], rec T) error {
	return slot.Update(ctx, st, func(cur []T) ([]T, error) {
		next, ok := model.Replace(cur, rec)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, rec.RecordID())
		}
		return next, nil
	})
}

func remove[T model.Identified](ctx context.Context, st *store.Store, slot store.Slot[[]T], id string) error {
	return slot.Update(ctx, st, func(cur []T) ([]T, error) {
		if model.IndexOf(cur, id) < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return model.Without(cur, id), nil
	})
}
