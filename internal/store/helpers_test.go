package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/roach88/presente/internal/model"
	"github.com/roach88/presente/internal/schema"
)

var errBroken = errors.New("disk unplugged")

// failingMedium errors on every operation.
type failingMedium struct{}

func (failingMedium) Load(context.Context, string) ([]byte, bool, error) { return nil, false, errBroken }
func (failingMedium) Save(context.Context, Revision) error             { return errBroken }
func (failingMedium) LastSeq(context.Context) (int64, error)           { return 0, errBroken }
func (failingMedium) Revisions(context.Context, string) ([]Revision, error) {
	return nil, errBroken
}
func (failingMedium) Close() error { return nil }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var testValidator = schema.MustNew()

func newMemoryStore(t *testing.T) (*Store, *MemoryMedium) {
	t.Helper()
	m := NewMemoryMedium()
	s := New(m, WithLogger(quietLogger()), WithValidator(testValidator))
	t.Cleanup(func() { s.Close() })
	return s, m
}

func openSQLiteStore(t *testing.T, path string) *Store {
	t.Helper()
	m, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	return New(m, WithLogger(quietLogger()), WithValidator(testValidator))
}

func tempDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "presente.db")
}

var stepsSlot = Slot[[]model.ExposureStep]{
	Key:      "test_exposureSteps",
	Default:  func() []model.ExposureStep { return []model.ExposureStep{} },
	Schema:   schema.ExposureSteps,
	Validate: model.ValidateCollection[model.ExposureStep],
}

var feelingSlot = Slot[model.Feeling]{
	Key:     "test_feeling",
	Default: func() model.Feeling { return model.FeelingUnselected },
	Schema:  schema.Feeling,
}

var achievementsSlot = Slot[[]model.Achievement]{
	Key:      "test_achievements",
	Default:  func() []model.Achievement { return []model.Achievement{} },
	Schema:   schema.Achievements,
	Validate: model.ValidateCollection[model.Achievement],
	Check:    model.CheckAchievementTransition,
}

func step(id string, anxiety int) model.ExposureStep {
	return model.ExposureStep{ID: id, Description: "paso " + id, TargetAnxiety: anxiety, Repetitions: 1}
}
