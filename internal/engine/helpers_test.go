package engine

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/presente/internal/model"
	"github.com/roach88/presente/internal/schema"
	"github.com/roach88/presente/internal/store"
)

var validator = schema.MustNew()

var (
	logSlot = store.Slot[[]model.EmotionalLogEntry]{
		Key:      "t_emotionalLog",
		Default:  func() []model.EmotionalLogEntry { return []model.EmotionalLogEntry{} },
		Schema:   schema.EmotionalLog,
		Validate: model.ValidateCollection[model.EmotionalLogEntry],
	}
	thoughtSlot = store.Slot[[]model.ThoughtRecord]{
		Key:     "t_thoughtRecords",
		Default: func() []model.ThoughtRecord { return []model.ThoughtRecord{} },
		Schema:  schema.ThoughtRecords,
	}
	stepSlot = store.Slot[[]model.ExposureStep]{
		Key:     "t_exposureSteps",
		Default: func() []model.ExposureStep { return []model.ExposureStep{} },
		Schema:  schema.ExposureSteps,
	}
	achievementSlot = store.Slot[[]model.Achievement]{
		Key:     "t_achievements",
		Default: func() []model.Achievement { return DefaultCatalog().Defaults() },
		Schema:  schema.Achievements,
		Check:   model.CheckAchievementTransition,
	}
)

var fixedNow = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCollections() []Collection {
	return []Collection{
		Watch("emotionalLog", logSlot),
		Watch("thoughtRecords", thoughtSlot),
		Watch("exposureSteps", stepSlot),
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(achievementSlot, DefaultCatalog(), testCollections(),
		WithClock(func() time.Time { return fixedNow }),
		WithLocation(time.UTC),
		WithLogger(quietLogger()),
	)
	require.NoError(t, err)
	return e
}

func newTestStore(t *testing.T) (*store.Store, *store.MemoryMedium) {
	t.Helper()
	m := store.NewMemoryMedium()
	s := store.New(m, store.WithLogger(quietLogger()), store.WithValidator(validator))
	t.Cleanup(func() { s.Close() })
	return s, m
}

func logEntry(id string, at time.Time) model.EmotionalLogEntry {
	return model.EmotionalLogEntry{ID: id, Date: at, Situation: "trabajo", AnxietyLevel: 5}
}

func find(t *testing.T, achs []model.Achievement, id string) model.Achievement {
	t.Helper()
	idx := model.IndexOf(achs, id)
	require.GreaterOrEqual(t, idx, 0, "achievement %s missing", id)
	return achs[idx]
}
