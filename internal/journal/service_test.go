package journal

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/presente/internal/model"
	"github.com/roach88/presente/internal/store"
)

func TestAddLogPrependsAndStamps(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	first, err := f.svc.AddLog(ctx, LogInput{Situation: "reunión", AnxietyLevel: 6})
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	second, err := f.svc.AddLog(ctx, LogInput{Situation: "llamada", AnxietyLevel: 3})
	require.NoError(t, err)

	assert.Equal(t, "rec-0001", first.ID)
	assert.True(t, first.Date.Equal(start))
	assert.True(t, second.Date.Equal(start.Add(time.Hour)))
	assert.Equal(t, []string{"rec-0002", "rec-0001"}, ids(f.svc.Logs(ctx)))
}

func TestAddLogRejectsOutOfRangeAnxiety(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	_, err := f.svc.AddLog(ctx, LogInput{Situation: "fiesta", AnxietyLevel: 11})
	require.Error(t, err)
	assert.True(t, store.IsValidationError(err))
	assert.Empty(t, f.svc.Logs(ctx))
}

func TestEditLogReplacesInPlace(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	a, err := f.svc.AddLog(ctx, LogInput{Situation: "a", AnxietyLevel: 1})
	require.NoError(t, err)
	_, err = f.svc.AddLog(ctx, LogInput{Situation: "b", AnxietyLevel: 2})
	require.NoError(t, err)

	a.Situation = "a editada"
	a.AnxietyLevel = 9
	require.NoError(t, f.svc.EditLog(ctx, a))

	logs := f.svc.Logs(ctx)
	require.Len(t, logs, 2)
	assert.Equal(t, "rec-0001", logs[1].ID)
	assert.Equal(t, "a editada", logs[1].Situation)
	assert.Equal(t, 9, logs[1].AnxietyLevel)
}

func TestEditAndDeleteUnknownIDs(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	err := f.svc.EditLog(ctx, model.EmotionalLogEntry{ID: "missing", Date: start})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.svc.DeleteLog(ctx, "missing"), ErrNotFound)
	assert.ErrorIs(t, f.svc.DeleteThought(ctx, "missing"), ErrNotFound)
	assert.ErrorIs(t, f.svc.DeleteExposure(ctx, "missing"), ErrNotFound)

	_, err = f.svc.ToggleExposure(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.svc.CompleteExposure(ctx, "missing"), ErrNotFound)
}

func TestThoughtLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	rec, err := f.svc.AddThought(ctx, ThoughtInput{
		Situation:        "presentación",
		AutomaticThought: "voy a quedar en ridículo",
		Emotion:          "miedo",
	})
	require.NoError(t, err)

	rec.AlternativeThought = "he preparado bien el tema"
	require.NoError(t, f.svc.EditThought(ctx, rec))

	got := f.svc.Thoughts(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, "he preparado bien el tema", got[0].AlternativeThought)

	require.NoError(t, f.svc.DeleteThought(ctx, rec.ID))
	assert.Empty(t, f.svc.Thoughts(ctx))
}

func TestAddExposureKeepsLadderSorted(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	for _, in := range []ExposureInput{
		{Description: "hablar en público", TargetAnxiety: 9},
		{Description: "saludar a un vecino", TargetAnxiety: 2},
		{Description: "pedir un café", TargetAnxiety: 4},
		{Description: "preguntar la hora", TargetAnxiety: 2},
	} {
		_, err := f.svc.AddExposure(ctx, in)
		require.NoError(t, err)
	}

	steps := f.svc.Exposures(ctx)
	// Equal anxiety keeps insertion order.
	assert.Equal(t, []string{"rec-0002", "rec-0004", "rec-0003", "rec-0001"}, ids(steps))
	for _, s := range steps {
		assert.Equal(t, 1, s.Repetitions)
	}
}

func TestDeleteExposurePreservesOthers(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	for i, anxiety := range []int{1, 3, 5, 7} {
		_, err := f.svc.AddExposure(ctx, ExposureInput{Description: "paso", TargetAnxiety: anxiety, Repetitions: i + 1})
		require.NoError(t, err)
	}
	before := f.svc.Exposures(ctx)

	require.NoError(t, f.svc.DeleteExposure(ctx, "rec-0002"))

	after := f.svc.Exposures(ctx)
	assert.Equal(t, []model.ExposureStep{before[0], before[2], before[3]}, after)
}

func TestToggleExposure(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	step, err := f.svc.AddExposure(ctx, ExposureInput{Description: "llamar por teléfono", TargetAnxiety: 5, Repetitions: 3})
	require.NoError(t, err)

	done, err := f.svc.ToggleExposure(ctx, step.ID)
	require.NoError(t, err)
	assert.True(t, done)

	done, err = f.svc.ToggleExposure(ctx, step.ID)
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, f.svc.CompleteExposure(ctx, step.ID))
	got := f.svc.Exposures(ctx)
	require.Len(t, got, 1)
	assert.True(t, got[0].Completed)
	assert.Equal(t, 3, got[0].Repetitions)
}

func TestEditExposureRejectsZeroRepetitions(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	step, err := f.svc.AddExposure(ctx, ExposureInput{Description: "comer fuera", TargetAnxiety: 6})
	require.NoError(t, err)

	step.Repetitions = 0
	err = f.svc.EditExposure(ctx, step)
	require.Error(t, err)
	assert.True(t, store.IsValidationError(err))
	assert.Equal(t, 1, f.svc.Exposures(ctx)[0].Repetitions)
}

func TestFeeling(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	assert.Equal(t, model.FeelingUnselected, f.svc.Feeling(ctx))
	require.NoError(t, f.svc.SetFeeling(ctx, model.FeelingCalm))
	assert.Equal(t, model.FeelingCalm, f.svc.Feeling(ctx))

	err := f.svc.SetFeeling(ctx, model.Feeling("Eufórico"))
	require.Error(t, err)
	assert.Equal(t, model.FeelingCalm, f.svc.Feeling(ctx))
}

func TestPreferences(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	assert.Equal(t, model.Preferences{}, f.svc.Preferences(ctx))
	prefs := model.Preferences{Timezone: "Europe/Madrid", DailyReminder: "0 20 * * *"}
	require.NoError(t, f.svc.SetPreferences(ctx, prefs))
	assert.Equal(t, prefs, f.svc.Preferences(ctx))

	err := f.svc.SetPreferences(ctx, model.Preferences{Timezone: "Mars/Olympus"})
	require.Error(t, err)
	assert.True(t, store.IsValidationError(err))
	assert.Equal(t, prefs, f.svc.Preferences(ctx))
}

func TestAchievementsUnlockThroughService(t *testing.T) {
	f := newFixture(t)
	f.attachEngine(t)
	ctx := t.Context()

	unlocked := func(id string) bool {
		achs := f.svc.Achievements(ctx)
		idx := model.IndexOf(achs, id)
		require.GreaterOrEqual(t, idx, 0)
		return achs[idx].Unlocked
	}

	assert.False(t, unlocked("first_log"))
	_, err := f.svc.AddLog(ctx, LogInput{Situation: "hoy", AnxietyLevel: 4})
	require.NoError(t, err)
	assert.True(t, unlocked("first_log"))
	assert.False(t, unlocked("consistent_log_3days"))

	f.clock.Advance(24 * time.Hour)
	_, err = f.svc.AddLog(ctx, LogInput{Situation: "mañana", AnxietyLevel: 4})
	require.NoError(t, err)
	f.clock.Advance(24 * time.Hour)
	_, err = f.svc.AddLog(ctx, LogInput{Situation: "pasado", AnxietyLevel: 4})
	require.NoError(t, err)
	assert.True(t, unlocked("consistent_log_3days"))

	step, err := f.svc.AddExposure(ctx, ExposureInput{Description: "saludar", TargetAnxiety: 2})
	require.NoError(t, err)
	assert.False(t, unlocked("first_exposure"))
	_, err = f.svc.ToggleExposure(ctx, step.ID)
	require.NoError(t, err)
	assert.True(t, unlocked("first_exposure"))

	// Un-completing the step keeps the badge.
	_, err = f.svc.ToggleExposure(ctx, step.ID)
	require.NoError(t, err)
	assert.True(t, unlocked("first_exposure"))
}

func TestAddLogKeepsDecomposedText(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	written, err := f.svc.AddLog(ctx, LogInput{Situation: "cafe\u0301 con Ana", AnxietyLevel: 3})
	require.NoError(t, err)

	logs := f.svc.Logs(ctx)
	require.Len(t, logs, 1)
	assert.Equal(t, written, logs[0])
	assert.Equal(t, "cafe\u0301 con Ana", logs[0].Situation)
}

func TestUndatedUnlockDoesNotBlockOthers(t *testing.T) {
	f := newFixture(t)
	f.medium.SetRaw(KeyAchievements, []byte(`[`+
		`{"id":"first_log","title":"t","description":"d","icon":"i","unlocked":true},`+
		`{"id":"first_thought_record","title":"t","description":"d","icon":"i","unlocked":false}]`))
	f.attachEngine(t)
	ctx := t.Context()

	_, err := f.svc.AddThought(ctx, ThoughtInput{Situation: "clase", AutomaticThought: "me miran", AlternativeThought: "cada uno va a lo suyo"})
	require.NoError(t, err)

	achs := f.svc.Achievements(ctx)
	idx := model.IndexOf(achs, "first_thought_record")
	require.GreaterOrEqual(t, idx, 0)
	assert.True(t, achs[idx].Unlocked)
	require.NotNil(t, achs[idx].DateUnlocked)
	assert.True(t, achs[idx].DateUnlocked.Equal(start))
	for _, a := range achs {
		require.NoError(t, a.Validate(), a.ID)
	}
}

func TestHistoryRecordsEveryWrite(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	_, err := f.svc.AddLog(ctx, LogInput{Situation: "uno", AnxietyLevel: 1})
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteLog(ctx, "rec-0001"))

	revs, err := f.svc.History(ctx, KeyEmotionalLog)
	require.NoError(t, err)
	require.Len(t, revs, 2)
	assert.Less(t, revs[0].Seq, revs[1].Seq)
}
