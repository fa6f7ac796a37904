package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/presente/internal/model"
)

func TestSlot_AbsentReadsDefault(t *testing.T) {
	s, _ := newMemoryStore(t)
	ctx := context.Background()

	got := stepsSlot.Get(ctx, s)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, model.FeelingUnselected, feelingSlot.Get(ctx, s))
}

func TestSlot_WriteThenRead(t *testing.T) {
	s, _ := newMemoryStore(t)
	ctx := context.Background()

	want := []model.ExposureStep{step("a", 2), step("b", 5)}
	require.NoError(t, stepsSlot.Set(ctx, s, want))
	assert.Equal(t, want, stepsSlot.Get(ctx, s))

	require.NoError(t, feelingSlot.Set(ctx, s, model.FeelingCalm))
	assert.Equal(t, model.FeelingCalm, feelingSlot.Get(ctx, s))
}

func TestSlot_ReadNeverWrites(t *testing.T) {
	s, m := newMemoryStore(t)
	ctx := context.Background()

	_ = stepsSlot.Get(ctx, s)
	_, ok, err := m.Load(ctx, stepsSlot.Key)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(0), s.Seq())
}

func TestSlot_CorruptPayloadReadsDefault(t *testing.T) {
	s, m := newMemoryStore(t)
	ctx := context.Background()

	m.SetRaw(stepsSlot.Key, []byte(`{not json`))
	assert.Empty(t, stepsSlot.Get(ctx, s))

	m.SetRaw(stepsSlot.Key, []byte(`[{"id":"a","description":"x","targetAnxiety":42,"completed":false,"repetitions":1}]`))
	assert.Empty(t, stepsSlot.Get(ctx, s), "schema-invalid payload reads as absent")

	m.SetRaw(feelingSlot.Key, []byte(`"Furioso"`))
	assert.Equal(t, model.FeelingUnselected, feelingSlot.Get(ctx, s))
}

func TestSlot_InvalidStoredValueReadsDefault(t *testing.T) {
	s, m := newMemoryStore(t)
	ctx := context.Background()

	// Shape-valid, but unlocked without a date.
	m.SetRaw(achievementsSlot.Key, []byte(`[{"id":"first_log","title":"t","description":"d","icon":"i","unlocked":true}]`))
	assert.Empty(t, achievementsSlot.Get(ctx, s))

	when := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	next := []model.Achievement{{ID: "first_log", Title: "t", Description: "d", Icon: "i", Unlocked: true, DateUnlocked: &when}}
	require.NotPanics(t, func() {
		require.NoError(t, achievementsSlot.Set(ctx, s, next))
	})
	assert.Equal(t, next, achievementsSlot.Get(ctx, s))
}

func TestSlot_ValidationFailureKeepsPrevious(t *testing.T) {
	s, _ := newMemoryStore(t)
	ctx := context.Background()

	prev := []model.ExposureStep{step("a", 2)}
	require.NoError(t, stepsSlot.Set(ctx, s, prev))

	err := stepsSlot.Set(ctx, s, []model.ExposureStep{step("a", 2), step("a", 3)})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, ErrCodeValidationFailed, ErrorCode(err))
	assert.Equal(t, prev, stepsSlot.Get(ctx, s))

	err = feelingSlot.Set(ctx, s, model.Feeling("Furioso"))
	require.Error(t, err)
	assert.True(t, IsValidationError(err), "shape check rejects unknown feeling")
}

func TestSlot_CheckRejectsTransition(t *testing.T) {
	s, _ := newMemoryStore(t)
	ctx := context.Background()

	errShrink := errors.New("cannot shrink")
	growOnly := stepsSlot
	growOnly.Check = func(prev, next []model.ExposureStep) error {
		if len(next) < len(prev) {
			return errShrink
		}
		return nil
	}

	require.NoError(t, growOnly.Set(ctx, s, []model.ExposureStep{step("a", 1), step("b", 2)}))
	err := growOnly.Set(ctx, s, []model.ExposureStep{step("a", 1)})
	require.Error(t, err)
	assert.Equal(t, ErrCodeTransitionRejected, ErrorCode(err))
	assert.ErrorIs(t, err, errShrink)
	assert.Len(t, growOnly.Get(ctx, s), 2)
}

func TestSlot_UpdateAbortReturnsCallerError(t *testing.T) {
	s, _ := newMemoryStore(t)
	ctx := context.Background()

	errAbort := errors.New("not found")
	err := stepsSlot.Update(ctx, s, func(cur []model.ExposureStep) ([]model.ExposureStep, error) {
		return nil, errAbort
	})
	assert.ErrorIs(t, err, errAbort)
	assert.False(t, IsValidationError(err))
	assert.Equal(t, int64(0), s.Seq())
}

func TestSlot_NilSliceRejectedByShape(t *testing.T) {
	s, _ := newMemoryStore(t)
	err := stepsSlot.Set(context.Background(), s, nil)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestSlot_SubscribeDecodes(t *testing.T) {
	s, _ := newMemoryStore(t)
	ctx := context.Background()

	var seen []model.Feeling
	unsub := feelingSlot.Subscribe(s, func(f model.Feeling) { seen = append(seen, f) })
	require.NoError(t, feelingSlot.Set(ctx, s, model.FeelingHappy))
	unsub()
	require.NoError(t, feelingSlot.Set(ctx, s, model.FeelingSad))

	assert.Equal(t, []model.Feeling{model.FeelingHappy}, seen)
}
