package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/presente/internal/model"
	"github.com/roach88/presente/internal/schema"
)

func TestPut_StampsIncreasingSeq(t *testing.T) {
	s, _ := newMemoryStore(t)
	ctx := context.Background()

	r1, err := s.Put(ctx, "a", "", []byte(`1`))
	require.NoError(t, err)
	r2, err := s.Put(ctx, "b", "", []byte(`2`))
	require.NoError(t, err)

	assert.Equal(t, int64(1), r1.Seq)
	assert.Equal(t, int64(2), r2.Seq)
	assert.Equal(t, model.PayloadHash("a", []byte(`1`)), r1.Hash)
}

func TestPut_CanonicalizesPayload(t *testing.T) {
	s, _ := newMemoryStore(t)
	ctx := context.Background()

	_, err := s.Put(ctx, "prefs", schema.Preferences, []byte(`{ "timezone": "Europe/Madrid", "dailyReminder": "0 9 * * *" }`))
	require.NoError(t, err)

	raw, ok := s.Raw(ctx, "prefs")
	require.True(t, ok)
	assert.Equal(t, `{"dailyReminder":"0 9 * * *","timezone":"Europe/Madrid"}`, string(raw))
}

func TestPut_RejectsFloats(t *testing.T) {
	s, _ := newMemoryStore(t)
	_, err := s.Put(context.Background(), "x", "", []byte(`1.5`))
	require.Error(t, err)
	assert.Equal(t, ErrCodeEncodeFailed, ErrorCode(err))
}

func TestSubscribe_KeysAreIsolated(t *testing.T) {
	s, m := newMemoryStore(t)
	ctx := context.Background()

	var aCalls, bCalls int
	s.Subscribe("a", func([]byte) { aCalls++ })
	s.Subscribe("b", func([]byte) { bCalls++ })

	// Garbage in b must not affect writes to a.
	m.SetRaw("b", []byte(`{garbage`))

	_, err := s.Put(ctx, "a", "", []byte(`true`))
	require.NoError(t, err)
	assert.Equal(t, 1, aCalls)
	assert.Equal(t, 0, bCalls)
}

func TestSubscribe_SubscriptionOrder(t *testing.T) {
	s, _ := newMemoryStore(t)
	var order []string
	s.Subscribe("k", func([]byte) { order = append(order, "first") })
	s.Subscribe("k", func([]byte) { order = append(order, "second") })
	s.Subscribe("k", func([]byte) { order = append(order, "third") })

	_, err := s.Put(context.Background(), "k", "", []byte(`1`))
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestSubscribe_UnsubscribeDuringNotification(t *testing.T) {
	s, _ := newMemoryStore(t)

	var secondCalls int
	var unsubSecond func()
	s.Subscribe("k", func([]byte) { unsubSecond() })
	unsubSecond = s.Subscribe("k", func([]byte) { secondCalls++ })

	_, err := s.Put(context.Background(), "k", "", []byte(`1`))
	require.NoError(t, err)
	assert.Equal(t, 0, secondCalls, "unsubscribed listener must not run in the current round")

	_, err = s.Put(context.Background(), "k", "", []byte(`2`))
	require.NoError(t, err)
	assert.Equal(t, 0, secondCalls)
}

func TestSubscribe_UnsubscribeIdempotent(t *testing.T) {
	s, _ := newMemoryStore(t)
	unsub := s.Subscribe("k", func([]byte) {})
	unsub()
	assert.NotPanics(t, unsub)
}

func TestSubscribe_WriteVisibleBeforeListeners(t *testing.T) {
	s, _ := newMemoryStore(t)
	ctx := context.Background()

	var seen string
	s.Subscribe("k", func([]byte) {
		raw, _ := s.Raw(ctx, "k")
		seen = string(raw)
	})
	_, err := s.Put(ctx, "k", "", []byte(`"nuevo"`))
	require.NoError(t, err)
	assert.Equal(t, `"nuevo"`, seen)
}

func TestSubscribe_NestedWrite(t *testing.T) {
	s, _ := newMemoryStore(t)
	ctx := context.Background()

	var trace []string
	s.Subscribe("source", func([]byte) {
		trace = append(trace, "source")
		_, err := s.Put(ctx, "derived", "", []byte(`1`))
		assert.NoError(t, err)
	})
	s.Subscribe("derived", func([]byte) { trace = append(trace, "derived") })

	rev, err := s.Put(ctx, "source", "", []byte(`1`))
	require.NoError(t, err)
	assert.Equal(t, []string{"source", "derived"}, trace)
	assert.Equal(t, rev.Seq+1, s.Seq())
}

func TestSubscribe_SameKeyNestedWrite(t *testing.T) {
	s, _ := newMemoryStore(t)
	ctx := context.Background()

	var got []string
	s.Subscribe("k", func(payload []byte) {
		got = append(got, "first:"+string(payload))
		if string(payload) == `1` {
			_, err := s.Put(ctx, "k", "", []byte(`2`))
			assert.NoError(t, err)
		}
	})
	s.Subscribe("k", func(payload []byte) { got = append(got, "second:"+string(payload)) })

	_, err := s.Put(ctx, "k", "", []byte(`1`))
	require.NoError(t, err)
	assert.Equal(t, []string{"first:1", "first:2", "second:2", "second:2"}, got)

	raw, _ := s.Raw(ctx, "k")
	assert.Equal(t, `2`, string(raw))
}

func TestStore_FailingMediumDegrades(t *testing.T) {
	s := New(failingMedium{}, WithLogger(quietLogger()), WithValidator(testValidator))
	ctx := context.Background()

	assert.Equal(t, model.FeelingUnselected, feelingSlot.Get(ctx, s))

	var notified int
	feelingSlot.Subscribe(s, func(model.Feeling) { notified++ })
	require.NoError(t, feelingSlot.Set(ctx, s, model.FeelingAnxious), "save failure is never raised")
	assert.Equal(t, 1, notified)
	assert.Equal(t, model.FeelingAnxious, feelingSlot.Get(ctx, s), "overlay serves the session")

	_, err := s.History(ctx, feelingSlot.Key)
	assert.Error(t, err)
}

func TestStore_HistoryInSeqOrder(t *testing.T) {
	s, _ := newMemoryStore(t)
	ctx := context.Background()

	require.NoError(t, feelingSlot.Set(ctx, s, model.FeelingHappy))
	require.NoError(t, stepsSlot.Set(ctx, s, []model.ExposureStep{step("a", 1)}))
	require.NoError(t, feelingSlot.Set(ctx, s, model.FeelingCalm))

	revs, err := s.History(ctx, feelingSlot.Key)
	require.NoError(t, err)
	require.Len(t, revs, 2)
	assert.Equal(t, int64(1), revs[0].Seq)
	assert.Equal(t, int64(3), revs[1].Seq)
	assert.Equal(t, `"Calmado"`, string(revs[1].Payload))
}

func TestSQLite_CreatesDatabase(t *testing.T) {
	path := tempDBPath(t)
	s := openSQLiteStore(t, path)
	defer s.Close()

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestSQLite_Pragmas(t *testing.T) {
	m, err := OpenSQLite(tempDBPath(t))
	require.NoError(t, err)
	defer m.Close()

	mode, err := m.pragma("journal_mode")
	require.NoError(t, err)
	assert.Equal(t, "wal", mode)

	version, err := m.pragma("user_version")
	require.NoError(t, err)
	assert.Equal(t, "1", version)
}

func TestSQLite_ReopenKeepsValuesAndResumesSeq(t *testing.T) {
	path := tempDBPath(t)
	ctx := context.Background()

	s1 := openSQLiteStore(t, path)
	want := []model.ExposureStep{step("a", 3), step("b", 7)}
	require.NoError(t, stepsSlot.Set(ctx, s1, want))
	require.NoError(t, feelingSlot.Set(ctx, s1, model.FeelingNeutral))
	require.NoError(t, s1.Close())

	s2 := openSQLiteStore(t, path)
	defer s2.Close()

	assert.Equal(t, want, stepsSlot.Get(ctx, s2))
	assert.Equal(t, model.FeelingNeutral, feelingSlot.Get(ctx, s2))
	assert.Equal(t, int64(2), s2.Seq())

	require.NoError(t, feelingSlot.Set(ctx, s2, model.FeelingHappy))
	assert.Equal(t, int64(3), s2.Seq())

	revs, err := s2.History(ctx, feelingSlot.Key)
	require.NoError(t, err)
	require.Len(t, revs, 2)
	assert.Equal(t, int64(2), revs[0].Seq)
	assert.Equal(t, int64(3), revs[1].Seq)
}

func TestSQLite_OpenIdempotent(t *testing.T) {
	path := tempDBPath(t)
	for i := 0; i < 3; i++ {
		m, err := OpenSQLite(path)
		require.NoError(t, err, "iteration %d", i)
		require.NoError(t, m.Close())
	}
}

func TestClock(t *testing.T) {
	c := NewClockAt(41)
	assert.Equal(t, int64(41), c.Current())
	assert.Equal(t, int64(42), c.Next())
	assert.Equal(t, int64(43), NewClockAt(42).Next())
	assert.Equal(t, int64(1), NewClock().Next())
}
