package journal

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/presente/internal/engine"
	"github.com/roach88/presente/internal/schema"
	"github.com/roach88/presente/internal/store"
	"github.com/roach88/presente/internal/testutil"
)

var validator = schema.MustNew()

var start = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	medium *store.MemoryMedium
	store  *store.Store
	clock  *testutil.ManualClock
	svc    *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	m := store.NewMemoryMedium()
	st := store.New(m, store.WithLogger(quietLogger()), store.WithValidator(validator))
	t.Cleanup(func() { st.Close() })
	clock := testutil.NewManualClock(start)
	svc := NewService(st,
		WithIDGenerator(testutil.NewSequenceIDs("rec")),
		WithClock(clock.Now),
		WithLocation(time.UTC),
		WithLogger(quietLogger()),
	)
	return &fixture{medium: m, store: st, clock: clock, svc: svc}
}

// attachEngine wires the default achievement rules to the fixture's store.
func (f *fixture) attachEngine(t *testing.T) {
	t.Helper()
	e, err := engine.New(Achievements, engine.DefaultCatalog(), Collections(),
		engine.WithClock(f.clock.Now),
		engine.WithLocation(time.UTC),
		engine.WithLogger(quietLogger()),
	)
	require.NoError(t, err)
	t.Cleanup(e.Attach(t.Context(), f.store))
}

func ids[T interface{ RecordID() string }](records []T) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.RecordID())
	}
	return out
}
