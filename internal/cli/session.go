package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/presente/internal/engine"
	"github.com/roach88/presente/internal/journal"
	"github.com/roach88/presente/internal/schema"
	"github.com/roach88/presente/internal/store"
)

// session is an open database with the achievement engine attached.
type session struct {
	store   *store.Store
	journal *journal.Service
	engine  *engine.Engine
	detach  func()
	loc     *time.Location
}

// openSession opens the configured database, reconciles achievements with
// the stored records and attaches the engine for the command's writes.
func (o *RootOptions) openSession(ctx context.Context) (*session, error) {
	loc, err := o.Config.Location()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid timezone", err)
	}

	validator, err := schema.New()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to compile schemas", err)
	}

	logger := o.Logger()
	logger.Debug("opening database", "path", o.Database)
	medium, err := store.OpenSQLite(o.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	st := store.New(medium, store.WithLogger(logger), store.WithValidator(validator))
	if o.Config.Timezone == "" {
		loc = preferredLocation(ctx, st, loc, logger)
	}

	eng, err := engine.New(journal.Achievements, engine.DefaultCatalog(), journal.Collections(),
		engine.WithClock(o.now),
		engine.WithLocation(loc),
		engine.WithLogger(logger),
	)
	if err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "failed to build achievement rules", err)
	}

	svcOpts := []journal.Option{
		journal.WithClock(o.now),
		journal.WithLocation(loc),
		journal.WithLogger(logger),
	}
	if o.IDs != nil {
		svcOpts = append(svcOpts, journal.WithIDGenerator(o.IDs))
	}

	s := &session{
		store:   st,
		journal: journal.NewService(st, svcOpts...),
		engine:  eng,
		loc:     loc,
	}
	eng.Reconcile(ctx, st)
	s.detach = eng.Attach(ctx, st)
	return s, nil
}

// preferredLocation returns the stored timezone preference, or fallback
// when none is stored or it no longer loads.
func preferredLocation(ctx context.Context, st *store.Store, fallback *time.Location, logger *slog.Logger) *time.Location {
	tz := journal.Preferences.Get(ctx, st).Timezone
	if tz == "" {
		return fallback
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		logger.Warn("ignoring stored timezone", "timezone", tz, "error", err)
		return fallback
	}
	return loc
}

func (s *session) Close() error {
	s.detach()
	return s.store.Close()
}

// withSession runs fn with an open session and closes it afterwards.
func (o *RootOptions) withSession(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := o.openSession(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := s.Close(); closeErr != nil {
			o.Logger().Error("error closing database", "error", closeErr)
		}
	}()
	return fn(ctx, s)
}
