package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/presente/internal/model"
	"github.com/roach88/presente/internal/store"
)

// Engine evaluates achievement rules against watched collections.
//
// Evaluate is pure apart from reading the wall clock for dateUnlocked.
// Attach and Reconcile run in the caller's goroutine, inside the store's
// notification path.
type Engine struct {
	achievements store.Slot[[]model.Achievement]
	catalog      Catalog
	collections  []Collection // registration order
	byName       map[string]Collection
	rules        map[string][]*Rule // by collection name, catalog order

	now    func() time.Time
	loc    *time.Location
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the wall clock used for dateUnlocked. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithLocation sets the location that defines civil days. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		e.loc = loc
	}
}

// WithLogger sets the engine's logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// errNoChange aborts an achievements update that would unlock nothing.
var errNoChange = errors.New("no achievement unlocked")

// New compiles the catalog's rules against the registered collections.
// It fails if a rule names a collection that was not registered or a
// predicate does not compile.
func New(achievements store.Slot[[]model.Achievement], catalog Catalog, collections []Collection, opts ...Option) (*Engine, error) {
	e := &Engine{
		achievements: achievements,
		catalog:      catalog,
		byName:       make(map[string]Collection, len(collections)),
		rules:        make(map[string][]*Rule),
		now:          time.Now,
		loc:          time.Local,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	for _, coll := range collections {
		if _, dup := e.byName[coll.Name]; dup {
			return nil, &BuildError{Code: ErrCodeDuplicateCollection, Collection: coll.Name, Message: "collection registered twice"}
		}
		e.byName[coll.Name] = coll
		e.collections = append(e.collections, coll)
	}

	for _, entry := range catalog.Achievements {
		coll, ok := e.byName[entry.Collection]
		if !ok {
			return nil, &BuildError{
				Code:          ErrCodeUnknownCollection,
				AchievementID: entry.ID,
				Collection:    entry.Collection,
				Message:       "rule watches an unregistered collection",
			}
		}
		rule, err := compileRule(entry, coll, e.loc)
		if err != nil {
			return nil, err
		}
		e.rules[coll.Name] = append(e.rules[coll.Name], rule)
	}

	return e, nil
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() Catalog {
	return e.catalog
}

// Evaluate applies the rules bound to collection to snapshot.
//
// Only achievements that are present and still locked are considered; each
// whose predicate holds is unlocked with dateUnlocked set to now. The
// returned slice is a copy when something unlocked and the input otherwise.
// unlocked lists the newly unlocked ids in catalog order.
func (e *Engine) Evaluate(achievements []model.Achievement, collection string, snapshot any) (next []model.Achievement, unlocked []string) {
	coll, ok := e.byName[collection]
	if !ok {
		e.logger.Error("rule evaluation skipped: unregistered collection", "collection", collection)
		return achievements, nil
	}
	env, ok := coll.env(snapshot)
	if !ok {
		e.logger.Error("rule evaluation skipped: snapshot type mismatch",
			"collection", collection,
			"snapshot_type", fmt.Sprintf("%T", snapshot))
		return achievements, nil
	}

	next = achievements
	copied := false
	for _, rule := range e.rules[collection] {
		idx := model.IndexOf(next, rule.AchievementID)
		if idx < 0 || next[idx].Unlocked {
			continue
		}
		holds, err := rule.holds(env)
		if err != nil {
			e.logger.Error("rule evaluation failed", "achievement_id", rule.AchievementID, "error", err)
			continue
		}
		if !holds {
			continue
		}
		if !copied {
			next = append([]model.Achievement(nil), achievements...)
			copied = true
		}
		at := e.now()
		next[idx].Unlocked = true
		next[idx].DateUnlocked = &at
		unlocked = append(unlocked, rule.AchievementID)
	}
	return next, unlocked
}

// Attach subscribes the engine to every registered collection of s.
// The returned function detaches it.
func (e *Engine) Attach(ctx context.Context, s *store.Store) (detach func()) {
	unsubs := make([]func(), 0, len(e.collections))
	for _, coll := range e.collections {
		name := coll.Name
		unsubs = append(unsubs, coll.subscribe(s, func(snapshot any) {
			e.commit(ctx, s, func(cur []model.Achievement) ([]model.Achievement, []string, bool) {
				next, unlocked := e.Evaluate(cur, name, snapshot)
				return next, unlocked, len(unlocked) > 0
			})
		}))
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}

// Reconcile adds catalog achievements missing from the stored slot (locked)
// and evaluates every collection once against its current value.
// It returns the ids unlocked by this pass.
func (e *Engine) Reconcile(ctx context.Context, s *store.Store) []string {
	snapshots := make([]any, len(e.collections))
	for i, coll := range e.collections {
		snapshots[i] = coll.read(ctx, s)
	}

	return e.commit(ctx, s, func(cur []model.Achievement) ([]model.Achievement, []string, bool) {
		next, added := e.withCatalog(cur)
		var unlocked []string
		for i, coll := range e.collections {
			var ids []string
			next, ids = e.Evaluate(next, coll.Name, snapshots[i])
			unlocked = append(unlocked, ids...)
		}
		return next, unlocked, added || len(unlocked) > 0
	})
}

// withCatalog appends locked catalog achievements absent from cur.
func (e *Engine) withCatalog(cur []model.Achievement) ([]model.Achievement, bool) {
	next := cur
	added := false
	for _, def := range e.catalog.Defaults() {
		if model.IndexOf(next, def.ID) >= 0 {
			continue
		}
		if !added {
			next = append(make([]model.Achievement, 0, len(cur)+1), cur...)
			added = true
		}
		next = append(next, def)
	}
	if next == nil {
		next = []model.Achievement{}
	}
	return next, added
}

// commit writes the achievements slot when step reports a change.
func (e *Engine) commit(ctx context.Context, s *store.Store, step func(cur []model.Achievement) ([]model.Achievement, []string, bool)) []string {
	var unlocked []string
	err := e.achievements.Update(ctx, s, func(cur []model.Achievement) ([]model.Achievement, error) {
		next, ids, changed := step(cur)
		if !changed {
			return cur, errNoChange
		}
		unlocked = ids
		return next, nil
	})
	if errors.Is(err, errNoChange) {
		return nil
	}
	if err != nil {
		e.logger.Error("achievements write rejected", "error", err)
		return nil
	}
	for _, id := range unlocked {
		e.logger.Info("achievement unlocked", "achievement_id", id)
	}
	return unlocked
}
