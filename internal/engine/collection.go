package engine

import (
	"context"
	"time"

	"github.com/roach88/presente/internal/model"
	"github.com/roach88/presente/internal/store"
)

// Env is the predicate environment for a collection of T.
type Env[T any] struct {
	Entries []T         `expr:"entries"`
	Count   int         `expr:"count"`
	Dates   []time.Time `expr:"dates"`
}

// NewEnv builds the environment for entries. Dates holds the timestamp of
// every entry implementing model.Dated, in entry order.
func NewEnv[T any](entries []T) Env[T] {
	dates := make([]time.Time, 0, len(entries))
	for _, entry := range entries {
		if d, ok := any(entry).(model.Dated); ok {
			dates = append(dates, d.Timestamp())
		}
	}
	return Env[T]{Entries: entries, Count: len(entries), Dates: dates}
}

// Collection is a watched record collection, erased of its element type.
type Collection struct {
	Name string
	Key  string

	sample    any
	env       func(snapshot any) (any, bool)
	read      func(ctx context.Context, s *store.Store) any
	subscribe func(s *store.Store, fn func(snapshot any)) func()
}

// Watch registers slot as the collection name. Snapshots passed to
// Evaluate for this collection must be []T.
func Watch[T any](name string, slot store.Slot[[]T]) Collection {
	return Collection{
		Name:   name,
		Key:    slot.Key,
		sample: Env[T]{},
		env: func(snapshot any) (any, bool) {
			entries, ok := snapshot.([]T)
			if !ok {
				return nil, false
			}
			return NewEnv(entries), true
		},
		read: func(ctx context.Context, s *store.Store) any {
			return slot.Get(ctx, s)
		},
		subscribe: func(s *store.Store, fn func(snapshot any)) func() {
			return slot.Subscribe(s, func(entries []T) { fn(entries) })
		},
	}
}
