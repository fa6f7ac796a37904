package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/roach88/presente/internal/model"
	"github.com/roach88/presente/internal/schema"
)

// Store holds the slots of one journal.
//
// Reads and writes run in the caller's goroutine. The internal mutex guards
// the overlay and subscriber tables and is released before listeners run,
// so a listener may write to the store.
type Store struct {
	medium    Medium
	validator *schema.Validator
	clock     *Clock
	logger    *slog.Logger

	mu      sync.Mutex
	overlay map[string][]byte
	subs    map[string][]*subscription
}

type subscription struct {
	fn     func(payload []byte)
	active atomic.Bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithValidator sets the CUE validator used for shape checks.
// Defaults to the embedded journal schema.
func WithValidator(v *schema.Validator) Option {
	return func(s *Store) {
		s.validator = v
	}
}

// New creates a store over medium. The logical clock resumes after the
// medium's last revision.
func New(medium Medium, opts ...Option) *Store {
	s := &Store{
		medium:  medium,
		logger:  slog.Default(),
		overlay: make(map[string][]byte),
		subs:    make(map[string][]*subscription),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.validator == nil {
		s.validator = schema.MustNew()
	}

	last, err := medium.LastSeq(context.Background())
	if err != nil {
		s.logger.Warn("storage unavailable, sequence restarts at zero", "error", err)
		last = 0
	}
	s.clock = NewClockAt(last)
	return s
}

// Logger returns the store's logger.
func (s *Store) Logger() *slog.Logger {
	return s.logger
}

// Seq returns the seq of the most recent commit.
func (s *Store) Seq() int64 {
	return s.clock.Current()
}

// Raw returns the current payload for key.
// ok is false when the key is absent or the medium cannot be read.
func (s *Store) Raw(ctx context.Context, key string) (payload []byte, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rawLocked(ctx, key)
}

func (s *Store) rawLocked(ctx context.Context, key string) ([]byte, bool) {
	if payload, ok := s.overlay[key]; ok {
		return payload, true
	}
	payload, ok, err := s.medium.Load(ctx, key)
	if err != nil {
		s.logger.Warn("storage unavailable, reading default", "slot", key, "error", err)
		return nil, false
	}
	return payload, ok
}

// Conform reports whether payload matches the named CUE definition.
// An empty definition accepts anything.
func (s *Store) Conform(definition string, payload []byte) error {
	if definition == "" {
		return nil
	}
	return s.validator.Validate(definition, payload)
}

// Put commits payload as the new value of key. definition names the CUE
// shape the payload must satisfy ("" skips the check).
func (s *Store) Put(ctx context.Context, key, definition string, payload []byte) (Revision, error) {
	return s.apply(ctx, key, definition, func([]byte, bool) ([]byte, error) {
		return payload, nil
	})
}

// apply runs next against the current payload and commits its result.
// The read, validation and save happen under the store mutex; notification
// happens after it is released.
func (s *Store) apply(ctx context.Context, key, definition string, next func(prev []byte, ok bool) ([]byte, error)) (Revision, error) {
	s.mu.Lock()
	prev, ok := s.rawLocked(ctx, key)
	payload, err := next(prev, ok)
	if err != nil {
		s.mu.Unlock()
		return Revision{}, err
	}

	canonical, err := model.Canonicalize(payload)
	if err != nil {
		s.mu.Unlock()
		return Revision{}, &Error{Code: ErrCodeEncodeFailed, Key: key, Message: "payload is not canonical JSON", Err: err}
	}
	if err := s.Conform(definition, canonical); err != nil {
		s.mu.Unlock()
		return Revision{}, &Error{Code: ErrCodeValidationFailed, Key: key, Message: "payload does not match schema", Err: err}
	}

	rev := Revision{
		Seq:     s.clock.Next(),
		Key:     key,
		Hash:    model.PayloadHash(key, canonical),
		Payload: canonical,
	}
	if err := s.medium.Save(ctx, rev); err != nil {
		s.logger.Warn("storage unavailable, keeping write in memory", "slot", key, "seq", rev.Seq, "error", err)
		s.overlay[key] = canonical
	} else {
		delete(s.overlay, key)
	}
	listeners := append([]*subscription(nil), s.subs[key]...)
	s.mu.Unlock()

	s.logger.Debug("slot committed", "slot", key, "seq", rev.Seq, "hash", rev.Hash)

	for _, sub := range listeners {
		if !sub.active.Load() {
			continue
		}
		latest, ok := s.Raw(ctx, key)
		if !ok {
			latest = canonical
		}
		sub.fn(latest)
	}
	return rev, nil
}

// Subscribe registers fn for commits to key. Listeners run synchronously in
// subscription order, after the commit is visible to reads. Each listener
// receives the value of key current when it runs, so a listener that writes
// key itself hands the newer value to the listeners after it.
// The returned function unsubscribes; it takes effect immediately, even
// during a notification round already in progress.
func (s *Store) Subscribe(key string, fn func(payload []byte)) (unsubscribe func()) {
	sub := &subscription{fn: fn}
	sub.active.Store(true)

	s.mu.Lock()
	s.subs[key] = append(s.subs[key], sub)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.active.Store(false)
			s.mu.Lock()
			defer s.mu.Unlock()
			list := s.subs[key]
			for i, candidate := range list {
				if candidate == sub {
					s.subs[key] = append(list[:i:i], list[i+1:]...)
					break
				}
			}
			if len(s.subs[key]) == 0 {
				delete(s.subs, key)
			}
		})
	}
}

// History returns the durable revisions of key in seq order.
// Writes held only in the overlay are not included.
func (s *Store) History(ctx context.Context, key string) ([]Revision, error) {
	revs, err := s.medium.Revisions(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("history %s: %w", key, err)
	}
	return revs, nil
}

// Close closes the medium.
func (s *Store) Close() error {
	return s.medium.Close()
}
