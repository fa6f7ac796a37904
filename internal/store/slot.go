package store

import (
	"context"
	"encoding/json"
)

// Slot is a typed view of one store key.
//
// Default supplies the value read when the key is absent or unusable.
// Schema names the CUE definition payloads must satisfy. Validate checks a
// value before it is written; Check compares the stored value with the
// proposed one and rejects illegal transitions.
type Slot[T any] struct {
	Key      string
	Default  func() T
	Schema   string
	Validate func(T) error
	Check    func(prev, next T) error
}

func (sl Slot[T]) zero() T {
	if sl.Default != nil {
		return sl.Default()
	}
	var zero T
	return zero
}

// decode returns the value held in payload, or the default when payload is
// malformed or fails the schema or Validate.
func (sl Slot[T]) decode(s *Store, payload []byte, ok bool) T {
	if !ok {
		return sl.zero()
	}
	if err := s.Conform(sl.Schema, payload); err != nil {
		s.logger.Warn("corrupt slot, reading default", "slot", sl.Key, "error", err)
		return sl.zero()
	}
	var v T
	if err := json.Unmarshal(payload, &v); err != nil {
		s.logger.Warn("corrupt slot, reading default", "slot", sl.Key, "error", err)
		return sl.zero()
	}
	if sl.Validate != nil {
		if err := sl.Validate(v); err != nil {
			s.logger.Warn("invalid slot, reading default", "slot", sl.Key, "error", err)
			return sl.zero()
		}
	}
	return v
}

// Get returns the slot's value. It never writes.
func (sl Slot[T]) Get(ctx context.Context, s *Store) T {
	payload, ok := s.Raw(ctx, sl.Key)
	return sl.decode(s, payload, ok)
}

// Set writes next as the slot's value.
func (sl Slot[T]) Set(ctx context.Context, s *Store, next T) error {
	return sl.Update(ctx, s, func(T) (T, error) { return next, nil })
}

// Update computes the new value from the current one and writes it.
// The read and the write are atomic with respect to other writers.
// An error from fn aborts the write and is returned unchanged.
func (sl Slot[T]) Update(ctx context.Context, s *Store, fn func(cur T) (T, error)) error {
	_, err := s.apply(ctx, sl.Key, sl.Schema, func(prevPayload []byte, ok bool) ([]byte, error) {
		prev := sl.decode(s, prevPayload, ok)
		next, err := fn(prev)
		if err != nil {
			return nil, err
		}
		if sl.Validate != nil {
			if err := sl.Validate(next); err != nil {
				return nil, &Error{Code: ErrCodeValidationFailed, Key: sl.Key, Message: "invalid value", Err: err}
			}
		}
		if sl.Check != nil {
			if err := sl.Check(prev, next); err != nil {
				return nil, &Error{Code: ErrCodeTransitionRejected, Key: sl.Key, Message: "illegal transition", Err: err}
			}
		}
		payload, err := json.Marshal(next)
		if err != nil {
			return nil, &Error{Code: ErrCodeEncodeFailed, Key: sl.Key, Message: "cannot encode value", Err: err}
		}
		return payload, nil
	})
	return err
}

// Subscribe registers fn for commits to the slot. Payloads that cannot be
// decoded are logged and skipped.
func (sl Slot[T]) Subscribe(s *Store, fn func(T)) (unsubscribe func()) {
	return s.Subscribe(sl.Key, func(payload []byte) {
		var v T
		if err := json.Unmarshal(payload, &v); err != nil {
			s.logger.Warn("undecodable notification", "slot", sl.Key, "error", err)
			return
		}
		fn(v)
	})
}
