package store

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// Revision is one committed write of a slot.
type Revision struct {
	Seq     int64  `json:"seq"`
	Key     string `json:"key"`
	Hash    string `json:"hash"`
	Payload []byte `json:"-"`
}

// Medium is the durable backing of a Store.
//
// Load reports ok=false for a key that was never saved. Save makes rev the
// current value of rev.Key and appends it to the key's history.
type Medium interface {
	Load(ctx context.Context, key string) (payload []byte, ok bool, err error)
	Save(ctx context.Context, rev Revision) error
	LastSeq(ctx context.Context) (int64, error)
	Revisions(ctx context.Context, key string) ([]Revision, error)
	Close() error
}

// ErrMediumClosed is returned by a medium after Close.
var ErrMediumClosed = errors.New("store: medium closed")

// MemoryMedium keeps slots in process memory.
type MemoryMedium struct {
	mu      sync.Mutex
	current map[string][]byte
	log     []Revision
	closed  bool
}

// NewMemoryMedium returns an empty in-memory medium.
func NewMemoryMedium() *MemoryMedium {
	return &MemoryMedium{current: make(map[string][]byte)}
}

// Load implements Medium.
func (m *MemoryMedium) Load(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, false, ErrMediumClosed
	}
	payload, ok := m.current[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), payload...), true, nil
}

// Save implements Medium.
func (m *MemoryMedium) Save(_ context.Context, rev Revision) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrMediumClosed
	}
	payload := append([]byte(nil), rev.Payload...)
	rev.Payload = payload
	m.current[rev.Key] = payload
	m.log = append(m.log, rev)
	return nil
}

// SetRaw stores payload for key without a revision. Tests use it to plant
// corrupt data.
func (m *MemoryMedium) SetRaw(key string, payload []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current[key] = append([]byte(nil), payload...)
}

// LastSeq implements Medium.
func (m *MemoryMedium) LastSeq(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, ErrMediumClosed
	}
	var last int64
	for _, rev := range m.log {
		if rev.Seq > last {
			last = rev.Seq
		}
	}
	return last, nil
}

// Revisions implements Medium.
func (m *MemoryMedium) Revisions(_ context.Context, key string) ([]Revision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrMediumClosed
	}
	var out []Revision
	for _, rev := range m.log {
		if rev.Key == key {
			rev.Payload = append([]byte(nil), rev.Payload...)
			out = append(out, rev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

// Close implements Medium.
func (m *MemoryMedium) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
