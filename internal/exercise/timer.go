package exercise

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Timer runs a timed exercise.
//
// Commands are safe to call from any goroutine. Subscribers and the
// completion hook run outside the timer's lock, on the goroutine that
// caused the change (the caller or the tick goroutine).
type Timer struct {
	def    Definition
	ticker TickerFunc
	logger *slog.Logger

	mu         sync.Mutex
	state      State
	index      int
	remaining  int
	cycles     int
	elapsed    int
	generation uint64
	cancel     func()        // stops the current tick goroutine
	done       chan struct{} // closed when the current tick goroutine exits
	closed     bool

	subs       []*timerSub
	onComplete func(Completion)
}

type timerSub struct {
	fn func(Snapshot)
}

// TimerOption configures a Timer.
type TimerOption func(*Timer)

// WithTicker sets the tick source. Defaults to RealTicker.
func WithTicker(fn TickerFunc) TimerOption {
	return func(t *Timer) {
		t.ticker = fn
	}
}

// WithTimerLogger sets the timer's logger. Defaults to slog.Default().
func WithTimerLogger(logger *slog.Logger) TimerOption {
	return func(t *Timer) {
		t.logger = logger
	}
}

// OnComplete sets the hook called when a non-looping run finishes.
func OnComplete(fn func(Completion)) TimerOption {
	return func(t *Timer) {
		t.onComplete = fn
	}
}

// NewTimer validates def and returns an idle timer at the first phase.
func NewTimer(def Definition, opts ...TimerOption) (*Timer, error) {
	if len(def.Phases) == 0 {
		return nil, fmt.Errorf("%s: %w", def.Name, ErrNoPhases)
	}
	for _, p := range def.Phases {
		if p.Duration <= 0 {
			return nil, fmt.Errorf("%s: phase %q: %w", def.Name, p.Label, ErrInvalidDuration)
		}
	}

	t := &Timer{
		def:    def,
		ticker: RealTicker,
		logger: slog.Default(),
		state:  StateIdle,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.remaining = def.Phases[0].Duration
	return t, nil
}

// Definition returns the exercise definition.
func (t *Timer) Definition() Definition {
	return t.def
}

// Snapshot returns the current state.
func (t *Timer) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Timer) snapshotLocked() Snapshot {
	return Snapshot{
		Exercise:   t.def.Name,
		State:      t.state,
		PhaseIndex: t.index,
		Phase:      t.def.Phases[t.index],
		Remaining:  t.remaining,
		Cycles:     t.cycles,
		Elapsed:    t.elapsed,
	}
}

// Subscribe registers fn for state changes. The returned function
// unsubscribes.
func (t *Timer) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	sub := &timerSub{fn: fn}
	t.mu.Lock()
	t.subs = append(t.subs, sub)
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		for i, candidate := range t.subs {
			if candidate == sub {
				t.subs = append(t.subs[:i:i], t.subs[i+1:]...)
				return
			}
		}
	}
}

// Start begins a run. From idle or complete it starts the first phase at
// full duration; from paused it resumes; while running it does nothing.
func (t *Timer) Start() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrClosed
	}
	switch t.state {
	case StateRunning:
		t.mu.Unlock()
		return nil
	case StateIdle, StateComplete:
		t.rewindLocked()
	}
	t.state = StateRunning
	t.startTickingLocked()
	t.logger.Debug("exercise started", "exercise", t.def.Name, "generation", t.generation)
	t.publishLocked(nil)
	return nil
}

// Pause freezes the countdown. It does nothing unless running.
func (t *Timer) Pause() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrClosed
	}
	if t.state != StateRunning {
		t.mu.Unlock()
		return nil
	}
	t.stopTickingLocked()
	t.state = StatePaused
	t.publishLocked(nil)
	return nil
}

// Resume continues a paused countdown from where it froze. It does nothing
// unless paused.
func (t *Timer) Resume() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrClosed
	}
	if t.state != StatePaused {
		t.mu.Unlock()
		return nil
	}
	t.state = StateRunning
	t.startTickingLocked()
	t.publishLocked(nil)
	return nil
}

// Stop cancels the run and returns to idle with counters cleared.
func (t *Timer) Stop() error {
	return t.toIdle()
}

// Reset returns to idle at the first phase's full duration.
func (t *Timer) Reset() error {
	return t.toIdle()
}

func (t *Timer) toIdle() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrClosed
	}
	t.stopTickingLocked()
	t.rewindLocked()
	t.state = StateIdle
	t.publishLocked(nil)
	return nil
}

// Close stops the tick source and waits for the tick goroutine to exit.
// Every later command returns ErrClosed. Close is idempotent.
// It must not be called from a subscriber running on the tick goroutine.
func (t *Timer) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	done := t.stopTickingLocked()
	t.closed = true
	if t.state == StateRunning {
		t.state = StatePaused
	}
	t.subs = nil
	t.mu.Unlock()

	if done != nil {
		<-done
	}
	return nil
}

// Advance applies n ticks synchronously, as if n seconds elapsed while
// running. Ticks are ignored unless the timer is running.
func (t *Timer) Advance(n int) error {
	for i := 0; i < n; i++ {
		t.mu.Lock()
		if t.closed {
			t.mu.Unlock()
			return ErrClosed
		}
		if t.state != StateRunning {
			t.mu.Unlock()
			return nil
		}
		t.stepLocked()
	}
	return nil
}

// rewindLocked puts the timer at the start of the first phase. Caller must hold t.mu.
func (t *Timer) rewindLocked() {
	t.index = 0
	t.remaining = t.def.Phases[0].Duration
	t.cycles = 0
	t.elapsed = 0
}

// startTickingLocked cancels any previous tick goroutine and starts a new
// generation. Caller must hold t.mu.
func (t *Timer) startTickingLocked() {
	t.stopTickingLocked()
	t.generation++
	gen := t.generation

	ticks, stop := t.ticker(time.Second)
	quit := make(chan struct{})
	done := make(chan struct{})
	var once sync.Once
	t.cancel = func() {
		once.Do(func() {
			close(quit)
			stop()
		})
	}
	t.done = done

	go func() {
		defer close(done)
		for {
			select {
			case <-quit:
				return
			case _, ok := <-ticks:
				if !ok {
					return
				}
				t.tick(gen)
			}
		}
	}()
}

// stopTickingLocked cancels the current tick goroutine, if any, and returns
// its done channel. Caller must hold t.mu.
func (t *Timer) stopTickingLocked() chan struct{} {
	if t.cancel == nil {
		return nil
	}
	t.cancel()
	t.cancel = nil
	done := t.done
	t.done = nil
	return done
}

// tick handles one tick from the goroutine of generation gen.
func (t *Timer) tick(gen uint64) {
	t.mu.Lock()
	if t.closed || gen != t.generation || t.state != StateRunning {
		t.mu.Unlock()
		return
	}
	t.stepLocked()
}

// stepLocked advances the countdown by one second and publishes the new
// state. When the countdown reaches zero it moves to the next phase at that
// phase's full duration in the same step. Caller must hold t.mu; stepLocked
// releases it.
func (t *Timer) stepLocked() {
	t.elapsed++
	t.remaining--

	var completion *Completion
	if t.remaining <= 0 {
		next := t.index + 1
		switch {
		case next < len(t.def.Phases):
			t.index = next
			t.remaining = t.def.Phases[next].Duration
		case t.def.Loop:
			t.index = 0
			t.remaining = t.def.Phases[0].Duration
			t.cycles++
		default:
			t.remaining = 0
			t.cycles++
			t.state = StateComplete
			t.stopTickingLocked()
			completion = &Completion{
				Exercise: t.def.Name,
				Elapsed:  time.Duration(t.elapsed) * time.Second,
				Cycles:   t.cycles,
			}
			t.logger.Debug("exercise complete", "exercise", t.def.Name, "elapsed_seconds", t.elapsed)
		}
	}
	t.publishLocked(completion)
}

// publishLocked releases t.mu and notifies observers of the state it held.
func (t *Timer) publishLocked(completion *Completion) {
	snap := t.snapshotLocked()
	subs := append([]*timerSub(nil), t.subs...)
	onComplete := t.onComplete
	t.mu.Unlock()

	for _, sub := range subs {
		sub.fn(snap)
	}
	if completion != nil && onComplete != nil {
		onComplete(*completion)
	}
}
