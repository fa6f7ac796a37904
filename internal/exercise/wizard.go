package exercise

import (
	"strings"
	"sync"
)

// Step is one screen of a wizard exercise.
type Step struct {
	Title       string `json:"title"`
	Instruction string `json:"instruction"`
	Placeholder string `json:"placeholder,omitempty"`
	Input       bool   `json:"requiresInput"`
}

// WizardSnapshot is the observable state of a Wizard.
type WizardSnapshot struct {
	Exercise string   `json:"exercise"`
	Index    int      `json:"index"`
	Total    int      `json:"total"`
	Step     Step     `json:"step"`
	Log      []string `json:"completed"`
	Finished bool     `json:"finished"`
}

// Wizard walks through ordered steps. Input steps must be answered before
// moving on; each accepted answer is logged as "<instruction>: <response>".
type Wizard struct {
	name  string
	steps []Step

	mu       sync.Mutex
	index    int
	log      []logEntry
	finished bool
}

type logEntry struct {
	step int
	text string
}

// NewWizard returns a wizard positioned at the first step.
func NewWizard(name string, steps []Step) (*Wizard, error) {
	if len(steps) == 0 {
		return nil, ErrNoPhases
	}
	return &Wizard{name: name, steps: append([]Step(nil), steps...)}, nil
}

// Snapshot returns the current state.
func (w *Wizard) Snapshot() WizardSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	log := make([]string, 0, len(w.log))
	for _, e := range w.log {
		log = append(log, e.text)
	}
	return WizardSnapshot{
		Exercise: w.name,
		Index:    w.index,
		Total:    len(w.steps),
		Step:     w.steps[w.index],
		Log:      log,
		Finished: w.finished,
	}
}

// Next accepts response for the current step and moves forward.
//
// On an input step a blank response is rejected with ErrResponseRequired
// and nothing changes. An accepted response on the last input step
// finishes the wizard. On the last manual step Next returns ErrAtLastStep.
func (w *Wizard) Next(response string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.finished {
		return ErrFinished
	}
	step := w.steps[w.index]
	last := w.index == len(w.steps)-1

	if step.Input {
		answer := strings.TrimSpace(response)
		if answer == "" {
			return ErrResponseRequired
		}
		w.log = append(w.log, logEntry{step: w.index, text: step.Instruction + ": " + answer})
		if last {
			w.finished = true
			return nil
		}
	} else if last {
		return ErrAtLastStep
	}

	w.index++
	return nil
}

// Previous moves back one step. Answers logged for the new step and any
// later step are dropped.
func (w *Wizard) Previous() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.index == 0 {
		return ErrAtFirstStep
	}
	w.index--
	w.finished = false
	w.truncateLocked()
	return nil
}

// Restart returns to the first step with an empty log.
func (w *Wizard) Restart() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.index = 0
	w.finished = false
	w.log = nil
}

func (w *Wizard) truncateLocked() {
	kept := w.log[:0]
	for _, e := range w.log {
		if e.step < w.index {
			kept = append(kept, e)
		}
	}
	w.log = kept
}
