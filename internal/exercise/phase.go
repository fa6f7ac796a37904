package exercise

import "time"

// State is the lifecycle state of a Timer.
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StatePaused   State = "paused"
	StateComplete State = "complete"
)

// Phase is one timed segment of an exercise.
type Phase struct {
	Label       string `json:"label"`
	Duration    int    `json:"durationSeconds"`
	Instruction string `json:"instruction,omitempty"`
}

// Definition describes a timed exercise.
type Definition struct {
	Name        string
	Description string
	Phases      []Phase
	Loop        bool
}

// Snapshot is the observable state of a Timer.
type Snapshot struct {
	Exercise   string `json:"exercise"`
	State      State  `json:"state"`
	PhaseIndex int    `json:"phaseIndex"`
	Phase      Phase  `json:"phase"`
	Remaining  int    `json:"remainingSeconds"`
	Cycles     int    `json:"cycles"`
	Elapsed    int    `json:"elapsedSeconds"`
}

// Running reports whether the countdown is advancing.
func (s Snapshot) Running() bool {
	return s.State == StateRunning
}

// Completion is emitted when a non-looping timer reaches its end.
type Completion struct {
	Exercise string        `json:"exercise"`
	Elapsed  time.Duration `json:"elapsed"`
	Cycles   int           `json:"cycles"`
}
