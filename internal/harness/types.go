package harness

// TraceEvent is one committed slot write observed during a scenario.
//
// Step is the index of the flow step that caused the write, so engine
// writes share the step of the record write that triggered them.
type TraceEvent struct {
	Seq  int64  `json:"seq"`
	Step int    `json:"step"`
	Op   string `json:"op"`
	Slot string `json:"slot"`

	// Records is the collection size after the write (record slots only).
	Records *int `json:"records,omitempty"`

	// Unlocked lists the unlocked achievement ids in catalog order
	// (achievements slot only).
	Unlocked []string `json:"unlocked,omitempty"`

	// Value is the stored scalar (feeling slot only).
	Value string `json:"value,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every step behaved as expected and every
	// assertion held.
	Pass bool `json:"pass"`

	// Trace contains the slot commits in seq order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains step and assertion failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a commit to the trace.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
