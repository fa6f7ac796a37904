package schema

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed journal.cue
var journalCUE string

// Definition names in journal.cue.
const (
	EmotionalLog   = "#EmotionalLog"
	ThoughtRecords = "#ThoughtRecords"
	ExposureSteps  = "#ExposureSteps"
	Achievements   = "#Achievements"
	Feeling        = "#Feeling"
	Preferences    = "#Preferences"
)

// ShapeError reports a payload that does not match its definition.
type ShapeError struct {
	Definition string
	Message    string
	Pos        token.Pos
}

func (e *ShapeError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s:%d:%d: %s", e.Definition, e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Definition, e.Message)
}

// Validator checks JSON payloads against compiled CUE definitions.
type Validator struct {
	mu   sync.Mutex
	ctx  *cue.Context
	root cue.Value
	defs map[string]cue.Value
}

// New compiles the embedded journal schema.
func New() (*Validator, error) {
	return Compile(journalCUE)
}

// MustNew is like New but panics on error.
// The embedded schema is fixed at build time, so failure is a programming error.
func MustNew() *Validator {
	v, err := New()
	if err != nil {
		panic(err)
	}
	return v
}

// Compile builds a Validator from CUE source.
func Compile(src string) (*Validator, error) {
	ctx := cuecontext.New()
	root := ctx.CompileString(src, cue.Filename("journal.cue"))
	if err := root.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %w", formatCUEError("schema", err))
	}
	return &Validator{
		ctx:  ctx,
		root: root,
		defs: make(map[string]cue.Value),
	}, nil
}

// Validate reports whether payload unifies with the named definition.
func (v *Validator) Validate(definition string, payload []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	def, err := v.lookup(definition)
	if err != nil {
		return err
	}

	data := v.ctx.CompileBytes(payload, cue.Filename("payload.json"))
	if err := data.Err(); err != nil {
		return formatCUEError(definition, err)
	}

	unified := def.Unify(data)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(definition, err)
	}
	return nil
}

// Has reports whether the schema declares definition.
func (v *Validator) Has(definition string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, err := v.lookup(definition)
	return err == nil
}

// lookup resolves and caches a definition. Caller must hold v.mu.
func (v *Validator) lookup(definition string) (cue.Value, error) {
	if def, ok := v.defs[definition]; ok {
		return def, nil
	}
	def := v.root.LookupPath(cue.ParsePath(definition))
	if !def.Exists() {
		return cue.Value{}, &ShapeError{Definition: definition, Message: "definition not found"}
	}
	v.defs[definition] = def
	return def, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(definition string, err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &ShapeError{Definition: definition, Message: err.Error()}
	}

	// Return first error with position info
	firstErr := errs[0]
	shapeErr := &ShapeError{Definition: definition, Message: firstErr.Error()}
	if positions := errors.Positions(firstErr); len(positions) > 0 {
		shapeErr.Pos = positions[0]
	}
	return shapeErr
}
