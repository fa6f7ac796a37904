package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/roach88/presente/internal/exercise"
	"github.com/roach88/presente/internal/journal"
)

// ExerciseOptions holds flags for the guided exercise commands.
type ExerciseOptions struct {
	*RootOptions
	Cycles           int
	CompleteExposure string
}

// NewBreatheCommand creates the breathe command.
func NewBreatheCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExerciseOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "breathe",
		Short: "Diaphragmatic breathing: inhale 4s, hold 4s, exhale 6s",
		Long: `Diaphragmatic breathing: inhale 4s, hold 4s, exhale 6s.

Repeats until interrupted, or for --cycles full cycles.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Cycles < 0 {
				return NewExitError(ExitCommandError, "--cycles must not be negative")
			}
			res, err := opts.runTimer(cmd, exercise.Breathing(), func(s exercise.Snapshot) bool {
				return opts.Cycles > 0 && s.Cycles >= opts.Cycles
			})
			if err != nil {
				return err
			}
			return opts.formatter(cmd).Success(res)
		},
	}
	cmd.Flags().IntVar(&opts.Cycles, "cycles", 0, "number of cycles (0 runs until interrupted)")
	return cmd
}

// NewAnchorCommand creates the anchor command.
func NewAnchorCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExerciseOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "anchor",
		Short: "One minute of focused attention on a neutral object",
		Long: `One minute of focused attention on a neutral object.

With --complete-exposure, a finished minute marks that exposure step completed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := opts.runTimer(cmd, exercise.AttentionAnchor(), nil)
			if err != nil {
				return err
			}
			if res.Completed && opts.CompleteExposure != "" {
				err := opts.withSession(cmd, func(ctx context.Context, s *session) error {
					return s.journal.CompleteExposure(ctx, opts.CompleteExposure)
				})
				if err != nil {
					return WrapExitError(ExitFailure, "failed to complete exposure step", err)
				}
				res.Exposure = opts.CompleteExposure
			}
			return opts.formatter(cmd).Success(res)
		},
	}
	cmd.Flags().StringVar(&opts.CompleteExposure, "complete-exposure", "", "exposure step to mark completed when the minute ends")
	return cmd
}

// timerResult is the outcome of a timed exercise.
type timerResult struct {
	Exercise    string `json:"exercise"`
	Completed   bool   `json:"completed"`
	Interrupted bool   `json:"interrupted"`
	Cycles      int    `json:"cycles"`
	Elapsed     int    `json:"elapsedSeconds"`
	Exposure    string `json:"completedExposure,omitempty"`
}

func (r timerResult) RenderText(w io.Writer) {
	switch {
	case r.Completed:
		fmt.Fprintln(w, "¡Bien hecho! Ejercicio completado.")
		fmt.Fprintln(w, "Tómate un momento para notar cómo te sientes.")
	case r.Interrupted:
		fmt.Fprintf(w, "Ejercicio detenido tras %ds.\n", r.Elapsed)
	default:
		fmt.Fprintf(w, "Ciclos completados: %d\n", r.Cycles)
	}
	if r.Exposure != "" {
		fmt.Fprintf(w, "Paso de exposición completado: %s\n", r.Exposure)
	}
}

// runTimer runs def until it completes, until reports true for a snapshot,
// or the command context ends. Each phase is announced as it begins.
func (o *ExerciseOptions) runTimer(cmd *cobra.Command, def exercise.Definition, until func(exercise.Snapshot) bool) (timerResult, error) {
	ctx := cmd.Context()
	finished := make(chan struct{})
	var finish sync.Once
	signal := func() { finish.Do(func() { close(finished) }) }

	t, err := exercise.NewTimer(def,
		exercise.WithTicker(o.ticker()),
		exercise.WithTimerLogger(o.Logger()),
		exercise.OnComplete(func(exercise.Completion) { signal() }),
	)
	if err != nil {
		return timerResult{}, WrapExitError(ExitCommandError, "invalid exercise", err)
	}

	live := o.Format == "text"
	w := cmd.OutOrStdout()
	if live {
		fmt.Fprintln(w, def.Description)
	}

	var mu sync.Mutex
	lastPhase, lastCycles := -1, 0
	t.Subscribe(func(s exercise.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		if until != nil && until(s) {
			signal()
			return
		}
		if s.State != exercise.StateRunning || (s.PhaseIndex == lastPhase && s.Cycles == lastCycles) {
			return
		}
		lastPhase, lastCycles = s.PhaseIndex, s.Cycles
		if live {
			fmt.Fprintf(w, "%s (%ds)\n", s.Phase.Instruction, s.Phase.Duration)
		}
	})

	if err := t.Start(); err != nil {
		return timerResult{}, WrapExitError(ExitFailure, "failed to start exercise", err)
	}

	interrupted := false
	select {
	case <-finished:
	case <-ctx.Done():
		interrupted = true
	}
	snap := t.Snapshot()
	if err := t.Close(); err != nil {
		o.Logger().Error("error closing timer", "error", err)
	}

	return timerResult{
		Exercise:    def.Name,
		Completed:   snap.State == exercise.StateComplete,
		Interrupted: interrupted,
		Cycles:      snap.Cycles,
		Elapsed:     snap.Elapsed,
	}, nil
}

// NewGroundCommand creates the ground command.
func NewGroundCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ground",
		Short: "5-4-3-2-1 sensory grounding, answered on stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnswered(rootOpts, cmd, exercise.SensoryGrounding(), "grounding")
		},
	}
}

// NewObserveCommand creates the observe command.
func NewObserveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "observe",
		Short: "Mindful observer: question the first reading of a social moment",
		Long: `Mindful observer: question the first reading of a social moment.

Describe a recent situation where you felt on alert, the cues you noticed,
your immediate interpretation and two alternative ones, then reflect on
them. Answers are read from stdin, one per line, and are not stored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnswered(rootOpts, cmd, exercise.MindfulObserver(), "observer")
		},
	}
}

// runAnswered walks a wizard whose steps all need an answer, one stdin line
// per step. Blank lines are asked again.
func runAnswered(opts *RootOptions, cmd *cobra.Command, w *exercise.Wizard, label string) error {
	in := bufio.NewScanner(cmd.InOrStdin())
	prompt := opts.promptWriter(cmd)

	for !w.Snapshot().Finished {
		step := w.Snapshot().Step
		fmt.Fprintf(prompt, "%s. %s\n", step.Title, step.Instruction)
		if step.Placeholder != "" {
			fmt.Fprintf(prompt, "   %s\n", step.Placeholder)
		}
		if !in.Scan() {
			return NewExitError(ExitFailure, label+" interrupted before the last step")
		}
		if err := w.Next(in.Text()); err != nil {
			if errors.Is(err, exercise.ErrResponseRequired) {
				fmt.Fprintln(prompt, "Por favor, escribe una respuesta.")
				continue
			}
			return WrapExitError(ExitFailure, label+" failed", err)
		}
	}
	return opts.formatter(cmd).Success(wizardResult(w.Snapshot()))
}

// NewPanicCommand creates the panic command.
func NewPanicCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "panic",
		Short: "Step-by-step panic prevention guide",
		Long: `Step-by-step panic prevention guide.

Commands on stdin: enter or "next" to continue, "prev" to go back,
"restart" to begin again, "quit" to stop.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPanic(rootOpts, cmd)
		},
	}
}

func runPanic(opts *RootOptions, cmd *cobra.Command) error {
	w := exercise.PanicPrevention()
	in := bufio.NewScanner(cmd.InOrStdin())
	prompt := opts.promptWriter(cmd)

	show := true
	for {
		snap := w.Snapshot()
		if show {
			fmt.Fprintf(prompt, "[%d/%d] %s\n", snap.Index+1, snap.Total, snap.Step.Title)
			fmt.Fprintf(prompt, "  %s\n", snap.Step.Instruction)
		}
		show = true
		if !in.Scan() {
			return opts.formatter(cmd).Success(wizardResult(snap))
		}

		var err error
		switch strings.ToLower(strings.TrimSpace(in.Text())) {
		case "", "next", "n":
			err = w.Next("")
		case "prev", "p":
			err = w.Previous()
		case "restart", "r":
			w.Restart()
		case "quit", "q":
			return opts.formatter(cmd).Success(wizardResult(snap))
		default:
			fmt.Fprintln(prompt, `Usa "next", "prev", "restart" o "quit".`)
			show = false
			continue
		}

		switch {
		case errors.Is(err, exercise.ErrAtLastStep):
			res := wizardResult(snap)
			res.Finished = true
			res.Affirmation = journal.RandomAffirmation(opts.Rand)
			return opts.formatter(cmd).Success(res)
		case errors.Is(err, exercise.ErrAtFirstStep):
			fmt.Fprintln(prompt, "Ya estás en el primer paso.")
			show = false
		case err != nil:
			return WrapExitError(ExitFailure, "panic guide failed", err)
		}
	}
}

// promptWriter is where interactive prompts go: stdout for text output,
// stderr when stdout carries JSON.
func (o *RootOptions) promptWriter(cmd *cobra.Command) io.Writer {
	if o.Format == "json" {
		return cmd.ErrOrStderr()
	}
	return cmd.OutOrStdout()
}

type wizardView struct {
	Exercise    string   `json:"exercise"`
	Finished    bool     `json:"finished"`
	Step        int      `json:"step"`
	Total       int      `json:"total"`
	Answers     []string `json:"answers"`
	Affirmation string   `json:"affirmation,omitempty"`
}

func wizardResult(s exercise.WizardSnapshot) wizardView {
	return wizardView{
		Exercise: s.Exercise,
		Finished: s.Finished,
		Step:     s.Index + 1,
		Total:    s.Total,
		Answers:  s.Log,
	}
}

func (v wizardView) RenderText(w io.Writer) {
	if !v.Finished {
		fmt.Fprintf(w, "Ejercicio interrumpido en el paso %d de %d.\n", v.Step, v.Total)
		return
	}
	fmt.Fprintln(w, "¡Has completado el ejercicio!")
	for _, a := range v.Answers {
		fmt.Fprintf(w, "  %s\n", a)
	}
	if v.Affirmation != "" {
		fmt.Fprintf(w, "Repite: %s\n", v.Affirmation)
	}
}
