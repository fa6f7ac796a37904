package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/presente/internal/journal"
	"github.com/roach88/presente/internal/model"
)

// ExposureOptions holds flags for the exposure subcommands.
type ExposureOptions struct {
	*RootOptions
	Description string
	Anxiety     int
	Repetitions int
	Notes       string
	Completed   bool
}

// NewExposureCommand creates the exposure command group.
func NewExposureCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exposure",
		Short: "Graded exposure ladder (pirámide de exposición)",
	}
	cmd.AddCommand(newExposureAddCommand(rootOpts))
	cmd.AddCommand(newExposureListCommand(rootOpts))
	cmd.AddCommand(newExposureEditCommand(rootOpts))
	cmd.AddCommand(newExposureToggleCommand(rootOpts))
	cmd.AddCommand(newExposureDeleteCommand(rootOpts))
	return cmd
}

func (o *ExposureOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Description, "description", "", "the situation to face")
	cmd.Flags().IntVar(&o.Anxiety, "anxiety", 5, "expected anxiety (0-10)")
	cmd.Flags().IntVar(&o.Repetitions, "repetitions", 1, "suggested repetitions")
	cmd.Flags().StringVar(&o.Notes, "notes", "", "notes (anxiety before/during/after, what you learned)")
}

func newExposureAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExposureOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a step to the exposure ladder",
		Long:    "Add a step to the exposure ladder. Steps are kept ordered by expected anxiety.",
		Example: `  presente exposure add --description "Saludar a un vecino" --anxiety 3`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := opts.formatter(cmd)
			return opts.withSession(cmd, func(ctx context.Context, s *session) error {
				step, err := s.journal.AddExposure(ctx, journal.ExposureInput{
					Description:   opts.Description,
					TargetAnxiety: opts.Anxiety,
					Repetitions:   opts.Repetitions,
					Notes:         opts.Notes,
				})
				if err != nil {
					return WrapExitError(ExitFailure, "failed to add exposure step", err)
				}
				return out.Success(exposureView{steps: []model.ExposureStep{step}})
			})
		},
	}
	opts.bind(cmd)
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func newExposureListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the exposure ladder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)
			return rootOpts.withSession(cmd, func(ctx context.Context, s *session) error {
				return out.Success(exposureView{steps: s.journal.Exposures(ctx), summary: true})
			})
		},
	}
}

func newExposureEditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExposureOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an exposure step",
		Long:  "Change fields of an exposure step. The step keeps its place in the ladder.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := opts.formatter(cmd)
			return opts.withSession(cmd, func(ctx context.Context, s *session) error {
				steps := s.journal.Exposures(ctx)
				idx := model.IndexOf(steps, args[0])
				if idx < 0 {
					return WrapExitError(ExitFailure, "failed to edit exposure step", fmt.Errorf("%w: %s", journal.ErrNotFound, args[0]))
				}
				step := steps[idx]
				flags := cmd.Flags()
				setIfChanged(flags.Changed("description"), &step.Description, opts.Description)
				setIfChanged(flags.Changed("anxiety"), &step.TargetAnxiety, opts.Anxiety)
				setIfChanged(flags.Changed("repetitions"), &step.Repetitions, opts.Repetitions)
				setIfChanged(flags.Changed("notes"), &step.Notes, opts.Notes)
				setIfChanged(flags.Changed("completed"), &step.Completed, opts.Completed)

				if err := s.journal.EditExposure(ctx, step); err != nil {
					return WrapExitError(ExitFailure, "failed to edit exposure step", err)
				}
				return out.Success(exposureView{steps: []model.ExposureStep{step}})
			})
		},
	}
	opts.bind(cmd)
	cmd.Flags().BoolVar(&opts.Completed, "completed", false, "mark the step completed")
	return cmd
}

func newExposureToggleCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark an exposure step completed, or not completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)
			return rootOpts.withSession(cmd, func(ctx context.Context, s *session) error {
				completed, err := s.journal.ToggleExposure(ctx, args[0])
				if err != nil {
					return WrapExitError(ExitFailure, "failed to toggle exposure step", err)
				}
				return out.Success(toggled{ID: args[0], Completed: completed})
			})
		},
	}
}

func newExposureDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an exposure step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)
			return rootOpts.withSession(cmd, func(ctx context.Context, s *session) error {
				if err := s.journal.DeleteExposure(ctx, args[0]); err != nil {
					return WrapExitError(ExitFailure, "failed to delete exposure step", err)
				}
				return out.Success(deleted{ID: args[0]})
			})
		},
	}
}

// exposureView renders exposure steps, with the completion bar when summary is set.
type exposureView struct {
	steps   []model.ExposureStep
	summary bool
}

func (v exposureView) MarshalJSON() ([]byte, error) {
	return marshalList(v.steps)
}

func (v exposureView) RenderText(w io.Writer) {
	if len(v.steps) == 0 {
		fmt.Fprintln(w, "Tu pirámide de exposición está vacía.")
		return
	}
	done := 0
	for _, s := range v.steps {
		mark := " "
		if s.Completed {
			mark = "x"
			done++
		}
		fmt.Fprintf(w, "[%s] %s  %s  ansiedad %d/10, repeticiones %d\n", mark, s.ID, s.Description, s.TargetAnxiety, s.Repetitions)
		field(w, "Notas", s.Notes)
	}
	if v.summary {
		fmt.Fprintf(w, "Progreso en la pirámide: %d%%\n", journal.Percent(done, len(v.steps)))
	}
}

type toggled struct {
	ID        string `json:"id"`
	Completed bool   `json:"completed"`
}

func (t toggled) RenderText(w io.Writer) {
	if t.Completed {
		fmt.Fprintf(w, "Completado: %s\n", t.ID)
		return
	}
	fmt.Fprintf(w, "Desmarcado: %s\n", t.ID)
}
