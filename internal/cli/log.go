package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/presente/internal/journal"
	"github.com/roach88/presente/internal/model"
)

// LogOptions holds flags for the log subcommands.
type LogOptions struct {
	*RootOptions
	Situation string
	Thoughts  string
	Feelings  string
	Actions   string
	Anxiety   int
}

// NewLogCommand creates the log command group.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Emotional log (bitácora emocional)",
	}
	cmd.AddCommand(newLogAddCommand(rootOpts))
	cmd.AddCommand(newLogListCommand(rootOpts))
	cmd.AddCommand(newLogEditCommand(rootOpts))
	cmd.AddCommand(newLogDeleteCommand(rootOpts))
	return cmd
}

func (o *LogOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Situation, "situation", "", "what happened")
	cmd.Flags().StringVar(&o.Thoughts, "thoughts", "", "what you thought")
	cmd.Flags().StringVar(&o.Feelings, "feelings", "", "what you felt")
	cmd.Flags().StringVar(&o.Actions, "actions", "", "what you did")
	cmd.Flags().IntVar(&o.Anxiety, "anxiety", 5, "anxiety level (0-10)")
}

func newLogAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an entry to the emotional log",
		Example: `  presente log add --situation "Reunión de equipo" --thoughts "Van a juzgarme" \
    --feelings "Nervios" --actions "Hablé poco" --anxiety 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := opts.formatter(cmd)
			return opts.withSession(cmd, func(ctx context.Context, s *session) error {
				entry, err := s.journal.AddLog(ctx, journal.LogInput{
					Situation:    opts.Situation,
					Thoughts:     opts.Thoughts,
					Feelings:     opts.Feelings,
					Actions:      opts.Actions,
					AnxietyLevel: opts.Anxiety,
				})
				if err != nil {
					return WrapExitError(ExitFailure, "failed to add log entry", err)
				}
				return out.Success(logView{entries: []model.EmotionalLogEntry{entry}, loc: s.loc})
			})
		},
	}
	opts.bind(cmd)
	for _, name := range []string{"situation", "thoughts", "feelings", "actions"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newLogListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List emotional log entries, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)
			return rootOpts.withSession(cmd, func(ctx context.Context, s *session) error {
				return out.Success(logView{entries: s.journal.Logs(ctx), loc: s.loc})
			})
		},
	}
}

func newLogEditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a log entry",
		Long: `Change fields of a log entry. Only the flags given are changed;
the entry keeps its id and date.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := opts.formatter(cmd)
			return opts.withSession(cmd, func(ctx context.Context, s *session) error {
				logs := s.journal.Logs(ctx)
				idx := model.IndexOf(logs, args[0])
				if idx < 0 {
					return WrapExitError(ExitFailure, "failed to edit log entry", fmt.Errorf("%w: %s", journal.ErrNotFound, args[0]))
				}
				entry := logs[idx]
				flags := cmd.Flags()
				setIfChanged(flags.Changed("situation"), &entry.Situation, opts.Situation)
				setIfChanged(flags.Changed("thoughts"), &entry.Thoughts, opts.Thoughts)
				setIfChanged(flags.Changed("feelings"), &entry.Feelings, opts.Feelings)
				setIfChanged(flags.Changed("actions"), &entry.Actions, opts.Actions)
				setIfChanged(flags.Changed("anxiety"), &entry.AnxietyLevel, opts.Anxiety)

				if err := s.journal.EditLog(ctx, entry); err != nil {
					return WrapExitError(ExitFailure, "failed to edit log entry", err)
				}
				return out.Success(logView{entries: []model.EmotionalLogEntry{entry}, loc: s.loc})
			})
		},
	}
	opts.bind(cmd)
	return cmd
}

func newLogDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a log entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)
			return rootOpts.withSession(cmd, func(ctx context.Context, s *session) error {
				if err := s.journal.DeleteLog(ctx, args[0]); err != nil {
					return WrapExitError(ExitFailure, "failed to delete log entry", err)
				}
				return out.Success(deleted{ID: args[0]})
			})
		},
	}
}

func setIfChanged[T any](changed bool, dst *T, v T) {
	if changed {
		*dst = v
	}
}

// logView renders emotional log entries.
type logView struct {
	entries []model.EmotionalLogEntry
	loc     *time.Location
}

func (v logView) MarshalJSON() ([]byte, error) {
	return marshalList(v.entries)
}

func (v logView) RenderText(w io.Writer) {
	if len(v.entries) == 0 {
		fmt.Fprintln(w, "Aún no has registrado ninguna entrada.")
		return
	}
	for i, e := range v.entries {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s  %s  ansiedad %d/10\n", e.ID, formatDate(e.Date, v.loc), e.AnxietyLevel)
		field(w, "Situación", e.Situation)
		field(w, "Pensamientos", e.Thoughts)
		field(w, "Sentimientos", e.Feelings)
		field(w, "Acciones", e.Actions)
	}
}

// deleted is the result of a delete command.
type deleted struct {
	ID string `json:"id"`
}

func (d deleted) RenderText(w io.Writer) {
	fmt.Fprintf(w, "Eliminado: %s\n", d.ID)
}

func field(w io.Writer, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(w, "  %s: %s\n", label, value)
}

func formatDate(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("2006-01-02 15:04")
}
