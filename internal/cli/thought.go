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

// ThoughtOptions holds flags for the thought subcommands.
type ThoughtOptions struct {
	*RootOptions
	Situation       string
	Thought         string
	Emotion         string
	EvidenceFor     string
	EvidenceAgainst string
	Alternative     string
	Outcome         string
	Suggest         bool
}

// NewThoughtCommand creates the thought command group.
func NewThoughtCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "thought",
		Short: "Thought records (reestructuración cognitiva)",
	}
	cmd.AddCommand(newThoughtAddCommand(rootOpts))
	cmd.AddCommand(newThoughtListCommand(rootOpts))
	cmd.AddCommand(newThoughtEditCommand(rootOpts))
	cmd.AddCommand(newThoughtDeleteCommand(rootOpts))
	return cmd
}

func (o *ThoughtOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Situation, "situation", "", "the situation")
	cmd.Flags().StringVar(&o.Thought, "thought", "", "the automatic negative thought")
	cmd.Flags().StringVar(&o.Emotion, "emotion", "", "main emotion(s)")
	cmd.Flags().StringVar(&o.EvidenceFor, "evidence-for", "", "evidence supporting the thought")
	cmd.Flags().StringVar(&o.EvidenceAgainst, "evidence-against", "", "evidence against the thought")
	cmd.Flags().StringVar(&o.Alternative, "alternative", "", "a balanced alternative thought")
	cmd.Flags().StringVar(&o.Outcome, "outcome", "", "how you feel now")
}

func (o *ThoughtOptions) input() journal.ThoughtInput {
	return journal.ThoughtInput{
		Situation:          o.Situation,
		AutomaticThought:   o.Thought,
		Emotion:            o.Emotion,
		EvidenceFor:        o.EvidenceFor,
		EvidenceAgainst:    o.EvidenceAgainst,
		AlternativeThought: o.Alternative,
		Outcome:            o.Outcome,
	}
}

func newThoughtAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ThoughtOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a thought record",
		Long: `Add a thought record. --situation, --thought and --alternative are required.

With --suggest the assistant first offers guidance for challenging the
automatic thought. When --alternative is omitted together with --suggest,
only the guidance is printed and nothing is saved.`,
		Example: `  presente thought add --situation "Presentación" --thought "Voy a hacer el ridículo" --suggest
  presente thought add --situation "Presentación" --thought "Voy a hacer el ridículo" \
    --alternative "Me he preparado y puedo hacerlo bien"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runThoughtAdd(opts, cmd)
		},
	}
	opts.bind(cmd)
	cmd.Flags().BoolVar(&opts.Suggest, "suggest", false, "ask the assistant for guidance")
	return cmd
}

func runThoughtAdd(opts *ThoughtOptions, cmd *cobra.Command) error {
	if strings.TrimSpace(opts.Thought) == "" {
		return NewExitError(ExitCommandError, "--thought is required")
	}
	saving := !opts.Suggest || opts.Alternative != ""
	if saving && (strings.TrimSpace(opts.Situation) == "" || strings.TrimSpace(opts.Alternative) == "") {
		return NewExitError(ExitCommandError, "--situation, --thought and --alternative are required")
	}

	out := opts.formatter(cmd)
	result := thoughtAddResult{}
	if opts.Suggest {
		a, err := opts.assistant()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		result.Guidance = a.CBTGuidance(ctx, model.ThoughtRecord{
			Situation:        opts.Situation,
			AutomaticThought: opts.Thought,
			Emotion:          opts.Emotion,
		})
	}
	if !saving {
		return out.Success(result)
	}

	return opts.withSession(cmd, func(ctx context.Context, s *session) error {
		rec, err := s.journal.AddThought(ctx, opts.input())
		if err != nil {
			return WrapExitError(ExitFailure, "failed to add thought record", err)
		}
		result.Record = &rec
		result.loc = s.loc
		return out.Success(result)
	})
}

func newThoughtListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List thought records, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)
			return rootOpts.withSession(cmd, func(ctx context.Context, s *session) error {
				return out.Success(thoughtView{records: s.journal.Thoughts(ctx), loc: s.loc})
			})
		},
	}
}

func newThoughtEditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ThoughtOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a thought record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := opts.formatter(cmd)
			return opts.withSession(cmd, func(ctx context.Context, s *session) error {
				records := s.journal.Thoughts(ctx)
				idx := model.IndexOf(records, args[0])
				if idx < 0 {
					return WrapExitError(ExitFailure, "failed to edit thought record", fmt.Errorf("%w: %s", journal.ErrNotFound, args[0]))
				}
				rec := records[idx]
				flags := cmd.Flags()
				setIfChanged(flags.Changed("situation"), &rec.Situation, opts.Situation)
				setIfChanged(flags.Changed("thought"), &rec.AutomaticThought, opts.Thought)
				setIfChanged(flags.Changed("emotion"), &rec.Emotion, opts.Emotion)
				setIfChanged(flags.Changed("evidence-for"), &rec.EvidenceFor, opts.EvidenceFor)
				setIfChanged(flags.Changed("evidence-against"), &rec.EvidenceAgainst, opts.EvidenceAgainst)
				setIfChanged(flags.Changed("alternative"), &rec.AlternativeThought, opts.Alternative)
				setIfChanged(flags.Changed("outcome"), &rec.Outcome, opts.Outcome)

				if err := s.journal.EditThought(ctx, rec); err != nil {
					return WrapExitError(ExitFailure, "failed to edit thought record", err)
				}
				return out.Success(thoughtView{records: []model.ThoughtRecord{rec}, loc: s.loc})
			})
		},
	}
	opts.bind(cmd)
	return cmd
}

func newThoughtDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a thought record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)
			return rootOpts.withSession(cmd, func(ctx context.Context, s *session) error {
				if err := s.journal.DeleteThought(ctx, args[0]); err != nil {
					return WrapExitError(ExitFailure, "failed to delete thought record", err)
				}
				return out.Success(deleted{ID: args[0]})
			})
		},
	}
}

// thoughtView renders thought records.
type thoughtView struct {
	records []model.ThoughtRecord
	loc     *time.Location
}

func (v thoughtView) MarshalJSON() ([]byte, error) {
	return marshalList(v.records)
}

func (v thoughtView) RenderText(w io.Writer) {
	if len(v.records) == 0 {
		fmt.Fprintln(w, "Aún no has creado ningún registro de pensamiento.")
		return
	}
	for i, r := range v.records {
		if i > 0 {
			fmt.Fprintln(w)
		}
		renderThought(w, r, v.loc)
	}
}

func renderThought(w io.Writer, r model.ThoughtRecord, loc *time.Location) {
	fmt.Fprintf(w, "%s  %s\n", r.ID, formatDate(r.Date, loc))
	field(w, "Situación", r.Situation)
	field(w, "Pensamiento automático", r.AutomaticThought)
	field(w, "Emoción", r.Emotion)
	field(w, "Evidencia a favor", r.EvidenceFor)
	field(w, "Evidencia en contra", r.EvidenceAgainst)
	field(w, "Pensamiento alternativo", r.AlternativeThought)
	field(w, "Resultado", r.Outcome)
}

// thoughtAddResult is the saved record and the optional guidance.
type thoughtAddResult struct {
	Guidance string               `json:"guidance,omitempty"`
	Record   *model.ThoughtRecord `json:"record,omitempty"`
	loc      *time.Location
}

func (r thoughtAddResult) RenderText(w io.Writer) {
	if r.Guidance != "" {
		fmt.Fprintln(w, r.Guidance)
	}
	if r.Record != nil {
		if r.Guidance != "" {
			fmt.Fprintln(w)
		}
		renderThought(w, *r.Record, r.loc)
	}
}
