package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/presente/internal/journal"
	"github.com/roach88/presente/internal/model"
	"github.com/roach88/presente/internal/store"
)

// NewFeelingCommand creates the feeling command.
func NewFeelingCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feeling",
		Short: "Show the current feeling",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)
			return rootOpts.withSession(cmd, func(ctx context.Context, s *session) error {
				return out.Success(feelingView{Feeling: s.journal.Feeling(ctx)})
			})
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:       "set <feeling>",
		Short:     "Set the current feeling",
		Long:      "Set the current feeling. One of: " + feelingNames() + ". An empty name clears it.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: feelingList(),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)
			f := matchFeeling(args[0])
			return rootOpts.withSession(cmd, func(ctx context.Context, s *session) error {
				if err := s.journal.SetFeeling(ctx, f); err != nil {
					return WrapExitError(ExitFailure, "failed to set feeling", err)
				}
				return out.Success(feelingView{Feeling: f})
			})
		},
	})
	return cmd
}

// matchFeeling resolves name case-insensitively; unknown names pass
// through so the store rejects them.
func matchFeeling(name string) model.Feeling {
	for _, f := range model.Feelings {
		if strings.EqualFold(string(f), name) {
			return f
		}
	}
	return model.Feeling(name)
}

func feelingList() []string {
	out := make([]string, 0, len(model.Feelings))
	for _, f := range model.Feelings {
		out = append(out, string(f))
	}
	return out
}

func feelingNames() string {
	return strings.Join(feelingList(), ", ")
}

type feelingView struct {
	Feeling model.Feeling `json:"feeling"`
}

func (v feelingView) RenderText(w io.Writer) {
	if v.Feeling == model.FeelingUnselected {
		fmt.Fprintln(w, "¿Cómo te sientes hoy? (sin seleccionar)")
		return
	}
	fmt.Fprintf(w, "Te sientes: %s\n", v.Feeling)
}

// NewAchievementsCommand creates the achievements command.
func NewAchievementsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "achievements",
		Short: "List achievements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)
			return rootOpts.withSession(cmd, func(ctx context.Context, s *session) error {
				return out.Success(achievementsView{achievements: s.journal.Achievements(ctx), loc: s.loc})
			})
		},
	}
}

type achievementsView struct {
	achievements []model.Achievement
	loc          *time.Location
}

func (v achievementsView) MarshalJSON() ([]byte, error) {
	return marshalList(v.achievements)
}

func (v achievementsView) RenderText(w io.Writer) {
	unlocked := 0
	for _, a := range v.achievements {
		status := "bloqueado"
		if a.Unlocked {
			unlocked++
			status = "desbloqueado"
			if a.DateUnlocked != nil {
				status += " el " + formatDate(*a.DateUnlocked, v.loc)
			}
		}
		fmt.Fprintf(w, "%s %s (%s)\n", a.Icon, a.Title, status)
		fmt.Fprintf(w, "  %s\n", a.Description)
	}
	fmt.Fprintf(w, "Progreso de logros: %d%%\n", journal.Percent(unlocked, len(v.achievements)))
}

// NewProgressCommand creates the progress command.
func NewProgressCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show the dashboard: weekly activity, progress and today's suggestion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)
			return rootOpts.withSession(cmd, func(ctx context.Context, s *session) error {
				return out.Success(dashboard{
					Progress:   s.journal.Progress(ctx),
					Feeling:    s.journal.Feeling(ctx),
					Suggestion: s.journal.DailySuggestion(),
				})
			})
		},
	}
}

type dashboard struct {
	Progress   journal.Progress   `json:"progress"`
	Feeling    model.Feeling      `json:"feeling"`
	Suggestion journal.Suggestion `json:"suggestion"`
}

func (d dashboard) RenderText(w io.Writer) {
	p := d.Progress
	if d.Feeling != model.FeelingUnselected {
		fmt.Fprintf(w, "Te sientes: %s\n", d.Feeling)
	}
	fmt.Fprintf(w, "Registros en bitácora (semana): %d\n", p.LogsThisWeek)
	fmt.Fprintf(w, "Pensamientos reestructurados (semana): %d\n", p.ThoughtsThisWeek)
	fmt.Fprintf(w, "Progreso general estimado: %d%%\n", p.Overall)
	fmt.Fprintf(w, "Pirámide de exposición: %d/%d (%d%%)\n", p.ExposureCompleted, p.ExposureTotal, p.ExposurePercent)
	fmt.Fprintf(w, "Logros: %d/%d (%d%%)\n", p.AchievementsUnlocked, p.AchievementsTotal, p.AchievementsPercent)
	fmt.Fprintln(w)
	renderSuggestion(w, d.Suggestion)
}

func renderSuggestion(w io.Writer, s journal.Suggestion) {
	fmt.Fprintf(w, "Sugerencia del día: %s\n", s.Title)
	fmt.Fprintf(w, "  %s\n", s.Description)
	fmt.Fprintf(w, "  %s: %s\n", s.ActionText, s.Command)
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history <key>",
		Short: "Show the committed revisions of a slot",
		Long:  "Show the committed revisions of a slot. Keys: " + strings.Join(journal.Keys, ", "),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if !slices.Contains(journal.Keys, key) {
				return NewExitError(ExitCommandError, fmt.Sprintf("unknown key %q", key))
			}
			out := rootOpts.formatter(cmd)
			return rootOpts.withSession(cmd, func(ctx context.Context, s *session) error {
				revs, err := s.journal.History(ctx, key)
				if err != nil {
					return WrapExitError(ExitCommandError, "failed to read history", err)
				}
				return out.Success(historyView(revs))
			})
		},
	}
}

type historyView []store.Revision

type revisionJSON struct {
	Seq     int64           `json:"seq"`
	Key     string          `json:"key"`
	Hash    string          `json:"hash"`
	Payload json.RawMessage `json:"payload"`
}

func (v historyView) MarshalJSON() ([]byte, error) {
	out := make([]revisionJSON, 0, len(v))
	for _, r := range v {
		out = append(out, revisionJSON{Seq: r.Seq, Key: r.Key, Hash: r.Hash, Payload: r.Payload})
	}
	return json.Marshal(out)
}

func (v historyView) RenderText(w io.Writer) {
	if len(v) == 0 {
		fmt.Fprintln(w, "No revisions.")
		return
	}
	for _, r := range v {
		fmt.Fprintf(w, "%6d  %s  %d bytes\n", r.Seq, r.Hash, len(r.Payload))
	}
}
