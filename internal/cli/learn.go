package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/presente/internal/journal"
)

// NewChallengeCommand creates the challenge command.
func NewChallengeCommand(rootOpts *RootOptions) *cobra.Command {
	var another bool
	cmd := &cobra.Command{
		Use:   "challenge",
		Short: "Show today's social mini-challenge",
		Long: `Show today's social mini-challenge. Every day has its own challenge;
--another picks a different one at random.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)
			return rootOpts.withSession(cmd, func(ctx context.Context, s *session) error {
				c := s.journal.DailyChallenge()
				if another {
					c = journal.OtherChallenge(c, rootOpts.Rand)
				}
				return out.Success(challengeView{Challenge: c})
			})
		},
	}
	cmd.Flags().BoolVar(&another, "another", false, "show a different challenge")
	return cmd
}

type challengeView struct {
	Challenge string `json:"challenge"`
}

func (v challengeView) RenderText(w io.Writer) {
	fmt.Fprintln(w, "Mini Reto Diario")
	fmt.Fprintln(w, "Intenta completar este pequeño reto hoy para practicar tus habilidades sociales.")
	fmt.Fprintf(w, "  %s\n", v.Challenge)
}

// NewLearnCommand creates the learn command.
func NewLearnCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "learn [term]",
		Short: "Search the educational articles and videos",
		Long: `Search the educational articles and videos by title, summary or tag.
Without a term every resource is listed.`,
		Example: `  presente learn
  presente learn respiración
  presente learn show 3`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			found := journal.SearchResources(strings.Join(args, " "))
			return rootOpts.formatter(cmd).Success(resourceList(found))
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, ok := journal.ResourceByID(args[0])
			if !ok {
				return NewExitError(ExitCommandError, fmt.Sprintf("resource %q not found", args[0]))
			}
			return rootOpts.formatter(cmd).Success(resourceView(r))
		},
	})
	return cmd
}

type resourceList []journal.Resource

func (l resourceList) RenderText(w io.Writer) {
	if len(l) == 0 {
		fmt.Fprintln(w, "No se encontraron recursos que coincidan con tu búsqueda.")
		return
	}
	for _, r := range l {
		fmt.Fprintf(w, "%s  [%s] %s\n", r.ID, kindLabel(r.Kind), r.Title)
		fmt.Fprintf(w, "   %s\n", r.Summary)
		fmt.Fprintf(w, "   Etiquetas: %s\n", strings.Join(r.Tags, ", "))
	}
}

type resourceView journal.Resource

func (v resourceView) RenderText(w io.Writer) {
	r := journal.Resource(v)
	fmt.Fprintf(w, "%s (%s)\n", r.Title, kindLabel(r.Kind))
	fmt.Fprintln(w, r.Body())
	fmt.Fprintf(w, "Etiquetas: %s\n", strings.Join(r.Tags, ", "))
}

func kindLabel(kind string) string {
	if kind == journal.ResourceVideo {
		return "video"
	}
	return "artículo"
}
