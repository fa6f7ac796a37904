package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// DefaultScenario is the role-play scenario used when none is given.
const DefaultScenario = "Estás en una cafetería y quieres preguntar si una silla está ocupada."

// NewQuoteCommand creates the quote command.
func NewQuoteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "quote",
		Short: "A short motivational quote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rootOpts.assistant()
			if err != nil {
				return err
			}
			return rootOpts.formatter(cmd).Success(quoteView{Quote: a.MotivationalQuote(cmd.Context())})
		},
	}
}

type quoteView struct {
	Quote string `json:"quote"`
}

func (v quoteView) RenderText(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\n", v.Quote)
}

// RolePlayOptions holds flags for the roleplay command.
type RolePlayOptions struct {
	*RootOptions
	Say string
}

// NewRolePlayCommand creates the roleplay command.
func NewRolePlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RolePlayOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "roleplay [scenario]",
		Short: "Practice a social conversation with the assistant",
		Long: `Practice a social conversation with the assistant, which plays the other
person. Give one line with --say, or type your lines on stdin.`,
		Example: `  presente roleplay --say "Disculpa, ¿está ocupada esta silla?"
  presente roleplay "Llamas a un restaurante para reservar una mesa."`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario := DefaultScenario
			if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
				scenario = args[0]
			}
			a, err := opts.assistant()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			conv := conversation{Scenario: scenario, Turns: []turn{}}
			if opts.Say != "" {
				conv.Turns = append(conv.Turns, turn{User: opts.Say, Reply: a.RolePlay(ctx, scenario, opts.Say)})
				return opts.formatter(cmd).Success(conv)
			}

			prompt := opts.promptWriter(cmd)
			fmt.Fprintf(prompt, "Escenario: %s\n", scenario)
			in := bufio.NewScanner(cmd.InOrStdin())
			for in.Scan() {
				line := strings.TrimSpace(in.Text())
				if line == "" {
					continue
				}
				t := turn{User: line, Reply: a.RolePlay(ctx, scenario, line)}
				conv.Turns = append(conv.Turns, t)
				if opts.Format == "text" {
					fmt.Fprintf(prompt, "Otra persona: %s\n", t.Reply)
				}
			}
			if opts.Format == "text" {
				fmt.Fprintf(prompt, "Fin de la práctica (%d turnos).\n", len(conv.Turns))
				return nil
			}
			return opts.formatter(cmd).Success(conv)
		},
	}
	cmd.Flags().StringVar(&opts.Say, "say", "", "a single line to say")
	return cmd
}

type turn struct {
	User  string `json:"user"`
	Reply string `json:"reply"`
}

type conversation struct {
	Scenario string `json:"scenario"`
	Turns    []turn `json:"turns"`
}

func (c conversation) RenderText(w io.Writer) {
	fmt.Fprintf(w, "Escenario: %s\n", c.Scenario)
	for _, t := range c.Turns {
		fmt.Fprintf(w, "Tú: %s\n", t.User)
		fmt.Fprintf(w, "Otra persona: %s\n", t.Reply)
	}
}
