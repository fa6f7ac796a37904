package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/roach88/presente/internal/assist"
	"github.com/roach88/presente/internal/journal"
)

// RemindOptions holds flags for the remind command.
type RemindOptions struct {
	*RootOptions
	Schedule string
	Once     bool
}

// NewRemindCommand creates the remind command.
func NewRemindCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RemindOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Print the daily suggestion and a quote on a schedule",
		Long: `Print the daily suggestion and a motivational quote on a cron schedule
until interrupted.

The schedule is --schedule, else the stored dailyReminder preference,
else $PRESENTE_REMIND_SCHEDULE (default "0 9 * * *").`,
		Example: `  presente remind
  presente remind --schedule "30 20 * * *"
  presente remind --once`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemind(opts, cmd)
		},
	}
	cmd.Flags().StringVar(&opts.Schedule, "schedule", "", "cron schedule (minute hour dom month dow)")
	cmd.Flags().BoolVar(&opts.Once, "once", false, "print one reminder now and exit")
	return cmd
}

func runRemind(opts *RemindOptions, cmd *cobra.Command) error {
	a, err := opts.assistant()
	if err != nil {
		return err
	}
	out := opts.formatter(cmd)
	logger := opts.Logger()

	return opts.withSession(cmd, func(ctx context.Context, s *session) error {
		send := func() {
			if err := out.Success(buildReminder(ctx, s.journal, a)); err != nil {
				logger.Error("failed to write reminder", "error", err)
			}
		}
		if opts.Once {
			send()
			return nil
		}

		spec := opts.Schedule
		if spec == "" {
			spec = s.journal.Preferences(ctx).DailyReminder
		}
		if spec == "" {
			spec = opts.Config.RemindSchedule
		}

		c := cron.New(cron.WithLocation(s.loc))
		if _, err := c.AddFunc(spec, send); err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("invalid schedule %q", spec), err)
		}
		c.Start()
		logger.Info("reminders scheduled", "schedule", spec)

		<-ctx.Done()
		<-c.Stop().Done()
		logger.Info("reminders stopped")
		return nil
	})
}

// buildReminder fetches the quote while the suggestion is read.
func buildReminder(ctx context.Context, svc *journal.Service, a *assist.Assistant) reminder {
	quote := assist.Async(ctx, a.Timeout(), assist.QuoteFallback, a.MotivationalQuote)
	r := reminder{
		Suggestion: svc.DailySuggestion(),
		Feeling:    string(svc.Feeling(ctx)),
	}
	r.Quote = <-quote
	return r
}

type reminder struct {
	Suggestion journal.Suggestion `json:"suggestion"`
	Feeling    string             `json:"feeling,omitempty"`
	Quote      string             `json:"quote"`
}

func (r reminder) RenderText(w io.Writer) {
	if r.Feeling == "" {
		fmt.Fprintln(w, "¿Cómo te sientes hoy? presente feeling set <sentimiento>")
	} else {
		fmt.Fprintf(w, "Te sientes: %s\n", r.Feeling)
	}
	renderSuggestion(w, r.Suggestion)
	fmt.Fprintf(w, "\"%s\"\n", r.Quote)
}
