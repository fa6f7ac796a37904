package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/roach88/presente/internal/model"
)

// PrefsOptions holds flags for the prefs set command.
type PrefsOptions struct {
	*RootOptions
	Timezone string
	Reminder string
}

// NewPrefsCommand creates the prefs command.
func NewPrefsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show the stored preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)
			return rootOpts.withSession(cmd, func(ctx context.Context, s *session) error {
				return out.Success(prefsView(s.journal.Preferences(ctx)))
			})
		},
	}
	cmd.AddCommand(newPrefsSetCommand(rootOpts))
	return cmd
}

func newPrefsSetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PrefsOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change stored preferences",
		Long: `Change stored preferences. Only the given flags change; an empty value
clears a preference.

The timezone defines civil days when $PRESENTE_TIMEZONE is unset. The
reminder is the default schedule of "presente remind".`,
		Example: `  presente prefs set --timezone America/Mexico_City
  presente prefs set --reminder "30 20 * * *"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("timezone") && !flags.Changed("reminder") {
				return NewExitError(ExitCommandError, "nothing to change: use --timezone or --reminder")
			}
			if flags.Changed("reminder") && opts.Reminder != "" {
				if _, err := cron.ParseStandard(opts.Reminder); err != nil {
					return WrapExitError(ExitCommandError, fmt.Sprintf("invalid schedule %q", opts.Reminder), err)
				}
			}

			out := opts.formatter(cmd)
			return opts.withSession(cmd, func(ctx context.Context, s *session) error {
				prefs := s.journal.Preferences(ctx)
				if flags.Changed("timezone") {
					prefs.Timezone = opts.Timezone
				}
				if flags.Changed("reminder") {
					prefs.DailyReminder = opts.Reminder
				}
				if err := s.journal.SetPreferences(ctx, prefs); err != nil {
					return WrapExitError(ExitFailure, "failed to set preferences", err)
				}
				return out.Success(prefsView(prefs))
			})
		},
	}
	cmd.Flags().StringVar(&opts.Timezone, "timezone", "", "IANA timezone, e.g. Europe/Madrid")
	cmd.Flags().StringVar(&opts.Reminder, "reminder", "", "daily reminder cron schedule")
	return cmd
}

type prefsView model.Preferences

func (v prefsView) RenderText(w io.Writer) {
	fmt.Fprintf(w, "Zona horaria: %s\n", orDefault(v.Timezone, "(local)"))
	fmt.Fprintf(w, "Recordatorio diario: %s\n", orDefault(v.DailyReminder, "(predeterminado)"))
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
