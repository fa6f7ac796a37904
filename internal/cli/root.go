package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/presente/internal/assist"
	"github.com/roach88/presente/internal/config"
	"github.com/roach88/presente/internal/exercise"
	"github.com/roach88/presente/internal/journal"
)

// RootOptions holds global flags and the collaborators shared by all
// commands. The hooks default to production implementations; tests
// replace them.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Database string

	Config *config.Config

	Now       func() time.Time
	IDs       journal.IDGenerator
	Ticker    exercise.TickerFunc
	Completer assist.Completer
	Rand      func(n int) int // affirmation picker; nil uses math/rand/v2

	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the presente CLI.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWith(&RootOptions{})
}

// NewRootCommandWith creates the root command around opts.
func NewRootCommandWith(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presente",
		Short: "Presente - diario de ansiedad social",
		Long: `A personal self-help journal: emotional log, thought records,
graded exposure, achievements and short guided exercises.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return opts.init(cmd)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (default $PRESENTE_DB or presente.db)")

	cmd.AddCommand(NewLogCommand(opts))
	cmd.AddCommand(NewThoughtCommand(opts))
	cmd.AddCommand(NewExposureCommand(opts))
	cmd.AddCommand(NewFeelingCommand(opts))
	cmd.AddCommand(NewAchievementsCommand(opts))
	cmd.AddCommand(NewProgressCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewBreatheCommand(opts))
	cmd.AddCommand(NewAnchorCommand(opts))
	cmd.AddCommand(NewGroundCommand(opts))
	cmd.AddCommand(NewPanicCommand(opts))
	cmd.AddCommand(NewObserveCommand(opts))
	cmd.AddCommand(NewChallengeCommand(opts))
	cmd.AddCommand(NewLearnCommand(opts))
	cmd.AddCommand(NewQuoteCommand(opts))
	cmd.AddCommand(NewRolePlayCommand(opts))
	cmd.AddCommand(NewPrefsCommand(opts))
	cmd.AddCommand(NewRemindCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// init loads configuration and installs the logger. Flags win over the
// environment.
func (o *RootOptions) init(cmd *cobra.Command) error {
	if o.Config == nil {
		cfg, err := config.Load()
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load configuration", err)
		}
		o.Config = cfg
	}
	if o.Database == "" {
		o.Database = o.Config.DBPath
	}

	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}
	o.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(o.logger)
	return nil
}

// Logger returns the command logger, or a discarding one before init.
func (o *RootOptions) Logger() *slog.Logger {
	if o.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.logger
}

func (o *RootOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o *RootOptions) ticker() exercise.TickerFunc {
	if o.Ticker != nil {
		return o.Ticker
	}
	return exercise.RealTicker
}

// assistant builds the text-completion helper from the configured provider.
func (o *RootOptions) assistant() (*assist.Assistant, error) {
	c := o.Completer
	if c == nil {
		var err error
		c, err = assist.NewCompleter(o.Config.LLM)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to configure assistant", err)
		}
	}
	return assist.New(c, assist.WithTimeout(o.Config.LLM.Timeout), assist.WithLogger(o.Logger())), nil
}

// formatter returns an output formatter bound to cmd's writers.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// Execute runs the command tree with args and reports a failure through
// the output formatter. It returns the process exit code.
func Execute(ctx context.Context, opts *RootOptions, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := NewRootCommandWith(opts)
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Reported {
		return exitErr.Code
	}
	format := opts.Format
	if !isValidFormat(format) {
		format = "text"
	}
	out := &OutputFormatter{Format: format, Writer: stdout, ErrWriter: stderr, Verbose: opts.Verbose}
	_ = out.Error(ErrorCode(err), err.Error(), nil)
	return GetExitCode(err)
}
