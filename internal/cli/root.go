package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Imhotep-Tech/imhotep-tasks/internal/calendar"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/model"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string
	Database   string
	Owner      string

	// Calendar, IDs and Now override the system calendar, UUIDv7 IDs and
	// the wall clock (for testing). Nil means the production default.
	Calendar calendar.Calendar
	IDs      model.IDGenerator
	Now      func() time.Time

	// LogWriter receives slog output. Defaults to the command's stderr.
	LogWriter io.Writer
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the imhotep CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "imhotep",
		Short: "Imhotep - tasks and recurring routines",
		Long: `Track tasks and the routines that create them.

A routine fires on weekdays, days of the month, or dates of the year. Listing
today's or this week's tasks materializes every routine that fires today,
once. "imhotep apply" fires them again on demand.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				msg := fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
				fmt.Fprintf(cmd.ErrOrStderr(), "Error [%s]: %s\n", ErrCodeInvalidArg, msg)
				return NewExitError(ExitCommandError, msg)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default: .imhotep.yaml in the working or home directory)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides database.path)")
	cmd.PersistentFlags().StringVar(&opts.Owner, "owner", "", "owner whose routines and tasks to use (overrides owner)")

	// Add subcommands
	cmd.AddCommand(NewRoutineCommand(opts))
	cmd.AddCommand(NewTasksCommand(opts))
	cmd.AddCommand(NewApplyCommand(opts))

	return cmd
}

// Execute runs the root command against os.Args and returns the exit code.
// Command errors are reported by the commands themselves; argument and flag
// errors from cobra are printed here.
func Execute() int {
	cmd := NewRootCommand()
	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return ExitCommandError
	}
	return exitErr.Code
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
