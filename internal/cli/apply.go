package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Imhotep-Tech/imhotep-tasks/internal/calendar"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/engine"
)

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		date string
		auto bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create tasks for the routines that fire on a date",
		Long: `Create tasks for the routines that fire on a date (default today).

By default every firing routine creates a task, even one that already created
a task for that date. With --auto a routine creates at most one task per date,
the same as listing today's tasks does.

Routines fail one at a time: a broken routine is reported and the others still
create their tasks. The exit code is 1 if any routine failed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, a *app) error {
				target := a.svc.CurrentDate()
				if date != "" {
					d, err := calendar.ParseDate(date)
					if err != nil {
						_ = a.out.Error(ErrCodeInvalidArg, fmt.Sprintf("invalid --date: %v", err), nil)
						return WrapExitError(ExitCommandError, "invalid --date", err)
					}
					target = d
				}

				mode := engine.ModeManual
				if auto {
					mode = engine.ModeAuto
				}
				a.out.VerboseLog("Applying routines for %s (%s) as %q", target, mode, a.owner)

				res, err := a.svc.ApplyOn(ctx, a.owner, target, mode)
				if err != nil {
					return fail(a.out, "failed to apply routines", err)
				}

				out := newApplyOut(target, mode, res)
				if len(res.Errors) > 0 {
					_ = a.out.Partial(out, ErrCodeApplyFailed, fmt.Sprintf("%d routine(s) failed to apply", len(res.Errors)), nil)
					return WrapExitError(ExitFailure, "some routines failed to apply", res.Err())
				}
				return a.out.Success(out)
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date to apply, YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&auto, "auto", false, "create at most one task per routine and date")

	return cmd
}
