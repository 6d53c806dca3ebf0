package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Imhotep-Tech/imhotep-tasks/internal/agenda"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/calendar"
)

// NewTasksCommand creates the tasks command group.
func NewTasksCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List and edit tasks",
		Long: `List and edit tasks.

"today" and "week" first create today's routine tasks, once per routine and
day. "all" and "search" only read.`,
	}

	cmd.AddCommand(newViewCommand(rootOpts, "today", "Tasks due today and pending tasks from earlier days", cobra.NoArgs,
		func(ctx context.Context, a *app, _ []string) (agenda.View, error) {
			return a.svc.Today(ctx, a.owner)
		}))
	cmd.AddCommand(newViewCommand(rootOpts, "week", "Tasks due in the next 7 days", cobra.NoArgs,
		func(ctx context.Context, a *app, _ []string) (agenda.View, error) {
			return a.svc.NextWeek(ctx, a.owner)
		}))
	cmd.AddCommand(newViewCommand(rootOpts, "all", "Every task", cobra.NoArgs,
		func(ctx context.Context, a *app, _ []string) (agenda.View, error) {
			return a.svc.All(ctx, a.owner)
		}))
	cmd.AddCommand(newViewCommand(rootOpts, "search <term>", "Tasks whose title contains a term", cobra.ExactArgs(1),
		func(ctx context.Context, a *app, args []string) (agenda.View, error) {
			return a.svc.Search(ctx, a.owner, args[0])
		}))

	cmd.AddCommand(newTaskAddCommand(rootOpts))
	cmd.AddCommand(newTaskUpdateCommand(rootOpts))
	cmd.AddCommand(newTaskCompleteCommand(rootOpts))
	cmd.AddCommand(newTaskDeleteCommand(rootOpts))

	return cmd
}

type viewFunc func(ctx context.Context, a *app, args []string) (agenda.View, error)

func newViewCommand(rootOpts *RootOptions, use, short string, nargs cobra.PositionalArgs, view viewFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  nargs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, a *app) error {
				v, err := view(ctx, a, args)
				if err != nil {
					return fail(a.out, "failed to list tasks", err)
				}
				return a.out.Success(newViewOut(v, a.svc.CurrentDate()))
			})
		},
	}
}

// parseDueFlag parses a --due value, reporting a bad one through out.
func parseDueFlag(out *OutputFormatter, s string) (calendar.Date, error) {
	d, err := calendar.ParseDate(s)
	if err != nil {
		_ = out.Error(ErrCodeInvalidArg, fmt.Sprintf("invalid --due: %v", err), nil)
		return calendar.Date{}, WrapExitError(ExitCommandError, "invalid --due", err)
	}
	return d, nil
}

func newTaskAddCommand(rootOpts *RootOptions) *cobra.Command {
	var title, details, due string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, a *app) error {
				in := agenda.TaskInput{Title: title, Details: details}
				if due != "" {
					d, err := parseDueFlag(a.out, due)
					if err != nil {
						return err
					}
					in.Due = &d
				}
				t, err := a.svc.AddTask(ctx, a.owner, in)
				if err != nil {
					return fail(a.out, "failed to add task", err)
				}
				return a.out.Success(newTaskOut(t))
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "task title (required)")
	cmd.Flags().StringVar(&details, "details", "", "task details")
	cmd.Flags().StringVar(&due, "due", "", "due date, YYYY-MM-DD (default today)")

	return cmd
}

func newTaskUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	var title, details, due string

	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Change a task's title, details or due date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, a *app) error {
				var p agenda.TaskPatch
				if cmd.Flags().Changed("title") {
					p.Title = &title
				}
				if cmd.Flags().Changed("details") {
					p.Details = &details
				}
				if cmd.Flags().Changed("due") {
					d, err := parseDueFlag(a.out, due)
					if err != nil {
						return err
					}
					p.Due = &d
				}
				t, err := a.svc.UpdateTask(ctx, a.owner, args[0], p)
				if err != nil {
					return fail(a.out, "failed to update task", err)
				}
				return a.out.Success(newTaskOut(t))
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&details, "details", "", "new details")
	cmd.Flags().StringVar(&due, "due", "", "new due date, YYYY-MM-DD")

	return cmd
}

func newTaskCompleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <task-id>",
		Short: "Mark a task done, or pending again if it is done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, a *app) error {
				t, err := a.svc.ToggleTask(ctx, a.owner, args[0])
				if err != nil {
					return fail(a.out, "failed to complete task", err)
				}
				return a.out.Success(newTaskOut(t))
			})
		},
	}
}

func newTaskDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, a *app) error {
				if err := a.svc.DeleteTask(ctx, a.owner, args[0]); err != nil {
					return fail(a.out, "failed to delete task", err)
				}
				return a.out.Success(message{Message: "Task deleted", ID: args[0]})
			})
		},
	}
}
