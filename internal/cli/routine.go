package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Imhotep-Tech/imhotep-tasks/internal/agenda"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/model"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/recurrence"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/routinefile"
)

// NewRoutineCommand creates the routine command group.
func NewRoutineCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routine",
		Short: "Manage recurring routines",
		Long: `Manage routines: recurring definitions that create tasks.

Types and their dates:
  weekly   weekday names, lowercase (monday ... sunday)
  monthly  day numbers without padding (1 ... 31)
  yearly   MM-DD (01-01 ... 12-31, 02-29 fires in leap years only)

Only yearly dates are checked when a routine is saved. Weekly and monthly
dates are stored as given; a date that is not in the forms above never fires.`,
	}

	cmd.AddCommand(newRoutineAddCommand(rootOpts))
	cmd.AddCommand(newRoutineListCommand(rootOpts))
	cmd.AddCommand(newRoutineUpdateCommand(rootOpts))
	cmd.AddCommand(newRoutineDeleteCommand(rootOpts))
	cmd.AddCommand(newRoutineToggleCommand(rootOpts))
	cmd.AddCommand(newRoutineValidateCommand(rootOpts))
	cmd.AddCommand(newRoutineImportCommand(rootOpts))

	return cmd
}

// financeFlags holds the optional pass-through fields.
type financeFlags struct {
	price, currency, category, status string
}

func (f *financeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.price, "price", "", "transaction amount copied to created tasks")
	cmd.Flags().StringVar(&f.currency, "currency", "", "transaction currency")
	cmd.Flags().StringVar(&f.category, "category", "", "transaction category")
	cmd.Flags().StringVar(&f.status, "status", "", "transaction status (e.g. expense, income)")
}

func (f *financeFlags) finance() model.Finance {
	return model.Finance{Price: f.price, Currency: f.currency, Category: f.category, Status: f.status}
}

func newRoutineAddCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		title   string
		kind    string
		dates   []string
		paused  bool
		finance financeFlags
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a routine",
		Long: `Add a routine.

Example:
  imhotep routine add --title "Standup" --type weekly --dates monday,wednesday,friday
  imhotep routine add --title "Pay rent" --type monthly --dates 1 --price 900 --currency EUR
  imhotep routine add --title "Leap party" --type yearly --dates 02-29`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, a *app) error {
				r, err := a.svc.AddRoutine(ctx, a.owner, agenda.RoutineInput{
					Title:    title,
					Kind:     recurrence.Kind(kind),
					Schedule: dates,
					Finance:  finance.finance(),
					Paused:   paused,
				})
				if err != nil {
					return fail(a.out, "failed to add routine", err)
				}
				return a.out.Success(newRoutineOut(r))
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "routine title (required)")
	cmd.Flags().StringVar(&kind, "type", "", "weekly, monthly or yearly (required)")
	cmd.Flags().StringSliceVar(&dates, "dates", nil, "comma-separated dates (required)")
	cmd.Flags().BoolVar(&paused, "paused", false, "create the routine inactive")
	finance.register(cmd)

	return cmd
}

func newRoutineListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List routines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, a *app) error {
				rs, err := a.svc.ListRoutines(ctx, a.owner)
				if err != nil {
					return fail(a.out, "failed to list routines", err)
				}
				out := make(routineList, len(rs))
				for i, r := range rs {
					out[i] = newRoutineOut(r)
				}
				return a.out.Success(out)
			})
		},
	}
}

func newRoutineUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		title   string
		kind    string
		dates   []string
		finance financeFlags
	)

	cmd := &cobra.Command{
		Use:   "update <routine-id>",
		Short: "Change a routine",
		Long: `Change a routine. Only the flags given are changed.

New dates are checked as MM-DD when the routine is yearly or becomes yearly.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p agenda.RoutinePatch
			flags := cmd.Flags()
			if flags.Changed("title") {
				p.Title = &title
			}
			if flags.Changed("type") {
				k := recurrence.Kind(kind)
				p.Kind = &k
			}
			if flags.Changed("dates") {
				p.Schedule = &dates
			}
			if flags.Changed("price") {
				p.Price = &finance.price
			}
			if flags.Changed("currency") {
				p.Currency = &finance.currency
			}
			if flags.Changed("category") {
				p.Category = &finance.category
			}
			if flags.Changed("status") {
				p.Status = &finance.status
			}

			return withApp(rootOpts, cmd, func(ctx context.Context, a *app) error {
				r, err := a.svc.UpdateRoutine(ctx, a.owner, args[0], p)
				if err != nil {
					return fail(a.out, "failed to update routine", err)
				}
				return a.out.Success(newRoutineOut(r))
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&kind, "type", "", "new type: weekly, monthly or yearly")
	cmd.Flags().StringSliceVar(&dates, "dates", nil, "new comma-separated dates")
	finance.register(cmd)

	return cmd
}

func newRoutineDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <routine-id>",
		Short: "Delete a routine (tasks it created are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, a *app) error {
				if err := a.svc.DeleteRoutine(ctx, a.owner, args[0]); err != nil {
					return fail(a.out, "failed to delete routine", err)
				}
				return a.out.Success(message{Message: "Routine deleted", ID: args[0]})
			})
		},
	}
}

func newRoutineToggleCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <routine-id>",
		Short: "Pause or resume a routine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, a *app) error {
				r, err := a.svc.ToggleRoutine(ctx, a.owner, args[0])
				if err != nil {
					return fail(a.out, "failed to toggle routine", err)
				}
				return a.out.Success(newRoutineOut(r))
			})
		},
	}
}

// fileReport is the result of checking a routine file.
type fileReport struct {
	Valid    bool              `json:"valid"`
	Format   string            `json:"format,omitempty"`
	Routines int               `json:"routines"`
	Imported []routineOut      `json:"imported,omitempty"`
	Errors   []fileReportError `json:"errors,omitempty"`
}

type fileReportError struct {
	Code    string `json:"code"`
	Name    string `json:"name,omitempty"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`
}

func loadRoutineFile(path string, out *OutputFormatter) (*routinefile.Result, fileReport) {
	res, errs := routinefile.Load(path)

	report := fileReport{Valid: len(errs) == 0}
	if res != nil {
		report.Format = string(res.Format)
		report.Routines = len(res.Definitions)
		out.VerboseLog("Loaded %d routine(s) from %d file(s) in %s", len(res.Definitions), res.FileCount, path)
	}
	for _, err := range errs {
		fe := fileReportError{Code: routinefile.ErrCodeGeneric, Message: err.Error()}
		var le *routinefile.LoadError
		if errors.As(err, &le) {
			fe = fileReportError{Code: le.Code, Name: le.Name, File: le.File, Line: le.Line, Message: le.Message}
		}
		report.Errors = append(report.Errors, fe)
	}
	return res, report
}

// RenderText implements textRenderer.
func (r fileReport) RenderText(w io.Writer) {
	p := newPalette(w)
	for _, e := range r.Errors {
		loc := e.File
		if e.Line > 0 {
			loc = fmt.Sprintf("%s:%d", e.File, e.Line)
		}
		name := ""
		if e.Name != "" {
			name = fmt.Sprintf(" routine %q:", e.Name)
		}
		if loc != "" {
			loc += ": "
		}
		fmt.Fprintf(w, "%s %s%s%s %s\n", p.overdue.Render("!"), loc, e.Code, name, e.Message)
	}
	for _, out := range r.Imported {
		fmt.Fprintf(w, "%s %s  %s\n", p.done.Render("+"), out.ID, out.Title)
	}
	switch {
	case !r.Valid:
		fmt.Fprintf(w, "%d error(s), %d valid routine(s)\n", len(r.Errors), r.Routines)
	case len(r.Imported) > 0:
		fmt.Fprintf(w, "Imported %d routine(s)\n", len(r.Imported))
	default:
		fmt.Fprintf(w, "OK: %d routine(s) (%s)\n", r.Routines, r.Format)
	}
}

func newRoutineValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <path>",
		Short: "Check a routine file without importing it",
		Long: `Check a routine file without importing it.

The path is a .yaml/.yml file or a directory of .cue files. Every problem is
reported, not only the first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(rootOpts, cmd)
			_, report := loadRoutineFile(args[0], out)
			if !report.Valid {
				_ = out.Partial(report, ErrCodeInvalidFile, fmt.Sprintf("%s has %d error(s)", args[0], len(report.Errors)), nil)
				return NewExitError(ExitFailure, "routine file is invalid")
			}
			return out.Success(report)
		},
	}
}

func newRoutineImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Add every routine defined in a file",
		Long: `Add every routine defined in a file.

Nothing is imported unless the whole file is valid. Imported routines are new
routines; importing the same file twice defines them twice.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, a *app) error {
				res, report := loadRoutineFile(args[0], a.out)
				if !report.Valid {
					_ = a.out.Partial(report, ErrCodeInvalidFile, fmt.Sprintf("%s has %d error(s), nothing imported", args[0], len(report.Errors)), nil)
					return NewExitError(ExitFailure, "routine file is invalid")
				}

				for _, d := range res.Definitions {
					r, err := a.svc.AddRoutine(ctx, a.owner, d.Input())
					if err != nil {
						a.logger.Error("import stopped", "routine", d.Name, "imported", len(report.Imported), "error", err)
						return fail(a.out, fmt.Sprintf("failed to import routine %q", d.Name), err)
					}
					a.logger.Debug("imported routine", "name", d.Name, "id", r.ID)
					report.Imported = append(report.Imported, newRoutineOut(r))
				}
				return a.out.Success(report)
			})
		},
	}
}
