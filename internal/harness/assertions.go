package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/Imhotep-Tech/imhotep-tasks/internal/model"
)

// AssertionError is returned when an assertion fails.
// It lists the owner's tasks to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Tasks    []model.Task // Every task at evaluation time
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nTasks:\n")
	for _, t := range e.Tasks {
		fmt.Fprintf(&buf, "  %s %s\n", t.DueDate, t.Title)
	}

	return buf.String()
}

// evaluateAssertions checks every assertion against the final state and adds
// failures to result.
func (h *Harness) evaluateAssertions(ctx context.Context, assertions []Assertion, result *Result) error {
	tasks, err := h.store.ListAll(ctx, h.owner)
	if err != nil {
		return err
	}

	for i, a := range assertions {
		var failure *AssertionError
		switch a.Type {
		case AssertTaskCount:
			failure = assertTaskCount(tasks, a)
		case AssertTaskOn:
			failure = assertTaskOn(tasks, a, true)
		case AssertNoTaskOn:
			failure = assertTaskOn(tasks, a, false)
		case AssertTotalTasks:
			if len(tasks) != a.Count {
				failure = &AssertionError{
					Expected: fmt.Sprintf("%d tasks", a.Count),
					Actual:   fmt.Sprintf("%d tasks", len(tasks)),
				}
			}
		case AssertLastApplied:
			r, err := h.store.GetRoutine(ctx, h.owner, h.routineIDs[a.Routine])
			if err != nil {
				return err
			}
			failure = assertLastApplied(r, a)
		default:
			return fmt.Errorf("assertions[%d]: unknown type %q", i, a.Type)
		}

		if failure != nil {
			failure.Type = a.Type
			failure.Tasks = tasks
			result.AddError(fmt.Sprintf("assertions[%d]: %s", i, failure.Error()))
		}
	}
	return nil
}

func countTasks(tasks []model.Task, title, date string) int {
	n := 0
	for _, t := range tasks {
		if t.Title == title && (date == "" || t.DueDate.String() == date) {
			n++
		}
	}
	return n
}

func assertTaskCount(tasks []model.Task, a Assertion) *AssertionError {
	got := countTasks(tasks, a.Title, a.Date)
	if got == a.Count {
		return nil
	}
	where := ""
	if a.Date != "" {
		where = " on " + a.Date
	}
	return &AssertionError{
		Expected: fmt.Sprintf("%d %q tasks%s", a.Count, a.Title, where),
		Actual:   fmt.Sprintf("%d", got),
	}
}

func assertTaskOn(tasks []model.Task, a Assertion, want bool) *AssertionError {
	got := countTasks(tasks, a.Title, a.Date)
	switch {
	case want && got == 0:
		return &AssertionError{
			Expected: fmt.Sprintf("a %q task on %s", a.Title, a.Date),
			Actual:   "none",
		}
	case !want && got > 0:
		return &AssertionError{
			Expected: fmt.Sprintf("no %q task on %s", a.Title, a.Date),
			Actual:   fmt.Sprintf("%d", got),
		}
	}
	return nil
}

func assertLastApplied(r model.Routine, a Assertion) *AssertionError {
	got := Never
	if r.LastApplied != nil {
		got = r.LastApplied.String()
	}
	if got == a.Date {
		return nil
	}
	return &AssertionError{
		Expected: fmt.Sprintf("routine %q last applied %s", a.Routine, a.Date),
		Actual:   got,
	}
}
