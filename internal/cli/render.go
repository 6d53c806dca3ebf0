package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/Imhotep-Tech/imhotep-tasks/internal/agenda"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/calendar"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/engine"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/model"
)

// palette colors status marks. Colors are basic ANSI so every mark carries
// escape sequences of the same length and tabwriter columns stay aligned.
// Writers that are not terminals get plain text.
type palette struct {
	done    lipgloss.Style
	pending lipgloss.Style
	overdue lipgloss.Style
	muted   lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	return palette{
		done:    r.NewStyle().Foreground(lipgloss.Color("2")),
		pending: r.NewStyle().Foreground(lipgloss.Color("3")),
		overdue: r.NewStyle().Foreground(lipgloss.Color("1")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// taskOut is the JSON shape of a task.
type taskOut struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Details         string        `json:"details,omitempty"`
	DueDate         string        `json:"due_date"`
	Done            bool          `json:"done"`
	DoneDate        string        `json:"done_date,omitempty"`
	OriginRoutineID string        `json:"origin_routine_id,omitempty"`
	Finance         model.Finance `json:"finance,omitzero"`
}

func newTaskOut(t model.Task) taskOut {
	out := taskOut{
		ID:              t.ID,
		Title:           t.Title,
		Details:         t.Details,
		DueDate:         t.DueDate.String(),
		Done:            t.Done,
		OriginRoutineID: t.OriginRoutineID,
		Finance:         t.Finance,
	}
	if t.DoneDate != nil {
		out.DoneDate = t.DoneDate.String()
	}
	return out
}

func newTaskOuts(tasks []model.Task) []taskOut {
	out := make([]taskOut, len(tasks))
	for i, t := range tasks {
		out[i] = newTaskOut(t)
	}
	return out
}

// RenderText implements textRenderer.
func (t taskOut) RenderText(w io.Writer) {
	state := "pending"
	if t.Done {
		state = "done on " + t.DoneDate
	}
	fmt.Fprintf(w, "%s  %s (due %s, %s)\n", t.ID, t.Title, t.DueDate, state)
	if t.Details != "" {
		fmt.Fprintf(w, "  %s\n", t.Details)
	}
}

// applyOut is the JSON shape of an engine.Result.
type applyOut struct {
	Date    string          `json:"date"`
	Mode    string          `json:"mode"`
	Created int             `json:"created"`
	Skipped int             `json:"skipped"`
	Tasks   []taskOut       `json:"tasks"`
	Errors  []applyErrorOut `json:"errors,omitempty"`
}

type applyErrorOut struct {
	RoutineID string `json:"routine_id"`
	Title     string `json:"title"`
	Stage     string `json:"stage"`
	TaskID    string `json:"task_id,omitempty"`
	Message   string `json:"message"`
}

func newApplyOut(date calendar.Date, mode engine.Mode, res engine.Result) applyOut {
	out := applyOut{
		Date:    date.String(),
		Mode:    mode.String(),
		Created: res.Created,
		Skipped: res.Skipped,
		Tasks:   newTaskOuts(res.Tasks),
	}
	for _, e := range res.Errors {
		out.Errors = append(out.Errors, applyErrorOut{
			RoutineID: e.RoutineID,
			Title:     e.Title,
			Stage:     string(e.Stage),
			TaskID:    e.TaskID,
			Message:   e.Err.Error(),
		})
	}
	return out
}

// RenderText implements textRenderer.
func (a applyOut) RenderText(w io.Writer) {
	p := newPalette(w)
	fmt.Fprintf(w, "Applied routines for %s (%s): %d created, %d skipped\n", a.Date, a.Mode, a.Created, a.Skipped)
	for _, t := range a.Tasks {
		fmt.Fprintf(w, "  %s %s  %s\n", p.done.Render("+"), t.ID, t.Title)
	}
	for _, e := range a.Errors {
		fmt.Fprintf(w, "  %s %s  %s: %s failed: %s\n", p.overdue.Render("!"), e.RoutineID, e.Title, e.Stage, e.Message)
	}
}

// viewOut is the JSON shape of an agenda.View.
type viewOut struct {
	Name      string    `json:"name"`
	Today     string    `json:"today"`
	Total     int       `json:"total"`
	Completed int       `json:"completed"`
	Pending   int       `json:"pending"`
	Tasks     []taskOut `json:"tasks"`
	Apply     *applyOut `json:"apply,omitempty"`
}

func newViewOut(v agenda.View, today calendar.Date) viewOut {
	out := viewOut{
		Name:      v.Name,
		Today:     today.String(),
		Total:     v.Total,
		Completed: v.Completed,
		Pending:   v.Pending,
		Tasks:     newTaskOuts(v.Tasks),
	}
	if v.Apply != nil {
		a := newApplyOut(today, engine.ModeAuto, *v.Apply)
		out.Apply = &a
	}
	return out
}

var viewHeadings = map[string]string{
	"today":     "Today",
	"next-week": "Next 7 days",
	"all":       "All tasks",
	"search":    "Search results",
}

// RenderText implements textRenderer.
func (v viewOut) RenderText(w io.Writer) {
	p := newPalette(w)

	heading := viewHeadings[v.Name]
	if heading == "" {
		heading = v.Name
	}
	fmt.Fprintf(w, "%s (%s)\n", heading, v.Today)

	if v.Apply != nil && (v.Apply.Created > 0 || len(v.Apply.Errors) > 0) {
		fmt.Fprintf(w, "%d routine task(s) created\n", v.Apply.Created)
		for _, e := range v.Apply.Errors {
			fmt.Fprintf(w, "%s routine %s (%s) failed at %s: %s\n", p.overdue.Render("!"), e.RoutineID, e.Title, e.Stage, e.Message)
		}
	}

	if len(v.Tasks) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, " \tID\tDUE\tTITLE")
	for _, t := range v.Tasks {
		mark := p.pending.Render("o")
		switch {
		case t.Done:
			mark = p.done.Render("x")
		case t.DueDate < v.Today:
			mark = p.overdue.Render("!")
		}
		title := t.Title
		if t.OriginRoutineID != "" {
			title += " " + p.muted.Render("(routine)")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", mark, t.ID, t.DueDate, title)
	}
	tw.Flush()

	fmt.Fprintf(w, "%d task(s): %d completed, %d pending\n", v.Total, v.Completed, v.Pending)
}

// routineOut is the JSON shape of a routine.
type routineOut struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Type        string        `json:"type"`
	Dates       []string      `json:"dates"`
	Active      bool          `json:"active"`
	LastApplied string        `json:"last_applied,omitempty"`
	Finance     model.Finance `json:"finance,omitzero"`
}

func newRoutineOut(r model.Routine) routineOut {
	out := routineOut{
		ID:      r.ID,
		Title:   r.Title,
		Type:    r.Kind.String(),
		Dates:   r.Schedule,
		Active:  r.Active,
		Finance: r.Finance,
	}
	if out.Dates == nil {
		out.Dates = []string{}
	}
	if r.LastApplied != nil {
		out.LastApplied = r.LastApplied.String()
	}
	return out
}

// RenderText implements textRenderer.
func (r routineOut) RenderText(w io.Writer) {
	state := "active"
	if !r.Active {
		state = "paused"
	}
	fmt.Fprintf(w, "%s  %s (%s on %s, %s)\n", r.ID, r.Title, r.Type, strings.Join(r.Dates, ", "), state)
}

type routineList []routineOut

// RenderText implements textRenderer.
func (rs routineList) RenderText(w io.Writer) {
	if len(rs) == 0 {
		fmt.Fprintln(w, "No routines.")
		return
	}
	p := newPalette(w)

	tw := newTable(w)
	fmt.Fprintln(tw, " \tID\tTYPE\tDATES\tLAST APPLIED\tTITLE")
	for _, r := range rs {
		mark := p.done.Render("x")
		if !r.Active {
			mark = p.muted.Render("-")
		}
		last := r.LastApplied
		if last == "" {
			last = "never"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", mark, r.ID, r.Type, strings.Join(r.Dates, ","), last, r.Title)
	}
	tw.Flush()
}

// message is a plain confirmation.
type message struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// RenderText implements textRenderer.
func (m message) RenderText(w io.Writer) {
	fmt.Fprintln(w, m.Message)
}
