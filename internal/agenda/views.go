package agenda

import (
	"context"
	"fmt"
	"strings"

	"github.com/Imhotep-Tech/imhotep-tasks/internal/calendar"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/engine"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/model"
)

// View is a task listing with its counters.
type View struct {
	Name      string       `json:"name"`
	Tasks     []model.Task `json:"-"`
	Total     int          `json:"total"`
	Completed int          `json:"completed"`
	Pending   int          `json:"pending"`

	// Apply is the result of the automatic apply that ran before the read,
	// nil for views that do not apply.
	Apply *engine.Result `json:"-"`
}

func newView(name string, tasks []model.Task, apply *engine.Result) View {
	v := View{Name: name, Tasks: tasks, Total: len(tasks), Apply: apply}
	for _, t := range tasks {
		if t.Done {
			v.Completed++
		}
	}
	v.Pending = v.Total - v.Completed
	return v
}

// Today applies routines for today, then lists tasks due today together with
// pending tasks from earlier days.
func (s *Service) Today(ctx context.Context, ownerID string) (View, error) {
	today := s.cal.Today()
	res, err := s.autoApply(ctx, ownerID, today)
	if err != nil {
		return View{}, err
	}

	tasks, err := s.store.ListDueOrOverdue(ctx, ownerID, today)
	if err != nil {
		return View{}, fmt.Errorf("today view: %w", err)
	}
	return newView("today", tasks, &res), nil
}

// NextWeek applies routines for today, then lists tasks due from today
// through WeekSpan days ahead.
//
// Only today is applied. Routines firing later in the window appear once
// their day comes.
func (s *Service) NextWeek(ctx context.Context, ownerID string) (View, error) {
	today := s.cal.Today()
	res, err := s.autoApply(ctx, ownerID, today)
	if err != nil {
		return View{}, err
	}

	tasks, err := s.store.ListDueBetween(ctx, ownerID, today, today.AddDays(WeekSpan))
	if err != nil {
		return View{}, fmt.Errorf("next week view: %w", err)
	}
	return newView("next-week", tasks, &res), nil
}

// All lists every task of the owner. It does not apply routines.
func (s *Service) All(ctx context.Context, ownerID string) (View, error) {
	tasks, err := s.store.ListAll(ctx, ownerID)
	if err != nil {
		return View{}, fmt.Errorf("all tasks view: %w", err)
	}
	return newView("all", tasks, nil), nil
}

// Search lists tasks whose title contains term, ignoring case. An empty term
// is the same as All.
func (s *Service) Search(ctx context.Context, ownerID, term string) (View, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.All(ctx, ownerID)
	}
	tasks, err := s.store.SearchTasks(ctx, ownerID, term)
	if err != nil {
		return View{}, fmt.Errorf("search tasks: %w", err)
	}
	return newView("search", tasks, nil), nil
}

// ApplyNow runs a manual apply for today. Every routine that fires today
// creates a task, even if it already did.
func (s *Service) ApplyNow(ctx context.Context, ownerID string) (engine.Result, error) {
	return s.ApplyOn(ctx, ownerID, s.cal.Today(), engine.ModeManual)
}

// ApplyOn runs an apply for an explicit date.
func (s *Service) ApplyOn(ctx context.Context, ownerID string, date calendar.Date, mode engine.Mode) (engine.Result, error) {
	res, err := s.applier.Apply(ctx, ownerID, date, mode)
	if err != nil {
		return res, err
	}
	s.logResult(ownerID, date, mode, res)
	return res, nil
}

func (s *Service) autoApply(ctx context.Context, ownerID string, today calendar.Date) (engine.Result, error) {
	return s.ApplyOn(ctx, ownerID, today, engine.ModeAuto)
}

func (s *Service) logResult(ownerID string, date calendar.Date, mode engine.Mode, res engine.Result) {
	if len(res.Errors) == 0 {
		return
	}
	s.logger.Warn("some routines failed to apply",
		"owner", ownerID,
		"date", date.String(),
		"mode", mode.String(),
		"failed", len(res.Errors),
		"created", res.Created,
	)
}
