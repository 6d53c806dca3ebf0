package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Imhotep-Tech/imhotep-tasks/internal/agenda"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/calendar"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/engine"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/model"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/store"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/testutil"
)

// DefaultOwner runs scenarios that name no owner.
const DefaultOwner = "default"

// Harness is the scenario execution engine.
type Harness struct {
	store  *store.Store
	svc    *agenda.Service
	cal    *calendar.Fixed
	owner  string
	logger *slog.Logger

	// routineIDs maps scenario names to stored IDs, names maps them back.
	routineIDs map[string]string
	names      map[string]string
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// A non-nil error means the scenario could not run (setup failed or the
// store broke); expectation and assertion failures are reported in the
// result instead.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	start, err := calendar.ParseDate(scenario.Steps[0].Date)
	if err != nil {
		return nil, fmt.Errorf("first step: %w", err)
	}

	cal := calendar.NewFixed(start)
	ids := model.NewSequenceGenerator("id")
	clock := testutil.NewStepClock(testutil.Epoch, time.Second)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests

	eng := engine.New(st, st,
		engine.WithIDGenerator(ids),
		engine.WithNow(clock.Now),
		engine.WithLogger(logger),
	)

	owner := scenario.Owner
	if owner == "" {
		owner = DefaultOwner
	}

	h := &Harness{
		store: st,
		svc: agenda.New(st, eng, cal,
			agenda.WithIDGenerator(ids),
			agenda.WithNow(clock.Now),
			agenda.WithLogger(logger),
		),
		cal:        cal,
		owner:      owner,
		logger:     logger,
		routineIDs: make(map[string]string),
		names:      make(map[string]string),
	}

	if err := h.createRoutines(ctx, scenario); err != nil {
		return nil, fmt.Errorf("failed to create routines: %w", err)
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		if err := h.executeStep(ctx, i, step, result); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}

	if err := h.evaluateAssertions(ctx, scenario.Assertions, result); err != nil {
		return nil, fmt.Errorf("failed to evaluate assertions: %w", err)
	}

	return result, nil
}

func (h *Harness) createRoutines(ctx context.Context, scenario *Scenario) error {
	for _, def := range scenario.Routines {
		r, err := h.svc.AddRoutine(ctx, h.owner, def.Input())
		if err != nil {
			return fmt.Errorf("routine %q: %w", def.Name, err)
		}
		h.routineIDs[def.Name] = r.ID
		h.names[r.ID] = def.Name
	}
	return nil
}

// executeStep runs one step, records its trace event and checks its
// expectation.
func (h *Harness) executeStep(ctx context.Context, index int, step Step, result *Result) error {
	date, err := calendar.ParseDate(step.Date)
	if err != nil {
		return err
	}
	h.cal.Set(date)

	event := TraceEvent{Step: index, Date: step.Date, Action: step.Action, Routine: step.Routine}

	var res engine.Result
	switch step.Action {
	case ActionToday, ActionWeek:
		read := h.svc.Today
		if step.Action == ActionWeek {
			read = h.svc.NextWeek
		}
		v, err := read(ctx, h.owner)
		if err != nil {
			return err
		}
		res = *v.Apply
		visible := v.Total
		event.Visible = &visible
	case ActionApply:
		if res, err = h.svc.ApplyNow(ctx, h.owner); err != nil {
			return err
		}
	case ActionApplyAuto:
		if res, err = h.svc.ApplyOn(ctx, h.owner, date, engine.ModeAuto); err != nil {
			return err
		}
	case ActionToggle:
		if _, err := h.svc.ToggleRoutine(ctx, h.owner, h.routineIDs[step.Routine]); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown action %q", step.Action)
	}

	event.Created = res.Created
	event.Skipped = res.Skipped
	event.Failed = len(res.Errors)
	for _, t := range res.Tasks {
		event.Tasks = append(event.Tasks, t.Title)
	}
	for _, e := range res.Errors {
		event.Failures = append(event.Failures, fmt.Sprintf("%s: %s", h.names[e.RoutineID], e.Stage))
	}
	result.Trace = append(result.Trace, event)

	h.logger.Info("step completed", "step", index, "date", step.Date, "action", step.Action, "created", res.Created)

	if step.Expect != nil {
		checkCount(result, index, "created", step.Expect.Created, event.Created)
		checkCount(result, index, "skipped", step.Expect.Skipped, event.Skipped)
		checkCount(result, index, "failed", step.Expect.Failed, event.Failed)
	}
	return nil
}

func checkCount(result *Result, index int, field string, want *int, got int) {
	if want != nil && *want != got {
		result.AddError(fmt.Sprintf("steps[%d]: expected %s %d, got %d", index, field, *want, got))
	}
}
