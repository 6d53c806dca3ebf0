package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Imhotep-Tech/imhotep-tasks/internal/calendar"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/model"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/recurrence"
)

// RoutineStore is the routine persistence the engine needs.
// Implemented by *store.Store.
type RoutineStore interface {
	ListActive(ctx context.Context, ownerID string) ([]model.Routine, error)
	Save(ctx context.Context, r model.Routine) error
}

// TaskStore is the task persistence the engine needs.
// Implemented by *store.Store.
type TaskStore interface {
	ExistsMatching(ctx context.Context, ownerID, title string, due calendar.Date, detailsPrefix string) (bool, error)
	Create(ctx context.Context, t model.Task) (model.Task, error)
}

// Mode selects the duplicate-suppression behavior of Apply.
type Mode int

const (
	// ModeAuto skips routines already applied on the target date.
	ModeAuto Mode = iota

	// ModeManual fires every matching routine regardless of history.
	ModeManual
)

// String returns "auto" or "manual".
func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeManual:
		return "manual"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Result summarizes one Apply call.
type Result struct {
	// Created counts tasks that were inserted, including ones whose
	// LastApplied could not be recorded afterwards.
	Created int

	// Skipped counts matching routines that were not fired because they
	// already fired for the target date.
	Skipped int

	// Tasks holds the created tasks in routine order.
	Tasks []model.Task

	// Errors holds one entry per routine that failed.
	Errors []*ApplyError
}

// Err joins all routine errors, or returns nil if there are none.
func (r Result) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// Engine materializes routines into tasks.
// Safe for concurrent use.
type Engine struct {
	routines RoutineStore
	tasks    TaskStore
	ids      model.IDGenerator
	now      func() time.Time
	logger   *slog.Logger
	locks    *ownerLocks
}

// Option configures an Engine.
type Option func(*Engine)

// WithIDGenerator sets the generator used for task IDs and manual firing
// keys. Default: model.UUIDGenerator.
func WithIDGenerator(g model.IDGenerator) Option {
	return func(e *Engine) {
		e.ids = g
	}
}

// WithLogger sets the logger. Default: a logger that discards output.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithNow sets the clock used for task CreatedAt. Tests pin it so that
// created tasks compare equal across runs.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New creates an Engine over the given stores.
//
// A single *store.Store satisfies both interfaces:
//
//	eng := engine.New(st, st, engine.WithLogger(logger))
func New(routines RoutineStore, tasks TaskStore, opts ...Option) *Engine {
	e := &Engine{
		routines: routines,
		tasks:    tasks,
		ids:      model.UUIDGenerator{},
		now:      func() time.Time { return time.Now().UTC() },
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		locks:    newOwnerLocks(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply materializes the owner's active routines that fire on target.
//
// The returned error is non-nil only when the routines could not be listed or
// ctx was cancelled before the first routine; per-routine failures are in
// Result.Errors and do not stop the loop.
func (e *Engine) Apply(ctx context.Context, ownerID string, target calendar.Date, mode Mode) (Result, error) {
	unlock := e.locks.lock(ownerID)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	routines, err := e.routines.ListActive(ctx, ownerID)
	if err != nil {
		return Result{}, fmt.Errorf("apply routines for %s on %s: %w", ownerID, target, err)
	}

	log := e.logger.With("owner", ownerID, "date", target.String(), "mode", mode.String())
	log.Debug("applying routines", "active", len(routines))

	var res Result
	for _, r := range routines {
		if err := ctx.Err(); err != nil {
			// Remaining routines are untouched; report what was done so far.
			log.Warn("apply interrupted", "error", err, "created", res.Created)
			return res, err
		}
		e.applyOne(ctx, log, r, target, mode, &res)
	}

	if res.Created > 0 || len(res.Errors) > 0 {
		log.Info("routines applied",
			"created", res.Created,
			"skipped", res.Skipped,
			"failed", len(res.Errors),
		)
	}

	return res, nil
}

// applyOne handles a single routine and folds the outcome into res.
func (e *Engine) applyOne(ctx context.Context, log *slog.Logger, r model.Routine, target calendar.Date, mode Mode, res *Result) {
	fail := func(stage Stage, taskID string, err error) {
		log.Error("routine failed",
			"routine_id", r.ID,
			"title", r.Title,
			"stage", string(stage),
			"error", err,
		)
		res.Errors = append(res.Errors, &ApplyError{
			RoutineID: r.ID,
			Title:     r.Title,
			Stage:     stage,
			TaskID:    taskID,
			Err:       err,
		})
	}

	spec, err := r.Spec()
	if err != nil {
		fail(StageParse, "", err)
		return
	}

	fires, err := recurrence.Matches(spec, target)
	if err != nil {
		fail(StageMatch, "", err)
		return
	}
	if !fires {
		return
	}

	provenance := r.Provenance()
	firingKey := model.FiringKeyAuto

	if mode == ModeAuto {
		if r.AppliedOn(target) {
			res.Skipped++
			return
		}
		exists, err := e.tasks.ExistsMatching(ctx, r.OwnerID, r.Title, target, provenance)
		if err != nil {
			fail(StageCheck, "", err)
			return
		}
		if exists {
			log.Debug("routine task already present", "routine_id", r.ID)
			res.Skipped++
			return
		}
	} else {
		firingKey = e.ids.NewID()
	}

	task, err := e.tasks.Create(ctx, model.Task{
		ID:              e.ids.NewID(),
		OwnerID:         r.OwnerID,
		Title:           r.Title,
		Details:         provenance,
		DueDate:         target,
		OriginRoutineID: r.ID,
		FiringKey:       firingKey,
		Finance:         r.Finance,
		CreatedAt:       e.now(),
	})
	if errors.Is(err, model.ErrDuplicateFiring) {
		// Another writer fired this routine first.
		log.Debug("routine fired concurrently", "routine_id", r.ID)
		res.Skipped++
		return
	}
	if err != nil {
		fail(StageCreate, "", err)
		return
	}

	res.Created++
	res.Tasks = append(res.Tasks, task)

	applied := target
	r.LastApplied = &applied
	if err := e.routines.Save(ctx, r); err != nil {
		fail(StageRecord, task.ID, err)
		return
	}

	log.Debug("routine fired", "routine_id", r.ID, "task_id", task.ID)
}
