package agenda

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/Imhotep-Tech/imhotep-tasks/internal/calendar"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/engine"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/model"
)

// Store is the persistence the agenda needs. Implemented by *store.Store.
type Store interface {
	CreateRoutine(ctx context.Context, r model.Routine) (model.Routine, error)
	GetRoutine(ctx context.Context, ownerID, id string) (model.Routine, error)
	ListRoutines(ctx context.Context, ownerID string) ([]model.Routine, error)
	Save(ctx context.Context, r model.Routine) error
	DeleteRoutine(ctx context.Context, ownerID, id string) error

	Create(ctx context.Context, t model.Task) (model.Task, error)
	GetTask(ctx context.Context, ownerID, id string) (model.Task, error)
	UpdateTask(ctx context.Context, t model.Task) error
	ListDueOrOverdue(ctx context.Context, ownerID string, today calendar.Date) ([]model.Task, error)
	ListDueBetween(ctx context.Context, ownerID string, from, to calendar.Date) ([]model.Task, error)
	ListAll(ctx context.Context, ownerID string) ([]model.Task, error)
	SearchTasks(ctx context.Context, ownerID, term string) ([]model.Task, error)
	SetCompletion(ctx context.Context, ownerID, id string, done bool, doneDate *calendar.Date) error
	DeleteTask(ctx context.Context, ownerID, id string) error
}

// Applier materializes routines. Implemented by *engine.Engine.
type Applier interface {
	Apply(ctx context.Context, ownerID string, target calendar.Date, mode engine.Mode) (engine.Result, error)
}

// WeekSpan is how many days past today the NextWeek view reaches.
const WeekSpan = 7

// Service implements the routine and task actions for one store.
type Service struct {
	store   Store
	applier Applier
	cal     calendar.Calendar
	ids     model.IDGenerator
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithIDGenerator sets the generator for new routine and task IDs.
func WithIDGenerator(g model.IDGenerator) Option {
	return func(s *Service) {
		s.ids = g
	}
}

// WithNow sets the clock used for CreatedAt timestamps.
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// New creates a Service. cal decides what "today" is for the views, for
// ApplyNow and for completion dates.
func New(st Store, applier Applier, cal calendar.Calendar, opts ...Option) *Service {
	s := &Service{
		store:   st,
		applier: applier,
		cal:     cal,
		ids:     model.UUIDGenerator{},
		now:     func() time.Time { return time.Now().UTC() },
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CurrentDate returns the date the views treat as today.
func (s *Service) CurrentDate() calendar.Date {
	return s.cal.Today()
}
