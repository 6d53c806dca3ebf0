// Package model defines the routine and task entities shared by the store,
// the engine and the agenda layer.
package model

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/Imhotep-Tech/imhotep-tasks/internal/calendar"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/recurrence"
)

var (
	// ErrNotFound is returned when an owner-scoped lookup finds nothing.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateFiring is returned by TaskStore.Create when a routine task for
	// the same (owner, routine, due date, firing key) already exists.
	ErrDuplicateFiring = errors.New("routine already fired for this date")
)

// FiringKeyAuto is the firing key of every automatic materialization.
// Manual materializations use a fresh ID each time so they never collide.
const FiringKeyAuto = "auto"

// Finance holds the optional transaction fields a routine passes through to
// the tasks it creates. Nothing here is interpreted by the engine.
type Finance struct {
	Price    string `json:"price,omitempty" yaml:"price,omitempty"`
	Currency string `json:"currency,omitempty" yaml:"currency,omitempty"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
	Status   string `json:"status,omitempty" yaml:"status,omitempty"`
}

// IsZero reports whether no finance field is set.
func (f Finance) IsZero() bool {
	return f == Finance{}
}

// Routine is a user-owned recurrence definition.
type Routine struct {
	ID       string          `json:"id"`
	OwnerID  string          `json:"owner_id"`
	Title    string          `json:"title"`
	Kind     recurrence.Kind `json:"type"`
	Schedule []string        `json:"dates"`
	Active   bool            `json:"active"`

	// LastApplied is the date of the last materialization, nil if never.
	LastApplied *calendar.Date `json:"-"`

	Finance   Finance   `json:"finance,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Spec parses the routine's schedule.
func (r Routine) Spec() (recurrence.Spec, error) {
	return recurrence.Parse(r.Kind, r.Schedule)
}

// AppliedOn reports whether LastApplied equals d.
func (r Routine) AppliedOn(d calendar.Date) bool {
	return r.LastApplied != nil && *r.LastApplied == d
}

// Provenance returns the details text for tasks created from r.
func (r Routine) Provenance() string {
	return recurrence.Provenance(r.Kind, r.Title)
}

// Task is a concrete to-do item with a due date.
type Task struct {
	ID       string         `json:"id"`
	OwnerID  string         `json:"owner_id"`
	Title    string         `json:"title"`
	Details  string         `json:"details,omitempty"`
	DueDate  calendar.Date  `json:"-"`
	Done     bool           `json:"done"`
	DoneDate *calendar.Date `json:"-"`

	// OriginRoutineID links a materialized task to its routine; empty for
	// tasks the user added directly or whose routine was deleted.
	OriginRoutineID string `json:"origin_routine_id,omitempty"`
	FiringKey       string `json:"-"`

	Finance   Finance   `json:"finance,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Overdue reports whether t is pending and due before today.
func (t Task) Overdue(today calendar.Date) bool {
	return !t.Done && t.DueDate.Before(today)
}

// NormalizeTitle trims surrounding space and applies NFC so that titles typed
// with different Unicode compositions compare equal.
func NormalizeTitle(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
