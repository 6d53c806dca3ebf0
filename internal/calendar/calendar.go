package calendar

import (
	"sync"
	"time"
)

// Calendar answers "what day is it" for the materialization and list views.
// Implemented by System (production) and Fixed (tests).
type Calendar interface {
	Today() Date
}

// System reads the wall clock in a configured location.
//
// A nil Location means time.Local.
type System struct {
	Location *time.Location
}

// Today returns the current date in the configured location.
func (s System) Today() Date {
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	return DateOf(time.Now().In(loc))
}

// Fixed is a settable calendar for tests and replays.
//
// Thread-safety: all methods are safe for concurrent use.
type Fixed struct {
	mu   sync.Mutex
	date Date
}

// NewFixed creates a calendar pinned to d.
func NewFixed(d Date) *Fixed {
	return &Fixed{date: d}
}

// Today returns the pinned date.
func (f *Fixed) Today() Date {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.date
}

// Set moves the calendar to d.
func (f *Fixed) Set(d Date) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.date = d
}

// Advance moves the calendar forward by n days.
func (f *Fixed) Advance(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.date = f.date.AddDays(n)
}
