package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Imhotep-Tech/imhotep-tasks/internal/calendar"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/model"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/store"
)

// Epoch is the first CreatedAt handed out by an Env clock.
var Epoch = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

// Env bundles the deterministic pieces most tests need: a fresh store,
// a calendar pinned to a date, a step clock and a sequential ID generator.
type Env struct {
	Store    *store.Store
	DBPath   string
	Calendar *calendar.Fixed
	Clock    *StepClock
	IDs      *model.SequenceGenerator
}

// NewEnv opens a store in a temp directory and pins the calendar to today
// (YYYY-MM-DD). The store is closed when the test ends.
func NewEnv(t *testing.T, today string) *Env {
	t.Helper()

	path := filepath.Join(t.TempDir(), "imhotep.db")
	s, err := store.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return &Env{
		Store:    s,
		DBPath:   path,
		Calendar: calendar.NewFixed(calendar.MustParseDate(today)),
		Clock:    NewStepClock(Epoch, time.Second),
		IDs:      model.NewSequenceGenerator("id"),
	}
}
