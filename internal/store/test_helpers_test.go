package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Imhotep-Tech/imhotep-tasks/internal/calendar"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/model"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/recurrence"
)

// baseTime anchors created_at so list order is deterministic.
var baseTime = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

// createTestStore creates a fresh store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRoutine inserts an active routine; n orders it by created_at.
func createTestRoutine(t *testing.T, s *Store, id, owner string, kind recurrence.Kind, schedule []string, n int) model.Routine {
	t.Helper()
	r, err := s.CreateRoutine(context.Background(), model.Routine{
		ID:        id,
		OwnerID:   owner,
		Title:     "Routine " + id,
		Kind:      kind,
		Schedule:  schedule,
		Active:    true,
		CreatedAt: baseTime.Add(time.Duration(n) * time.Minute),
	})
	require.NoError(t, err)
	return r
}

// createTestTask inserts a plain task due on due.
func createTestTask(t *testing.T, s *Store, id, owner, title, due string, n int) model.Task {
	t.Helper()
	task, err := s.Create(context.Background(), model.Task{
		ID:        id,
		OwnerID:   owner,
		Title:     title,
		DueDate:   calendar.MustParseDate(due),
		CreatedAt: baseTime.Add(time.Duration(n) * time.Minute),
	})
	require.NoError(t, err)
	return task
}

func taskIDs(tasks []model.Task) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}
