package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer s.Close()

	tables := []string{"routines", "tasks"}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found after idempotent opens: %v", table, err)
		}
	}
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)

	checks := map[string]string{
		"journal_mode": "wal",
		"foreign_keys": "1",
		"busy_timeout": "5000",
		"user_version": "1",
	}
	for name, want := range checks {
		if err := s.verifyPragma(name, want); err != nil {
			t.Error(err)
		}
	}
}

func TestOpen_FiringIndexExists(t *testing.T) {
	s := createTestStore(t)

	var name string
	err := s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='index' AND name='idx_tasks_routine_firing'",
	).Scan(&name)
	if err != nil {
		t.Fatalf("firing index missing: %v", err)
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "test.db")
	if _, err := Open(path); err == nil {
		t.Fatal("expected error for unreachable path")
	}
}
