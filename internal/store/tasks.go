package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Imhotep-Tech/imhotep-tasks/internal/calendar"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/model"
)

const taskColumns = `id, owner_id, title, details, due_date, done, done_date,
	origin_routine_id, firing_key, price, currency, category, transaction_status, created_at`

// taskOrder lists pending before done, then by due date.
const taskOrder = `ORDER BY done ASC, due_date ASC, created_at ASC, id COLLATE BINARY ASC`

// Create inserts a task.
//
// Uses ON CONFLICT DO NOTHING so that a second firing of the same routine on
// the same date with the same firing key is dropped by the unique index
// instead of producing a duplicate. A dropped insert returns an error wrapping
// model.ErrDuplicateFiring; the existing task is left untouched.
func (s *Store) Create(ctx context.Context, t model.Task) (model.Task, error) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		t.ID,
		t.OwnerID,
		t.Title,
		t.Details,
		t.DueDate.String(),
		boolToInt(t.Done),
		nullDate(t.DoneDate),
		nullString(t.OriginRoutineID),
		t.FiringKey,
		t.Finance.Price,
		t.Finance.Currency,
		t.Finance.Category,
		t.Finance.Status,
		formatTime(t.CreatedAt),
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("create task: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return model.Task{}, fmt.Errorf("create task: rows affected: %w", err)
	}
	if n == 0 {
		// Either the id or the firing slot is taken; only the latter is expected.
		var idTaken bool
		if err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM tasks WHERE id = ?)`, t.ID).Scan(&idTaken); err != nil {
			return model.Task{}, fmt.Errorf("create task: check id: %w", err)
		}
		if idTaken {
			return model.Task{}, fmt.Errorf("create task: id %s already exists", t.ID)
		}
		return model.Task{}, fmt.Errorf("create task %q on %s: %w", t.Title, t.DueDate, model.ErrDuplicateFiring)
	}

	return t, nil
}

// ExistsMatching reports whether the owner has a task with exactly this title
// and due date whose details start with detailsPrefix.
//
// The prefix is compared with substr rather than LIKE so titles containing
// % or _ need no escaping.
func (s *Store) ExistsMatching(ctx context.Context, ownerID, title string, due calendar.Date, detailsPrefix string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM tasks
			WHERE owner_id = ? AND title = ? AND due_date = ?
			  AND substr(details, 1, length(?)) = ?
		)
	`, ownerID, title, due.String(), detailsPrefix, detailsPrefix).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check existing task: %w", err)
	}
	return exists, nil
}

// GetTask returns one task of an owner, or model.ErrNotFound.
func (s *Store) GetTask(ctx context.Context, ownerID, id string) (model.Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE owner_id = ? AND id = ?
	`, ownerID, id)

	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, fmt.Errorf("get task %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("get task %s: %w", id, err)
	}
	return t, nil
}

// ListDueOrOverdue returns tasks due on today plus pending tasks due earlier.
func (s *Store) ListDueOrOverdue(ctx context.Context, ownerID string, today calendar.Date) ([]model.Task, error) {
	return s.queryTasks(ctx, "list today tasks", `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE owner_id = ?
		  AND (due_date = ? OR (due_date < ? AND done = 0))
		`+taskOrder,
		ownerID, today.String(), today.String())
}

// ListDueBetween returns tasks whose due date falls in [from, to].
func (s *Store) ListDueBetween(ctx context.Context, ownerID string, from, to calendar.Date) ([]model.Task, error) {
	return s.queryTasks(ctx, "list tasks in range", `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE owner_id = ? AND due_date >= ? AND due_date <= ?
		`+taskOrder,
		ownerID, from.String(), to.String())
}

// ListAll returns every task of an owner.
func (s *Store) ListAll(ctx context.Context, ownerID string) ([]model.Task, error) {
	return s.queryTasks(ctx, "list all tasks", `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE owner_id = ?
		`+taskOrder,
		ownerID)
}

// ListByRoutine returns the tasks materialized from one routine.
func (s *Store) ListByRoutine(ctx context.Context, ownerID, routineID string) ([]model.Task, error) {
	return s.queryTasks(ctx, "list routine tasks", `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE owner_id = ? AND origin_routine_id = ?
		`+taskOrder,
		ownerID, routineID)
}

// SearchTasks returns the owner's tasks whose title contains term,
// ignoring ASCII case.
func (s *Store) SearchTasks(ctx context.Context, ownerID, term string) ([]model.Task, error) {
	return s.queryTasks(ctx, "search tasks", `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE owner_id = ? AND instr(lower(title), lower(?)) > 0
		`+taskOrder,
		ownerID, term)
}

// UpdateTask rewrites the title, details and due date of an existing task.
// Completion and routine linkage are left as stored. Returns model.ErrNotFound
// if the task does not exist for the owner.
func (s *Store) UpdateTask(ctx context.Context, t model.Task) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET title = ?, details = ?, due_date = ?
		WHERE owner_id = ? AND id = ?
	`, t.Title, t.Details, t.DueDate.String(), t.OwnerID, t.ID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update task: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update task %s: %w", t.ID, model.ErrNotFound)
	}
	return nil
}

// SetCompletion marks a task done (with doneDate) or pending (doneDate nil).
// Returns model.ErrNotFound if the task does not exist for the owner.
func (s *Store) SetCompletion(ctx context.Context, ownerID, id string, done bool, doneDate *calendar.Date) error {
	if !done {
		doneDate = nil
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET done = ?, done_date = ?
		WHERE owner_id = ? AND id = ?
	`, boolToInt(done), nullDate(doneDate), ownerID, id)
	if err != nil {
		return fmt.Errorf("set task completion: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set task completion: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("set task completion %s: %w", id, model.ErrNotFound)
	}
	return nil
}

// DeleteTask removes a task. Returns model.ErrNotFound if nothing was deleted.
func (s *Store) DeleteTask(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE owner_id = ? AND id = ?`, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete task %s: %w", id, model.ErrNotFound)
	}
	return nil
}

func (s *Store) queryTasks(ctx context.Context, op, query string, args ...any) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate: %w", op, err)
	}

	return tasks, nil
}

func scanTask(sc rowScanner) (model.Task, error) {
	var (
		t         model.Task
		dueDate   string
		done      int
		doneDate  sql.NullString
		origin    sql.NullString
		createdAt string
	)

	err := sc.Scan(
		&t.ID,
		&t.OwnerID,
		&t.Title,
		&t.Details,
		&dueDate,
		&done,
		&doneDate,
		&origin,
		&t.FiringKey,
		&t.Finance.Price,
		&t.Finance.Currency,
		&t.Finance.Category,
		&t.Finance.Status,
		&createdAt,
	)
	if err != nil {
		return model.Task{}, err
	}

	t.Done = done != 0
	t.OriginRoutineID = origin.String

	if t.DueDate, err = calendar.ParseDate(dueDate); err != nil {
		return model.Task{}, fmt.Errorf("task %s: due_date: %w", t.ID, err)
	}
	if t.DoneDate, err = parseNullDate(doneDate); err != nil {
		return model.Task{}, fmt.Errorf("task %s: done_date: %w", t.ID, err)
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return model.Task{}, fmt.Errorf("task %s: %w", t.ID, err)
	}

	return t, nil
}
