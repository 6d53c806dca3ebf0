package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Imhotep-Tech/imhotep-tasks/internal/model"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/recurrence"
)

const routineColumns = `id, owner_id, title, kind, schedule, active, last_applied,
	price, currency, category, transaction_status, created_at`

// CreateRoutine inserts a new routine. The schedule is stored as given; callers
// validate it with recurrence.Validate first.
func (s *Store) CreateRoutine(ctx context.Context, r model.Routine) (model.Routine, error) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	if r.Schedule == nil {
		r.Schedule = []string{}
	}

	schedule, err := marshalSchedule(r.Schedule)
	if err != nil {
		return model.Routine{}, fmt.Errorf("create routine: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO routines (`+routineColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.ID,
		r.OwnerID,
		r.Title,
		string(r.Kind),
		schedule,
		boolToInt(r.Active),
		nullDate(r.LastApplied),
		r.Finance.Price,
		r.Finance.Currency,
		r.Finance.Category,
		r.Finance.Status,
		formatTime(r.CreatedAt),
	)
	if err != nil {
		return model.Routine{}, fmt.Errorf("create routine: %w", err)
	}

	return r, nil
}

// Save persists every mutable field of an existing routine, including
// LastApplied. Returns model.ErrNotFound if the routine does not exist for
// its owner.
func (s *Store) Save(ctx context.Context, r model.Routine) error {
	schedule, err := marshalSchedule(r.Schedule)
	if err != nil {
		return fmt.Errorf("save routine: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE routines
		SET title = ?, kind = ?, schedule = ?, active = ?, last_applied = ?,
		    price = ?, currency = ?, category = ?, transaction_status = ?
		WHERE id = ? AND owner_id = ?
	`,
		r.Title,
		string(r.Kind),
		schedule,
		boolToInt(r.Active),
		nullDate(r.LastApplied),
		r.Finance.Price,
		r.Finance.Currency,
		r.Finance.Category,
		r.Finance.Status,
		r.ID,
		r.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("save routine: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save routine: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("save routine %s: %w", r.ID, model.ErrNotFound)
	}
	return nil
}

// GetRoutine returns one routine of an owner, or model.ErrNotFound.
func (s *Store) GetRoutine(ctx context.Context, ownerID, id string) (model.Routine, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+routineColumns+`
		FROM routines
		WHERE owner_id = ? AND id = ?
	`, ownerID, id)

	r, err := scanRoutine(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Routine{}, fmt.Errorf("get routine %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return model.Routine{}, fmt.Errorf("get routine %s: %w", id, err)
	}
	return r, nil
}

// ListRoutines returns all routines of an owner, oldest first.
func (s *Store) ListRoutines(ctx context.Context, ownerID string) ([]model.Routine, error) {
	return s.queryRoutines(ctx, "list routines", `
		SELECT `+routineColumns+`
		FROM routines
		WHERE owner_id = ?
		ORDER BY created_at ASC, id COLLATE BINARY ASC
	`, ownerID)
}

// ListActive returns the active routines of an owner, oldest first.
// The engine evaluates routines in this order.
func (s *Store) ListActive(ctx context.Context, ownerID string) ([]model.Routine, error) {
	return s.queryRoutines(ctx, "list active routines", `
		SELECT `+routineColumns+`
		FROM routines
		WHERE owner_id = ? AND active = 1
		ORDER BY created_at ASC, id COLLATE BINARY ASC
	`, ownerID)
}

// DeleteRoutine removes a routine. Tasks it created are kept and lose their
// origin link. Returns model.ErrNotFound if nothing was deleted.
func (s *Store) DeleteRoutine(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM routines WHERE owner_id = ? AND id = ?`, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete routine: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete routine: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete routine %s: %w", id, model.ErrNotFound)
	}
	return nil
}

func (s *Store) queryRoutines(ctx context.Context, op, query string, args ...any) ([]model.Routine, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	routines := []model.Routine{}
	for rows.Next() {
		r, err := scanRoutine(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		routines = append(routines, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate: %w", op, err)
	}

	return routines, nil
}

func scanRoutine(sc rowScanner) (model.Routine, error) {
	var (
		r           model.Routine
		kind        string
		schedule    string
		active      int
		lastApplied sql.NullString
		createdAt   string
	)

	err := sc.Scan(
		&r.ID,
		&r.OwnerID,
		&r.Title,
		&kind,
		&schedule,
		&active,
		&lastApplied,
		&r.Finance.Price,
		&r.Finance.Currency,
		&r.Finance.Category,
		&r.Finance.Status,
		&createdAt,
	)
	if err != nil {
		return model.Routine{}, err
	}

	r.Kind = recurrence.Kind(kind)
	r.Active = active != 0

	if r.Schedule, err = unmarshalSchedule(schedule); err != nil {
		return model.Routine{}, fmt.Errorf("routine %s: %w", r.ID, err)
	}
	if r.LastApplied, err = parseNullDate(lastApplied); err != nil {
		return model.Routine{}, fmt.Errorf("routine %s: last_applied: %w", r.ID, err)
	}
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return model.Routine{}, fmt.Errorf("routine %s: %w", r.ID, err)
	}

	return r, nil
}
