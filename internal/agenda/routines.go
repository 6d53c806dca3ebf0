package agenda

import (
	"context"
	"fmt"

	"github.com/Imhotep-Tech/imhotep-tasks/internal/model"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/recurrence"
)

// RoutineInput describes a new routine.
type RoutineInput struct {
	Title    string
	Kind     recurrence.Kind
	Schedule []string
	Finance  model.Finance

	// Paused creates the routine inactive.
	Paused bool
}

// RoutinePatch is a partial routine update. Nil fields are left unchanged.
type RoutinePatch struct {
	Title    *string
	Kind     *recurrence.Kind
	Schedule *[]string

	Price    *string
	Currency *string
	Category *string
	Status   *string
}

// AddRoutine validates and stores a new routine, active unless Paused.
//
// Title, kind and at least one schedule token are required. Yearly tokens are
// format-checked; weekly and monthly tokens are stored as given.
func (s *Service) AddRoutine(ctx context.Context, ownerID string, in RoutineInput) (model.Routine, error) {
	title := model.NormalizeTitle(in.Title)
	if title == "" {
		return model.Routine{}, &InputError{Field: "title", Message: "title is required and cannot be empty"}
	}
	if in.Kind == "" || len(in.Schedule) == 0 {
		return model.Routine{}, &InputError{Field: "dates", Message: "the routine type and dates must be set"}
	}
	if err := recurrence.Validate(in.Kind, in.Schedule); err != nil {
		return model.Routine{}, err
	}

	r, err := s.store.CreateRoutine(ctx, model.Routine{
		ID:        s.ids.NewID(),
		OwnerID:   ownerID,
		Title:     title,
		Kind:      in.Kind,
		Schedule:  append([]string(nil), in.Schedule...),
		Active:    !in.Paused,
		Finance:   in.Finance,
		CreatedAt: s.now(),
	})
	if err != nil {
		return model.Routine{}, err
	}

	s.logger.Debug("routine added", "owner", ownerID, "routine_id", r.ID, "kind", r.Kind.String())
	return r, nil
}

// UpdateRoutine applies a partial update.
//
// New schedule tokens are format-checked when either the new or the current
// kind is yearly. Changing the kind alone does not re-check the stored tokens.
func (s *Service) UpdateRoutine(ctx context.Context, ownerID, id string, p RoutinePatch) (model.Routine, error) {
	r, err := s.store.GetRoutine(ctx, ownerID, id)
	if err != nil {
		return model.Routine{}, err
	}

	if p.Kind != nil {
		if _, err := recurrence.ParseKind(string(*p.Kind)); err != nil {
			return model.Routine{}, err
		}
	}
	if p.Schedule != nil && (r.Kind == recurrence.KindYearly || (p.Kind != nil && *p.Kind == recurrence.KindYearly)) {
		if err := recurrence.Validate(recurrence.KindYearly, *p.Schedule); err != nil {
			return model.Routine{}, err
		}
	}

	if p.Title != nil {
		title := model.NormalizeTitle(*p.Title)
		if title == "" {
			return model.Routine{}, &InputError{Field: "title", Message: "title cannot be empty"}
		}
		r.Title = title
	}
	if p.Schedule != nil {
		r.Schedule = append([]string{}, (*p.Schedule)...)
	}
	if p.Kind != nil {
		r.Kind = *p.Kind
	}
	setIfPresent(&r.Finance.Price, p.Price)
	setIfPresent(&r.Finance.Currency, p.Currency)
	setIfPresent(&r.Finance.Category, p.Category)
	setIfPresent(&r.Finance.Status, p.Status)

	if err := s.store.Save(ctx, r); err != nil {
		return model.Routine{}, err
	}
	return r, nil
}

// ToggleRoutine flips the active flag and returns the updated routine.
func (s *Service) ToggleRoutine(ctx context.Context, ownerID, id string) (model.Routine, error) {
	r, err := s.store.GetRoutine(ctx, ownerID, id)
	if err != nil {
		return model.Routine{}, err
	}
	r.Active = !r.Active
	if err := s.store.Save(ctx, r); err != nil {
		return model.Routine{}, fmt.Errorf("toggle routine: %w", err)
	}
	return r, nil
}

// DeleteRoutine removes a routine. Tasks it created stay, unlinked.
func (s *Service) DeleteRoutine(ctx context.Context, ownerID, id string) error {
	return s.store.DeleteRoutine(ctx, ownerID, id)
}

// GetRoutine returns one routine of the owner.
func (s *Service) GetRoutine(ctx context.Context, ownerID, id string) (model.Routine, error) {
	return s.store.GetRoutine(ctx, ownerID, id)
}

// ListRoutines returns all routines of the owner, active or not.
func (s *Service) ListRoutines(ctx context.Context, ownerID string) ([]model.Routine, error) {
	return s.store.ListRoutines(ctx, ownerID)
}

func setIfPresent(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
