package agenda

import (
	"context"
	"fmt"

	"github.com/Imhotep-Tech/imhotep-tasks/internal/calendar"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/model"
)

// TaskInput describes a task added by hand. A nil Due means today.
type TaskInput struct {
	Title   string
	Details string
	Due     *calendar.Date
}

// TaskPatch is a partial task update. Nil fields are left unchanged.
type TaskPatch struct {
	Title   *string
	Details *string
	Due     *calendar.Date
}

// AddTask stores a new pending task with no routine link.
func (s *Service) AddTask(ctx context.Context, ownerID string, in TaskInput) (model.Task, error) {
	title := model.NormalizeTitle(in.Title)
	if title == "" {
		return model.Task{}, &InputError{Field: "title", Message: "title is required and cannot be empty"}
	}
	due := s.cal.Today()
	if in.Due != nil {
		due = *in.Due
	}

	t, err := s.store.Create(ctx, model.Task{
		ID:        s.ids.NewID(),
		OwnerID:   ownerID,
		Title:     title,
		Details:   in.Details,
		DueDate:   due,
		CreatedAt: s.now(),
	})
	if err != nil {
		return model.Task{}, err
	}
	return t, nil
}

// UpdateTask applies a partial update to a task's title, details or due date.
func (s *Service) UpdateTask(ctx context.Context, ownerID, id string, p TaskPatch) (model.Task, error) {
	t, err := s.store.GetTask(ctx, ownerID, id)
	if err != nil {
		return model.Task{}, err
	}
	if p.Title != nil {
		title := model.NormalizeTitle(*p.Title)
		if title == "" {
			return model.Task{}, &InputError{Field: "title", Message: "title cannot be empty"}
		}
		t.Title = title
	}
	if p.Details != nil {
		t.Details = *p.Details
	}
	if p.Due != nil {
		t.DueDate = *p.Due
	}
	if err := s.store.UpdateTask(ctx, t); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

// ToggleTask flips completion. Completing sets DoneDate to today; reopening
// clears it.
func (s *Service) ToggleTask(ctx context.Context, ownerID, id string) (model.Task, error) {
	t, err := s.store.GetTask(ctx, ownerID, id)
	if err != nil {
		return model.Task{}, err
	}

	t.Done = !t.Done
	t.DoneDate = nil
	if t.Done {
		today := s.cal.Today()
		t.DoneDate = &today
	}

	if err := s.store.SetCompletion(ctx, ownerID, id, t.Done, t.DoneDate); err != nil {
		return model.Task{}, fmt.Errorf("toggle task: %w", err)
	}
	return t, nil
}

// DeleteTask removes a task.
func (s *Service) DeleteTask(ctx context.Context, ownerID, id string) error {
	return s.store.DeleteTask(ctx, ownerID, id)
}
