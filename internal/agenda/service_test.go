package agenda_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Imhotep-Tech/imhotep-tasks/internal/agenda"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/calendar"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/engine"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/model"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/recurrence"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/testutil"
)

const owner = "alice"

// 2024-01-01 is a Monday.
func newTestService(t *testing.T, today string) (*agenda.Service, *testutil.Env) {
	t.Helper()
	env := testutil.NewEnv(t, today)
	eng := engine.New(env.Store, env.Store,
		engine.WithIDGenerator(env.IDs),
		engine.WithNow(env.Clock.Now),
	)
	svc := agenda.New(env.Store, eng, env.Calendar,
		agenda.WithIDGenerator(env.IDs),
		agenda.WithNow(env.Clock.Now),
	)
	return svc, env
}

func mustAddRoutine(t *testing.T, svc *agenda.Service, title string, kind recurrence.Kind, dates ...string) model.Routine {
	t.Helper()
	r, err := svc.AddRoutine(context.Background(), owner, agenda.RoutineInput{
		Title:    title,
		Kind:     kind,
		Schedule: dates,
	})
	require.NoError(t, err)
	return r
}

func mustAddTask(t *testing.T, svc *agenda.Service, title, due string) model.Task {
	t.Helper()
	d := calendar.MustParseDate(due)
	task, err := svc.AddTask(context.Background(), owner, agenda.TaskInput{Title: title, Due: &d})
	require.NoError(t, err)
	return task
}

func titles(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func ptr[T any](v T) *T { return &v }

func TestToday_AppliesRoutinesOnce(t *testing.T) {
	svc, _ := newTestService(t, "2024-01-01")
	ctx := context.Background()
	mustAddRoutine(t, svc, "Gym", recurrence.KindWeekly, "monday")

	v, err := svc.Today(ctx, owner)
	require.NoError(t, err)
	require.NotNil(t, v.Apply)
	assert.Equal(t, 1, v.Apply.Created)
	assert.Equal(t, []string{"Gym"}, titles(v.Tasks))

	v, err = svc.Today(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Apply.Created)
	assert.Equal(t, 1, v.Apply.Skipped)
	assert.Equal(t, 1, v.Total)
}

func TestToday_IncludesOverduePendingOnly(t *testing.T) {
	svc, env := newTestService(t, "2024-01-05")
	ctx := context.Background()

	mustAddTask(t, svc, "due today", "2024-01-05")
	mustAddTask(t, svc, "late", "2024-01-02")
	done := mustAddTask(t, svc, "late but done", "2024-01-03")
	mustAddTask(t, svc, "tomorrow", "2024-01-06")
	_, err := svc.ToggleTask(ctx, owner, done.ID)
	require.NoError(t, err)

	v, err := svc.Today(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{"late", "due today"}, titles(v.Tasks))
	assert.Equal(t, 2, v.Total)
	assert.Equal(t, 0, v.Completed)
	assert.Equal(t, 2, v.Pending)

	// A day later, yesterday's pending task counts as overdue.
	env.Calendar.Set(calendar.MustParseDate("2024-01-06"))
	v, err = svc.Today(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{"late", "due today", "tomorrow"}, titles(v.Tasks))
}

func TestToday_Counters(t *testing.T) {
	svc, _ := newTestService(t, "2024-01-05")
	ctx := context.Background()
	a := mustAddTask(t, svc, "a", "2024-01-05")
	mustAddTask(t, svc, "b", "2024-01-05")
	_, err := svc.ToggleTask(ctx, owner, a.ID)
	require.NoError(t, err)

	v, err := svc.Today(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Total)
	assert.Equal(t, 1, v.Completed)
	assert.Equal(t, 1, v.Pending)
	assert.Equal(t, []string{"b", "a"}, titles(v.Tasks), "pending first")
}

func TestNextWeek_WindowAndApply(t *testing.T) {
	svc, _ := newTestService(t, "2024-01-01")
	ctx := context.Background()
	mustAddRoutine(t, svc, "Standup", recurrence.KindWeekly, "monday", "wednesday")

	mustAddTask(t, svc, "yesterday", "2023-12-31")
	mustAddTask(t, svc, "in a week", "2024-01-08")
	mustAddTask(t, svc, "too far", "2024-01-09")

	v, err := svc.NextWeek(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Apply.Created, "only today is applied")
	assert.Equal(t, []string{"Standup", "in a week"}, titles(v.Tasks))
}

func TestAll_DoesNotApply(t *testing.T) {
	svc, _ := newTestService(t, "2024-01-01")
	ctx := context.Background()
	mustAddRoutine(t, svc, "Gym", recurrence.KindWeekly, "monday")

	v, err := svc.All(ctx, owner)
	require.NoError(t, err)
	assert.Nil(t, v.Apply)
	assert.Empty(t, v.Tasks)

	_, err = svc.Today(ctx, owner)
	require.NoError(t, err)

	v, err = svc.All(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{"Gym"}, titles(v.Tasks))
}

func TestApplyNow_IsManual(t *testing.T) {
	svc, env := newTestService(t, "2024-01-01")
	ctx := context.Background()
	mustAddRoutine(t, svc, "Gym", recurrence.KindWeekly, "monday")

	for i := 0; i < 2; i++ {
		res, err := svc.ApplyNow(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Created)
	}

	all, err := env.Store.ListAll(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	v, err := svc.Today(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Apply.Created)
	assert.Equal(t, 2, v.Total)
}

func TestApplyOn_ExplicitDate(t *testing.T) {
	svc, _ := newTestService(t, "2024-01-01")
	ctx := context.Background()
	mustAddRoutine(t, svc, "Leap", recurrence.KindYearly, "02-29")

	res, err := svc.ApplyOn(ctx, owner, calendar.MustParseDate("2024-02-29"), engine.ModeAuto)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, calendar.MustParseDate("2024-02-29"), res.Tasks[0].DueDate)
}

func TestSearch(t *testing.T) {
	svc, _ := newTestService(t, "2024-01-01")
	ctx := context.Background()
	mustAddTask(t, svc, "Pay rent", "2024-01-01")
	mustAddTask(t, svc, "Gym", "2024-01-01")

	v, err := svc.Search(ctx, owner, "RENT")
	require.NoError(t, err)
	assert.Equal(t, "search", v.Name)
	assert.Equal(t, []string{"Pay rent"}, titles(v.Tasks))

	v, err = svc.Search(ctx, owner, "  ")
	require.NoError(t, err)
	assert.Equal(t, "all", v.Name)
	assert.Equal(t, 2, v.Total)
}
