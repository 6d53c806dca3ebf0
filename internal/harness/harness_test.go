package harness

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Imhotep-Tech/imhotep-tasks/internal/routinefile"
)

func intp(n int) *int { return &n }

func weekly(name, title string, days ...string) routinefile.Definition {
	return routinefile.Definition{Name: name, Title: title, Kind: "weekly", Dates: days}
}

func TestRun_Scenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := Run(context.Background(), scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Len(t, result.Trace, len(scenario.Steps))
		})
	}
}

func TestRunWithGolden_StandupWeek(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "standup_week.yaml"))
	require.NoError(t, err)

	result, err := RunWithGolden(t, scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_ReportsFailedExpectations(t *testing.T) {
	scenario := &Scenario{
		Name:        "wrong_expectations",
		Description: "Expectations that do not hold",
		Routines:    []routinefile.Definition{weekly("standup", "Standup", "monday")},
		Steps: []Step{
			{Date: "2024-01-01", Action: ActionToday, Expect: &StepExpect{Created: intp(2)}},
		},
		Assertions: []Assertion{
			{Type: AssertTaskCount, Title: "Standup", Count: 5},
			{Type: AssertNoTaskOn, Title: "Standup", Date: "2024-01-01"},
			{Type: AssertLastApplied, Routine: "standup", Date: Never},
		},
	}

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 4)
	assert.Contains(t, result.Errors[0], "expected created 2, got 1")
	assert.Contains(t, result.Errors[1], "Assertion failed: task_count")
	assert.Contains(t, result.Errors[2], "Assertion failed: no_task_on")
	assert.Contains(t, result.Errors[3], "Actual: 2024-01-01")
}

func TestRun_ManualAppliesAreNotIdempotent(t *testing.T) {
	scenario := &Scenario{
		Name:        "manual_twice",
		Description: "Every manual apply creates a task",
		Routines:    []routinefile.Definition{weekly("standup", "Standup", "monday")},
		Steps: []Step{
			{Date: "2024-01-01", Action: ActionApply, Expect: &StepExpect{Created: intp(1)}},
			{Date: "2024-01-01", Action: ActionApply, Expect: &StepExpect{Created: intp(1)}},
			{Date: "2024-01-01", Action: ActionApplyAuto, Expect: &StepExpect{Created: intp(0), Skipped: intp(1)}},
		},
		Assertions: []Assertion{
			{Type: AssertTaskCount, Title: "Standup", Date: "2024-01-01", Count: 2},
		},
	}

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_OwnersAreIsolated(t *testing.T) {
	base := Scenario{
		Description: "One owner per run",
		Routines:    []routinefile.Definition{weekly("standup", "Standup", "monday")},
		Steps:       []Step{{Date: "2024-01-01", Action: ActionToday}},
		Assertions:  []Assertion{{Type: AssertTotalTasks, Count: 1}},
	}

	for _, owner := range []string{"", "bob"} {
		s := base
		s.Name = "owner_" + owner
		s.Owner = owner
		result, err := Run(context.Background(), &s)
		require.NoError(t, err)
		assert.True(t, result.Pass, "errors: %v", result.Errors)
	}
}

func TestRun_SetupFailure(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad_routine",
		Description: "A yearly routine with an impossible date",
		Routines: []routinefile.Definition{
			{Name: "bad", Title: "Bad", Kind: "yearly", Dates: []string{"02-30"}},
		},
		Steps:      []Step{{Date: "2024-01-01", Action: ActionToday}},
		Assertions: []Assertion{{Type: AssertTotalTasks, Count: 0}},
	}

	_, err := Run(context.Background(), scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `routine "bad"`)
}

func TestAssertionError_Error(t *testing.T) {
	err := &AssertionError{
		Type:     AssertTotalTasks,
		Expected: "3 tasks",
		Actual:   "1 tasks",
	}
	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: total_tasks")
	assert.Contains(t, msg, "Expected: 3 tasks")
	assert.Contains(t, msg, "Actual: 1 tasks")
	assert.Contains(t, msg, "Tasks:")
}
