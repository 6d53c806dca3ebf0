package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Imhotep-Tech/imhotep-tasks/internal/recurrence"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const validScenario = `
name: valid
description: "A valid scenario"
routines:
  - name: standup
    title: Standup
    type: weekly
    dates: [monday]
steps:
  - date: "2024-01-01"
    action: today
    expect: { created: 1 }
assertions:
  - type: total_tasks
    count: 1
`

func TestLoadScenario_Valid(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, validScenario))
	require.NoError(t, err)

	assert.Equal(t, "valid", s.Name)
	require.Len(t, s.Routines, 1)
	assert.Equal(t, recurrence.KindWeekly, s.Routines[0].Kind)
	assert.Equal(t, []string{"monday"}, s.Routines[0].Dates)
	require.Len(t, s.Steps, 1)
	require.NotNil(t, s.Steps[0].Expect)
	require.NotNil(t, s.Steps[0].Expect.Created)
	assert.Equal(t, 1, *s.Steps[0].Expect.Created)
	assert.Nil(t, s.Steps[0].Expect.Skipped)
}

func TestLoadScenario_FileNotFound(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	_, err := LoadScenario(writeScenario(t, validScenario+"assertion: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestValidateScenario(t *testing.T) {
	valid := func() Scenario {
		s, err := LoadScenario(writeScenario(t, validScenario))
		require.NoError(t, err)
		return *s
	}

	tests := []struct {
		name    string
		mutate  func(s *Scenario)
		wantErr string
	}{
		{"missing name", func(s *Scenario) { s.Name = "" }, "name is required"},
		{"missing description", func(s *Scenario) { s.Description = "" }, "description is required"},
		{"no routines", func(s *Scenario) { s.Routines = nil }, "routines list is required"},
		{"no steps", func(s *Scenario) { s.Steps = nil }, "steps list is required"},
		{"no assertions", func(s *Scenario) { s.Assertions = nil }, "assertions list is required"},
		{"unnamed routine", func(s *Scenario) { s.Routines[0].Name = "" }, "routines[0]: name is required"},
		{"duplicate routine", func(s *Scenario) { s.Routines = append(s.Routines, s.Routines[0]) }, "duplicate name"},
		{"bad step date", func(s *Scenario) { s.Steps[0].Date = "01/01/2024" }, "steps[0]"},
		{"missing action", func(s *Scenario) { s.Steps[0].Action = "" }, "action is required"},
		{"unknown action", func(s *Scenario) { s.Steps[0].Action = "launch" }, `unknown action "launch"`},
		{"toggle unknown routine", func(s *Scenario) {
			s.Steps = append(s.Steps, Step{Date: "2024-01-02", Action: ActionToggle, Routine: "gym"})
		}, `unknown routine "gym"`},
		{"routine on apply", func(s *Scenario) { s.Steps[0].Routine = "standup" }, "routine is only valid for toggle"},
		{"toggle with expect", func(s *Scenario) {
			s.Steps = append(s.Steps, Step{Date: "2024-01-02", Action: ActionToggle, Routine: "standup", Expect: &StepExpect{}})
		}, "expect is not allowed"},
		{"missing assertion type", func(s *Scenario) { s.Assertions[0].Type = "" }, "type is required"},
		{"unknown assertion type", func(s *Scenario) { s.Assertions[0].Type = "trace_order" }, `unknown type "trace_order"`},
		{"task_on without date", func(s *Scenario) {
			s.Assertions = append(s.Assertions, Assertion{Type: AssertTaskOn, Title: "Standup"})
		}, "assertions[1]"},
		{"task_count without title", func(s *Scenario) {
			s.Assertions = append(s.Assertions, Assertion{Type: AssertTaskCount})
		}, "task_count requires title"},
		{"last_applied unknown routine", func(s *Scenario) {
			s.Assertions = append(s.Assertions, Assertion{Type: AssertLastApplied, Routine: "gym", Date: Never})
		}, `unknown routine "gym"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)
			err := validateScenario(&s)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateScenario_AcceptsNeverAndOptionalDate(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, validScenario))
	require.NoError(t, err)

	s.Assertions = append(s.Assertions,
		Assertion{Type: AssertLastApplied, Routine: "standup", Date: Never},
		Assertion{Type: AssertTaskCount, Title: "Standup", Count: 1},
	)
	assert.NoError(t, validateScenario(s))
}
