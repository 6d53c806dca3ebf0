package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Imhotep-Tech/imhotep-tasks/internal/calendar"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/routinefile"
)

// Scenario defines a routine scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Owner runs every step. Empty means "default".
	Owner string `yaml:"owner,omitempty"`

	// Routines are created before the first step, in order.
	Routines []routinefile.Definition `yaml:"routines"`

	// Steps run in order, each on its own date.
	Steps []Step `yaml:"steps"`

	// Assertions validate the tasks and routines after the last step.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one action on one day.
type Step struct {
	// Date is the day the step runs on, YYYY-MM-DD.
	Date string `yaml:"date"`

	// Action is one of the Action* constants.
	Action string `yaml:"action"`

	// Routine names the routine for toggle.
	Routine string `yaml:"routine,omitempty"`

	// Expect checks the apply the step ran. Nil fields are not checked.
	Expect *StepExpect `yaml:"expect,omitempty"`
}

// StepExpect holds the expected apply counters of a step.
type StepExpect struct {
	Created *int `yaml:"created,omitempty"`
	Skipped *int `yaml:"skipped,omitempty"`
	Failed  *int `yaml:"failed,omitempty"`
}

// Assertion validates the final state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Title selects tasks (task_count, task_on, no_task_on).
	Title string `yaml:"title,omitempty"`

	// Routine names a routine (last_applied).
	Routine string `yaml:"routine,omitempty"`

	// Date is a YYYY-MM-DD day, or "never" for last_applied.
	Date string `yaml:"date,omitempty"`

	// Count is the expected number (task_count, total_tasks).
	Count int `yaml:"count"`
}

// Step actions.
const (
	ActionToday     = "today"
	ActionWeek      = "week"
	ActionApply     = "apply"
	ActionApplyAuto = "apply_auto"
	ActionToggle    = "toggle"
)

// Assertion type constants.
const (
	AssertTaskCount   = "task_count"
	AssertTaskOn      = "task_on"
	AssertNoTaskOn    = "no_task_on"
	AssertLastApplied = "last_applied"
	AssertTotalTasks  = "total_tasks"
)

// Never is the last_applied date of a routine that has not fired.
const Never = "never"

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict decoding catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Routines) == 0 {
		return fmt.Errorf("routines list is required and must be non-empty")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	names := make(map[string]bool, len(s.Routines))
	for i, r := range s.Routines {
		if r.Name == "" {
			return fmt.Errorf("routines[%d]: name is required", i)
		}
		if names[r.Name] {
			return fmt.Errorf("routines[%d]: duplicate name %q", i, r.Name)
		}
		names[r.Name] = true
	}

	for i, step := range s.Steps {
		if _, err := calendar.ParseDate(step.Date); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
		switch step.Action {
		case ActionToday, ActionWeek, ActionApply, ActionApplyAuto:
			if step.Routine != "" {
				return fmt.Errorf("steps[%d]: routine is only valid for %s", i, ActionToggle)
			}
		case ActionToggle:
			if !names[step.Routine] {
				return fmt.Errorf("steps[%d]: unknown routine %q", i, step.Routine)
			}
			if step.Expect != nil {
				return fmt.Errorf("steps[%d]: %s does not apply, expect is not allowed", i, ActionToggle)
			}
		case "":
			return fmt.Errorf("steps[%d]: action is required", i)
		default:
			return fmt.Errorf("steps[%d]: unknown action %q", i, step.Action)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a, names); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a Assertion, routines map[string]bool) error {
	needDate := func() error {
		if _, err := calendar.ParseDate(a.Date); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
		return nil
	}

	switch a.Type {
	case AssertTaskCount:
		if a.Title == "" {
			return fmt.Errorf("assertions[%d]: task_count requires title", index)
		}
		if a.Date != "" {
			return needDate()
		}
	case AssertTaskOn, AssertNoTaskOn:
		if a.Title == "" {
			return fmt.Errorf("assertions[%d]: %s requires title", index, a.Type)
		}
		return needDate()
	case AssertLastApplied:
		if !routines[a.Routine] {
			return fmt.Errorf("assertions[%d]: unknown routine %q", index, a.Routine)
		}
		if a.Date != Never {
			return needDate()
		}
	case AssertTotalTasks:
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown type %q", index, a.Type)
	}
	return nil
}
