package harness

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// TraceSnapshot is what a golden file holds for a scenario.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	Trace        []TraceEvent `json:"trace"`
}

// RunWithGolden executes a scenario and compares its trace against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if the scenario could not run. A trace mismatch fails t
// through goldie.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario)
	if err != nil {
		return nil, err
	}

	traceJSON, err := marshalSnapshot(TraceSnapshot{ScenarioName: scenario.Name, Trace: result.Trace})
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, traceJSON)

	return result, nil
}

// marshalSnapshot renders a snapshot as indented JSON with a trailing newline.
// Struct fields keep declaration order, so the output is stable.
func marshalSnapshot(s TraceSnapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
