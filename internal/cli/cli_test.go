package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Imhotep-Tech/imhotep-tasks/internal/calendar"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/model"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/testutil"
)

// cliEnv runs commands against a temp database with a pinned calendar,
// sequential IDs and a step clock.
type cliEnv struct {
	t      *testing.T
	dir    string
	db     string
	config string
	cal    *calendar.Fixed
	ids    *model.SequenceGenerator
	clock  *testutil.StepClock
}

func newCLIEnv(t *testing.T, today string) *cliEnv {
	t.Helper()

	dir := t.TempDir()
	e := &cliEnv{
		t:      t,
		dir:    dir,
		db:     filepath.Join(dir, "imhotep.db"),
		config: filepath.Join(dir, ".imhotep.yaml"),
		cal:    calendar.NewFixed(calendar.MustParseDate(today)),
		ids:    model.NewSequenceGenerator("id"),
		clock:  testutil.NewStepClock(testutil.Epoch, time.Second),
	}
	cfg := "database:\n  path: " + e.db + "\nowner: alice\nlog:\n  level: error\n"
	require.NoError(t, os.WriteFile(e.config, []byte(cfg), 0644))
	return e
}

type cliResult struct {
	stdout string
	stderr string
	err    error
}

func (e *cliEnv) run(args ...string) cliResult {
	e.t.Helper()

	opts := &RootOptions{
		Calendar:  e.cal,
		IDs:       e.ids,
		Now:       e.clock.Now,
		LogWriter: io.Discard,
	}
	cmd := newRootCommand(opts)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(append([]string{"--config", e.config}, args...))

	err := cmd.ExecuteContext(context.Background())
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// mustRun runs a command that is expected to succeed.
func (e *cliEnv) mustRun(args ...string) string {
	e.t.Helper()
	res := e.run(args...)
	require.NoError(e.t, res.err, "stdout: %s\nstderr: %s", res.stdout, res.stderr)
	return res.stdout
}

// jsonResponse is CLIResponse with the payload left raw.
type jsonResponse struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *CLIError       `json:"error"`
}

// runJSON runs a command with --format json and decodes the payload into
// data when there is one.
func (e *cliEnv) runJSON(data any, args ...string) (jsonResponse, error) {
	e.t.Helper()
	res := e.run(append([]string{"--format", "json"}, args...)...)

	var resp jsonResponse
	require.NoError(e.t, json.Unmarshal([]byte(res.stdout), &resp), "stdout: %s", res.stdout)
	if data != nil && len(resp.Data) > 0 {
		require.NoError(e.t, json.Unmarshal(resp.Data, data))
	}
	return resp, res.err
}

// mustRunJSON is runJSON for commands expected to succeed.
func (e *cliEnv) mustRunJSON(data any, args ...string) {
	e.t.Helper()
	resp, err := e.runJSON(data, args...)
	require.NoError(e.t, err)
	require.Equal(e.t, "ok", resp.Status)
}
