package routinefile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Imhotep-Tech/imhotep-tasks/internal/model"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/recurrence"
)

func codes(errs []error) []string {
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		var le *LoadError
		if errors.As(err, &le) {
			out = append(out, le.Code)
		} else {
			out = append(out, "?")
		}
	}
	return out
}

func names(defs []Definition) []string {
	out := make([]string, len(defs))
	for i, d := range defs {
		out[i] = d.Name
	}
	return out
}

func TestLoadYAML_Valid(t *testing.T) {
	res, errs := Load(filepath.Join("testdata", "routines.yaml"))
	require.Empty(t, errs)
	require.NotNil(t, res)

	assert.Equal(t, FormatYAML, res.Format)
	assert.Equal(t, 1, res.FileCount)
	assert.Equal(t, []string{"rent", "standup", "leap"}, names(res.Definitions))

	rent := res.Definitions[0]
	assert.Equal(t, "Pay rent", rent.Title)
	assert.Equal(t, recurrence.KindMonthly, rent.Kind)
	assert.Equal(t, []string{"1"}, rent.Dates)
	assert.Equal(t, model.Finance{Price: "900.00", Currency: "EUR", Category: "housing", Status: "expense"}, rent.Finance)
	assert.Equal(t, 2, rent.Line)
	assert.False(t, rent.Input().Paused)

	leap := res.Definitions[2]
	require.NotNil(t, leap.Active)
	assert.True(t, leap.Input().Paused)
}

func TestLoadYAML_CollectsAllErrors(t *testing.T) {
	path := filepath.Join("testdata", "invalid.yaml")
	res, errs := Load(path)
	require.NotNil(t, res)

	assert.Equal(t, []string{"ok"}, names(res.Definitions))
	assert.ElementsMatch(t,
		[]string{ErrCodeDuplicateName, recurrence.ErrCodeBadDay, ErrCodeMissingTitle},
		codes(errs))

	for _, err := range errs {
		assert.Contains(t, err.Error(), path+":")
	}
}

func TestLoadYAML_DayErrorCarriesReason(t *testing.T) {
	_, errs := Load(filepath.Join("testdata", "invalid.yaml"))

	var found bool
	for _, err := range errs {
		var le *LoadError
		require.ErrorAs(t, err, &le)
		if le.Name == "bad-day" {
			found = true
			assert.Equal(t, 7, le.Line)
			assert.Contains(t, le.Message, "Day must be between 01-30 for month 04, got: 31")
		}
	}
	assert.True(t, found)
}

func TestLoadYAML_RejectsUnknownFields(t *testing.T) {
	res, errs := Load(filepath.Join("testdata", "unknown_field.yaml"))
	assert.Nil(t, res)
	require.Len(t, errs, 1)
	assert.Equal(t, []string{ErrCodeLoadFailed}, codes(errs))
	assert.Contains(t, errs[0].Error(), "date")
}

func TestLoadYAML_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yml")
	require.NoError(t, os.WriteFile(path, []byte("routines: []\n"), 0o644))

	res, errs := Load(path)
	require.NotNil(t, res)
	assert.Empty(t, res.Definitions)
	assert.Equal(t, []string{ErrCodeNoFiles}, codes(errs))
}

func TestLoadCUE_Valid(t *testing.T) {
	res, errs := Load(filepath.Join("testdata", "cue", "valid"))
	require.Empty(t, errs)
	require.NotNil(t, res)

	assert.Equal(t, FormatCUE, res.Format)
	assert.Equal(t, 1, res.FileCount)
	require.Len(t, res.Definitions, 2)

	byName := make(map[string]Definition)
	for _, d := range res.Definitions {
		byName[d.Name] = d
	}

	rent := byName["rent"]
	assert.Equal(t, "Pay rent", rent.Title)
	assert.Equal(t, []string{"1", "15"}, rent.Dates)
	assert.Equal(t, "900.00", rent.Finance.Price)
	assert.Equal(t, "EUR", rent.Finance.Currency)
	assert.Nil(t, rent.Active)
	assert.NotZero(t, rent.Line)

	bday := byName["birthday"]
	assert.Equal(t, recurrence.KindYearly, bday.Kind)
	assert.True(t, bday.Input().Paused)
}

func TestLoadCUE_CollectsAllErrors(t *testing.T) {
	res, errs := Load(filepath.Join("testdata", "cue", "invalid"))
	require.NotNil(t, res)

	assert.Equal(t, []string{"standup"}, names(res.Definitions))
	assert.ElementsMatch(t,
		[]string{recurrence.ErrCodeBadMonth, recurrence.ErrCodeUnknownKind, ErrCodeBadField},
		codes(errs))
}

func TestLoadCUE_NoFiles(t *testing.T) {
	res, errs := Load(t.TempDir())
	assert.Nil(t, res)
	assert.Equal(t, []string{ErrCodeNoFiles}, codes(errs))
}

func TestLoad_NotFound(t *testing.T) {
	res, errs := Load(filepath.Join("testdata", "missing.yaml"))
	assert.Nil(t, res)
	assert.Equal(t, []string{ErrCodeNotFound}, codes(errs))
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routines.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	res, errs := Load(path)
	assert.Nil(t, res)
	assert.Equal(t, []string{ErrCodeLoadFailed}, codes(errs))
}

func TestLoadError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  LoadError
		want string
	}{
		{"bare", LoadError{Code: "E005", Message: "path not found: x"}, "E005: path not found: x"},
		{"named", LoadError{Code: "E101", Name: "rent", Message: "title missing"}, `E101: routine "rent": title missing`},
		{"line", LoadError{Code: "E101", Message: "m", File: "a.yaml", Line: 3}, "a.yaml:3: E101: m"},
		{"column", LoadError{Code: "E101", Message: "m", File: "a.cue", Line: 3, Column: 9}, "a.cue:3:9: E101: m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}
