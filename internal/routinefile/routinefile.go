package routinefile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Imhotep-Tech/imhotep-tasks/internal/agenda"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/model"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/recurrence"
)

// Format names the source format of a load.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
)

// Definition is one routine as written in a file.
type Definition struct {
	Name    string          `yaml:"name"`
	Title   string          `yaml:"title"`
	Kind    recurrence.Kind `yaml:"type"`
	Dates   []string        `yaml:"dates"`
	Active  *bool           `yaml:"active,omitempty"`
	Finance model.Finance   `yaml:"finance,omitempty"`

	// Where the definition starts.
	File   string `yaml:"-"`
	Line   int    `yaml:"-"`
	Column int    `yaml:"-"`
}

// Input converts the definition to an agenda.RoutineInput.
// A missing active flag means active.
func (d Definition) Input() agenda.RoutineInput {
	return agenda.RoutineInput{
		Title:    d.Title,
		Kind:     d.Kind,
		Schedule: d.Dates,
		Finance:  d.Finance,
		Paused:   d.Active != nil && !*d.Active,
	}
}

// Result holds the definitions that loaded cleanly.
type Result struct {
	Format      Format
	Definitions []Definition
	FileCount   int
}

// Load reads routine definitions from a YAML file or a directory of CUE
// files. The returned errors are *LoadError values; definitions with errors
// are left out of the result.
func Load(path string) (*Result, []error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("path not found: %s", path)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing path: %v", err)}}
	}

	var (
		res  *Result
		errs []error
	)
	switch {
	case info.IsDir():
		res, errs = loadCUE(path)
	case isYAML(path):
		res, errs = loadYAML(path)
	default:
		return nil, []error{&LoadError{
			Code:    ErrCodeLoadFailed,
			File:    path,
			Message: "expected a .yaml/.yml file or a directory of .cue files",
		}}
	}
	if res == nil {
		return nil, errs
	}

	valid := res.Definitions[:0]
	for _, d := range res.Definitions {
		if err := check(d); err != nil {
			errs = append(errs, err)
			continue
		}
		valid = append(valid, d)
	}
	res.Definitions = valid

	return res, errs
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// check applies the rules AddRoutine applies.
func check(d Definition) *LoadError {
	fail := func(code, msg string) *LoadError {
		return &LoadError{Code: code, Name: d.Name, Message: msg, File: d.File, Line: d.Line, Column: d.Column}
	}

	if model.NormalizeTitle(d.Title) == "" {
		return fail(ErrCodeMissingTitle, "title is required and cannot be empty")
	}
	if d.Kind == "" || len(d.Dates) == 0 {
		return fail(ErrCodeMissingDates, "the routine type and dates must be set")
	}

	err := recurrence.Validate(d.Kind, d.Dates)
	var ve *recurrence.ValidationError
	var uk *recurrence.UnknownKindError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ve):
		return fail(ve.Code, err.Error())
	case errors.As(err, &uk):
		return fail(recurrence.ErrCodeUnknownKind, err.Error())
	default:
		return fail(ErrCodeGeneric, err.Error())
	}
}
