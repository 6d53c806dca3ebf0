package routinefile

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/Imhotep-Tech/imhotep-tasks/internal/recurrence"
)

// loadCUE builds the CUE instance in dir and reads the top-level routine map.
func loadCUE(dir string) (*Result, []error) {
	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{cueLoadError(ErrCodeLoadFailed, "", inst.Err)}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{cueLoadError(ErrCodeBuildFailed, "", err)}
	}

	res := &Result{Format: FormatCUE, FileCount: len(cueFiles)}
	var errs []error

	routines := value.LookupPath(cue.ParsePath("routine"))
	if !routines.Exists() {
		return res, []error{&LoadError{Code: ErrCodeNoFiles, Message: "no routine definitions found"}}
	}

	iter, err := routines.Fields()
	if err != nil {
		return res, []error{cueLoadError(ErrCodeGeneric, "", err)}
	}
	for iter.Next() {
		d, err := decodeCUE(iter.Label(), iter.Value())
		if err != nil {
			errs = append(errs, err)
			continue
		}
		res.Definitions = append(res.Definitions, d)
	}

	return res, errs
}

// decodeCUE reads one routine struct field by field.
func decodeCUE(name string, v cue.Value) (Definition, error) {
	d := Definition{Name: name}
	setPos(&d, v.Pos())

	bad := func(field string, err error) error {
		le := cueLoadError(ErrCodeBadField, name, err)
		le.Message = fmt.Sprintf("%s: %s", field, le.Message)
		if le.File == "" {
			le.File, le.Line, le.Column = d.File, d.Line, d.Column
		}
		return le
	}

	var err error
	if d.Title, err = optionalString(v, "title"); err != nil {
		return d, bad("title", err)
	}
	kind, err := optionalString(v, "type")
	if err != nil {
		return d, bad("type", err)
	}
	d.Kind = recurrence.Kind(kind)

	if dates := v.LookupPath(cue.ParsePath("dates")); dates.Exists() {
		if err := dates.Decode(&d.Dates); err != nil {
			return d, bad("dates", err)
		}
	}
	if active := v.LookupPath(cue.ParsePath("active")); active.Exists() {
		b, err := active.Bool()
		if err != nil {
			return d, bad("active", err)
		}
		d.Active = &b
	}

	finance := []struct {
		field string
		dst   *string
	}{
		{"price", &d.Finance.Price},
		{"currency", &d.Finance.Currency},
		{"category", &d.Finance.Category},
		{"status", &d.Finance.Status},
	}
	for _, f := range finance {
		if *f.dst, err = optionalString(v, "finance."+f.field); err != nil {
			return d, bad("finance."+f.field, err)
		}
	}

	return d, nil
}

func optionalString(v cue.Value, path string) (string, error) {
	f := v.LookupPath(cue.ParsePath(path))
	if !f.Exists() {
		return "", nil
	}
	return f.String()
}

func setPos(d *Definition, pos token.Pos) {
	if !pos.IsValid() {
		return
	}
	d.File, d.Line, d.Column = pos.Filename(), pos.Line(), pos.Column()
}

// cueLoadError converts a CUE error, keeping the first position it carries.
func cueLoadError(code, name string, err error) *LoadError {
	le := &LoadError{Code: code, Name: name, Message: err.Error()}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return le
	}
	first := errs[0]
	le.Message = first.Error()
	if positions := cueerrors.Positions(first); len(positions) > 0 && positions[0].IsValid() {
		le.File, le.Line, le.Column = positions[0].Filename(), positions[0].Line(), positions[0].Column()
	}
	return le
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
