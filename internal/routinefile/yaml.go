package routinefile

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type yamlFile struct {
	Routines []Definition `yaml:"routines"`
}

// loadYAML decodes a routines file with strict field checking, then walks
// the node tree once more to attach line numbers to each definition.
func loadYAML(path string) (*Result, []error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, File: path, Message: fmt.Sprintf("failed to read file: %v", err)}}
	}

	var doc yamlFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&doc); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, File: path, Message: fmt.Sprintf("failed to parse YAML: %v", err)}}
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, File: path, Message: fmt.Sprintf("failed to parse YAML: %v", err)}}
	}
	items := routineNodes(&root)

	res := &Result{Format: FormatYAML, FileCount: 1}
	var errs []error
	seen := make(map[string]int)

	for i, d := range doc.Routines {
		d.File = path
		if i < len(items) {
			d.Line, d.Column = items[i].Line, items[i].Column
		}
		if d.Name == "" {
			d.Name = fmt.Sprintf("routines[%d]", i)
		}
		if first, dup := seen[d.Name]; dup {
			errs = append(errs, &LoadError{
				Code:    ErrCodeDuplicateName,
				Name:    d.Name,
				Message: fmt.Sprintf("duplicate name, first defined on line %d", first),
				File:    d.File,
				Line:    d.Line,
				Column:  d.Column,
			})
			continue
		}
		seen[d.Name] = d.Line
		res.Definitions = append(res.Definitions, d)
	}

	if len(doc.Routines) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeNoFiles, File: path, Message: "no routines defined"})
	}

	return res, errs
}

// routineNodes returns the sequence items under the top-level routines key.
func routineNodes(root *yaml.Node) []*yaml.Node {
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil
	}
	m := root.Content[0]
	if m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == "routines" && m.Content[i+1].Kind == yaml.SequenceNode {
			return m.Content[i+1].Content
		}
	}
	return nil
}
