package recurrence

import "fmt"

// Provenance is the details text written on a task materialized from a routine.
//
// Tasks also carry the originating routine ID; this text is what users read
// and what the secondary duplicate check compares against.
func Provenance(kind Kind, title string) string {
	return fmt.Sprintf("Created from %s routine: %s", kind, title)
}
