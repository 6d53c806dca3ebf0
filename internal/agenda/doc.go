// Package agenda is the user-facing layer over the store and the
// materialization engine.
//
// The Today and NextWeek views run an automatic apply for the current date
// before reading, so routines that fire today show up without any explicit
// action. All does not apply; a routine firing today is only visible there
// after one of the other views (or ApplyNow) ran.
//
// Every operation is scoped to one owner. Lookups of another owner's routine
// or task fail with model.ErrNotFound.
package agenda
