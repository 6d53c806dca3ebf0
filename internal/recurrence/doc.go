// Package recurrence validates and evaluates routine schedules.
//
// A routine's schedule arrives as a kind ("weekly", "monthly", "yearly") plus a
// list of tokens whose shape depends on the kind:
//
//	weekly   lowercase weekday names      "monday" .. "sunday"
//	monthly  unpadded day-of-month        "1" .. "31"
//	yearly   zero-padded month-day        "01-01" .. "12-31"
//
// Parse turns that pair into a typed Spec (Weekly, Monthly or Yearly) once, at
// the boundary, and Matches evaluates a Spec against a calendar.Date without
// touching strings again.
//
// Only yearly tokens are format-checked. Weekly and monthly accept any token
// list, including an empty one; tokens outside the canonical form are kept out
// of the typed set and therefore never match. February's bound is 29 whatever
// year is later evaluated, so "02-29" matches only on real leap days.
package recurrence
