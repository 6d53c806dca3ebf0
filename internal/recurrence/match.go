package recurrence

import (
	"fmt"

	"github.com/Imhotep-Tech/imhotep-tasks/internal/calendar"
)

// Matches reports whether spec fires on d.
//
// Weekly compares the weekday, monthly the day of month and yearly the
// month-day. A yearly "02-29" needs no leap-year test: no Date in a common
// year carries February 29th.
//
// A nil spec or a type outside the three variants returns *UnknownKindError.
func Matches(spec Spec, d calendar.Date) (bool, error) {
	switch s := spec.(type) {
	case Weekly:
		return s.Has(d.Weekday()), nil
	case Monthly:
		return s.Has(d.Day), nil
	case Yearly:
		return s.Has(MonthDay{Month: d.Month, Day: d.Day}), nil
	case nil:
		return false, &UnknownKindError{Kind: "<nil>"}
	default:
		return false, &UnknownKindError{Kind: fmt.Sprintf("%T", spec)}
	}
}
