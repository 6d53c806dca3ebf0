package recurrence

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Spec is a parsed schedule. The implementations are Weekly, Monthly and Yearly.
type Spec interface {
	Kind() Kind
	// Tokens renders the spec back to its canonical token list, sorted.
	Tokens() []string
}

// Weekly fires on a set of weekdays.
type Weekly struct {
	days [7]bool
}

// NewWeekly builds a Weekly spec from weekdays.
func NewWeekly(days ...time.Weekday) Weekly {
	var w Weekly
	for _, d := range days {
		if d >= time.Sunday && d <= time.Saturday {
			w.days[d] = true
		}
	}
	return w
}

func (Weekly) Kind() Kind { return KindWeekly }

// Has reports whether d is in the set.
func (w Weekly) Has(d time.Weekday) bool {
	return d >= time.Sunday && d <= time.Saturday && w.days[d]
}

// Tokens returns weekday names, Monday first.
func (w Weekly) Tokens() []string {
	out := []string{}
	for i := 1; i <= 7; i++ {
		d := time.Weekday(i % 7)
		if w.days[d] {
			out = append(out, WeekdayName(d))
		}
	}
	return out
}

// Monthly fires on a set of days of the month.
type Monthly struct {
	days [32]bool
}

// NewMonthly builds a Monthly spec. Days outside 1..31 are ignored.
func NewMonthly(days ...int) Monthly {
	var m Monthly
	for _, d := range days {
		if d >= 1 && d <= 31 {
			m.days[d] = true
		}
	}
	return m
}

func (Monthly) Kind() Kind { return KindMonthly }

// Has reports whether day is in the set.
func (m Monthly) Has(day int) bool {
	return day >= 1 && day <= 31 && m.days[day]
}

// Tokens returns unpadded day numbers in ascending order.
func (m Monthly) Tokens() []string {
	out := []string{}
	for d := 1; d <= 31; d++ {
		if m.days[d] {
			out = append(out, fmt.Sprint(d))
		}
	}
	return out
}

// MonthDay is a day of the year without a year.
type MonthDay struct {
	Month time.Month
	Day   int
}

// String returns the zero-padded MM-DD form.
func (md MonthDay) String() string {
	return fmt.Sprintf("%02d-%02d", int(md.Month), md.Day)
}

// Yearly fires on a set of month-days.
type Yearly struct {
	dates map[MonthDay]struct{}
}

// NewYearly builds a Yearly spec. The month-days are not validated; use Parse
// for untrusted input.
func NewYearly(dates ...MonthDay) Yearly {
	y := Yearly{dates: make(map[MonthDay]struct{}, len(dates))}
	for _, md := range dates {
		y.dates[md] = struct{}{}
	}
	return y
}

func (Yearly) Kind() Kind { return KindYearly }

// Has reports whether md is in the set.
func (y Yearly) Has(md MonthDay) bool {
	_, ok := y.dates[md]
	return ok
}

// Tokens returns MM-DD strings in calendar order.
func (y Yearly) Tokens() []string {
	out := make([]string, 0, len(y.dates))
	for md := range y.dates {
		out = append(out, md.String())
	}
	sort.Strings(out)
	return out
}

// WeekdayName returns the lowercase English name used in weekly schedules.
func WeekdayName(d time.Weekday) string {
	return strings.ToLower(d.String())
}
