package recurrence

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var monthDayPattern = regexp.MustCompile(`^\d{2}-\d{2}$`)

var weekdaysByName = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Validate checks a raw schedule before it is stored.
//
// Only yearly schedules are format-checked: at least one token, each MM-DD with
// month 01-12 and a day within that month (February allows 29). Weekly and
// monthly schedules are accepted as given. An unknown kind returns
// *UnknownKindError; a bad yearly token returns *ValidationError.
func Validate(kind Kind, tokens []string) error {
	switch kind {
	case KindWeekly, KindMonthly:
		return nil
	case KindYearly:
		_, err := parseYearly(tokens)
		return err
	default:
		return &UnknownKindError{Kind: string(kind)}
	}
}

// Parse validates a raw schedule and returns its typed form.
func Parse(kind Kind, tokens []string) (Spec, error) {
	switch kind {
	case KindWeekly:
		return parseWeekly(tokens), nil
	case KindMonthly:
		return parseMonthly(tokens), nil
	case KindYearly:
		return parseYearly(tokens)
	default:
		return nil, &UnknownKindError{Kind: string(kind)}
	}
}

// parseWeekly keeps exact lowercase weekday names only.
func parseWeekly(tokens []string) Weekly {
	var w Weekly
	for _, tok := range tokens {
		if d, ok := weekdaysByName[tok]; ok {
			w.days[d] = true
		}
	}
	return w
}

// parseMonthly keeps canonical unpadded day numbers only: "1" matches, "01" never does.
func parseMonthly(tokens []string) Monthly {
	var m Monthly
	for _, tok := range tokens {
		n, err := strconv.Atoi(tok)
		if err != nil || strconv.Itoa(n) != tok {
			continue
		}
		if n >= 1 && n <= 31 {
			m.days[n] = true
		}
	}
	return m
}

func parseYearly(tokens []string) (Yearly, error) {
	if len(tokens) == 0 {
		return Yearly{}, &ValidationError{
			Code:   ErrCodeEmptySchedule,
			Kind:   KindYearly,
			Reason: "At least one date must be provided",
		}
	}

	y := Yearly{dates: make(map[MonthDay]struct{}, len(tokens))}
	for _, tok := range tokens {
		md, err := ParseMonthDay(tok)
		if err != nil {
			return Yearly{}, err
		}
		y.dates[md] = struct{}{}
	}
	return y, nil
}

// ParseMonthDay parses one yearly token.
func ParseMonthDay(tok string) (MonthDay, error) {
	if !monthDayPattern.MatchString(tok) {
		return MonthDay{}, &ValidationError{
			Code:   ErrCodeBadFormat,
			Kind:   KindYearly,
			Token:  tok,
			Reason: fmt.Sprintf("Date must be in MM-DD format, got: %s", tok),
		}
	}

	// The pattern guarantees two digits on each side.
	month, _ := strconv.Atoi(tok[:2])
	day, _ := strconv.Atoi(tok[3:])

	if month < 1 || month > 12 {
		return MonthDay{}, &ValidationError{
			Code:   ErrCodeBadMonth,
			Kind:   KindYearly,
			Token:  tok,
			Reason: fmt.Sprintf("Month must be between 01-12, got: %02d", month),
		}
	}

	maxDay := MaxDay(time.Month(month))
	if day < 1 || day > maxDay {
		return MonthDay{}, &ValidationError{
			Code:   ErrCodeBadDay,
			Kind:   KindYearly,
			Token:  tok,
			Reason: fmt.Sprintf("Day must be between 01-%02d for month %02d, got: %02d", maxDay, month, day),
		}
	}

	return MonthDay{Month: time.Month(month), Day: day}, nil
}

// MaxDay is the largest day a yearly token may name for month.
// February is 29 regardless of year.
func MaxDay(month time.Month) int {
	switch month {
	case time.April, time.June, time.September, time.November:
		return 30
	case time.February:
		return 29
	default:
		return 31
	}
}
