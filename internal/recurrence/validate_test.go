package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_YearlyAccepted(t *testing.T) {
	tests := [][]string{
		{"02-29"},
		{"01-01", "12-31"},
		{"04-30", "06-30", "09-30", "11-30"},
		{"01-31", "03-31", "05-31", "07-31", "08-31", "10-31", "12-31"},
	}
	for _, tokens := range tests {
		assert.NoError(t, Validate(KindYearly, tokens), "tokens %v", tokens)
	}
}

func TestValidate_YearlyRejected(t *testing.T) {
	tests := []struct {
		token  string
		code   string
		reason string
	}{
		{"02-30", ErrCodeBadDay, "Day must be between 01-29 for month 02, got: 30"},
		{"13-01", ErrCodeBadMonth, "Month must be between 01-12, got: 13"},
		{"00-15", ErrCodeBadMonth, "Month must be between 01-12, got: 00"},
		{"04-31", ErrCodeBadDay, "Day must be between 01-30 for month 04, got: 31"},
		{"01-00", ErrCodeBadDay, "Day must be between 01-31 for month 01, got: 00"},
		{"1-15", ErrCodeBadFormat, "Date must be in MM-DD format, got: 1-15"},
		{"2024-01-15", ErrCodeBadFormat, "Date must be in MM-DD format, got: 2024-01-15"},
		{"ab-cd", ErrCodeBadFormat, "Date must be in MM-DD format, got: ab-cd"},
		{"", ErrCodeBadFormat, "Date must be in MM-DD format, got: "},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			err := Validate(KindYearly, []string{"01-01", tt.token})
			require.Error(t, err)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.code, ve.Code)
			assert.Equal(t, tt.reason, ve.Reason)
			assert.Equal(t, KindYearly, ve.Kind)
		})
	}
}

func TestValidate_YearlyEmpty(t *testing.T) {
	for _, tokens := range [][]string{nil, {}} {
		err := Validate(KindYearly, tokens)

		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, ErrCodeEmptySchedule, ve.Code)
		assert.Equal(t, "At least one date must be provided", ve.Reason)
	}
}

func TestValidate_WeeklyMonthlyUnchecked(t *testing.T) {
	assert.NoError(t, Validate(KindWeekly, nil))
	assert.NoError(t, Validate(KindWeekly, []string{"Monday", "funday"}))
	assert.NoError(t, Validate(KindMonthly, nil))
	assert.NoError(t, Validate(KindMonthly, []string{"01", "32", "x"}))
}

func TestValidate_UnknownKind(t *testing.T) {
	err := Validate(Kind("daily"), []string{"1"})
	require.Error(t, err)
	assert.True(t, IsUnknownKind(err))
	assert.False(t, IsValidationError(err))
	assert.Contains(t, err.Error(), `"daily"`)
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := ParseKind("Weekly")
	assert.True(t, IsUnknownKind(err))
}

func TestParse_Weekly(t *testing.T) {
	spec, err := Parse(KindWeekly, []string{"wednesday", "monday", "Monday", "funday"})
	require.NoError(t, err)

	w, ok := spec.(Weekly)
	require.True(t, ok)
	assert.True(t, w.Has(time.Monday))
	assert.True(t, w.Has(time.Wednesday))
	assert.False(t, w.Has(time.Sunday))
	assert.Equal(t, []string{"monday", "wednesday"}, w.Tokens())
}

func TestParse_MonthlyKeepsCanonicalTokensOnly(t *testing.T) {
	spec, err := Parse(KindMonthly, []string{"1", "01", "15", "31", "32", "0", "-1", "+2", " 3"})
	require.NoError(t, err)

	m := spec.(Monthly)
	assert.Equal(t, []string{"1", "15", "31"}, m.Tokens())
}

func TestParse_Yearly(t *testing.T) {
	spec, err := Parse(KindYearly, []string{"12-25", "02-29", "12-25"})
	require.NoError(t, err)

	y := spec.(Yearly)
	assert.True(t, y.Has(MonthDay{Month: time.February, Day: 29}))
	assert.Equal(t, []string{"02-29", "12-25"}, y.Tokens())
}

func TestParse_YearlyInvalid(t *testing.T) {
	spec, err := Parse(KindYearly, []string{"02-30"})
	assert.Nil(t, spec)
	assert.True(t, IsValidationError(err))
}

func TestMaxDay(t *testing.T) {
	assert.Equal(t, 29, MaxDay(time.February))
	assert.Equal(t, 30, MaxDay(time.November))
	assert.Equal(t, 31, MaxDay(time.December))
}

func TestProvenance(t *testing.T) {
	assert.Equal(t, "Created from weekly routine: Standup", Provenance(KindWeekly, "Standup"))
	assert.Equal(t, "Created from yearly routine: Taxes", Provenance(KindYearly, "Taxes"))
}
