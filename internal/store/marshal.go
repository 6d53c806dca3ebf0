package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Imhotep-Tech/imhotep-tasks/internal/calendar"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// marshalSchedule encodes schedule tokens as a JSON array. nil encodes as [].
func marshalSchedule(tokens []string) (string, error) {
	if tokens == nil {
		tokens = []string{}
	}
	b, err := json.Marshal(tokens)
	if err != nil {
		return "", fmt.Errorf("marshal schedule: %w", err)
	}
	return string(b), nil
}

func unmarshalSchedule(s string) ([]string, error) {
	var tokens []string
	if err := json.Unmarshal([]byte(s), &tokens); err != nil {
		return nil, fmt.Errorf("unmarshal schedule: %w", err)
	}
	if tokens == nil {
		tokens = []string{}
	}
	return tokens, nil
}

func nullDate(d *calendar.Date) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func parseNullDate(ns sql.NullString) (*calendar.Date, error) {
	if !ns.Valid {
		return nil, nil
	}
	d, err := calendar.ParseDate(ns.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
