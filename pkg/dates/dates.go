// Package dates collapses timestamps to day-granularity values. Every entry is
// keyed by the local midnight of its calendar day, so all writers must agree
// on how a date string or timestamp maps to that key.
package dates

import (
	"errors"
	"time"
)

// ErrInvalidDate is returned when an input cannot be interpreted as a
// calendar date.
var ErrInvalidDate = errors.New("invalid date")

// acceptedLayouts are tried in order when parsing client-supplied dates.
var acceptedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
}

// Normalize truncates t to local midnight of its calendar day. Normalizing an
// already-normalized value returns an equal value.
func Normalize(t time.Time) time.Time {
	local := t.Local()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local)
}

// Parse interprets s as a calendar date and returns its normalized (local
// midnight) value. Unparseable input yields ErrInvalidDate rather than a
// partial result.
func Parse(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range acceptedLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return Normalize(t), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// Today returns the normalized current calendar day.
func Today() time.Time {
	return Normalize(time.Now())
}

// SameDay reports whether a and b fall on the same local calendar day.
func SameDay(a, b time.Time) bool {
	return Normalize(a).Equal(Normalize(b))
}

// StartOfMonth returns local midnight on the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	local := t.Local()
	return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, time.Local)
}

// MonthKey formats t's month as "2006-01", the key stamped on archived
// entries.
func MonthKey(t time.Time) string {
	return t.Local().Format("2006-01")
}
