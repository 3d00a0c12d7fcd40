// Package dateutils provides the calendar-date helpers shared by the normalizer,
// the filter engine and the configuration layer.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

// DateLayoutISO is the layout the budgeting service and the configuration use.
const DateLayoutISO = "2006-01-02"

// commonFormats are tried after ISO when parsing operator-supplied dates.
var commonFormats = []string{
	DateLayoutISO,
	time.RFC3339,
	"2006/01/02",
	"02.01.2006",
	"Jan 2, 2006",
}

// ParseDate parses a calendar date and returns it at midnight UTC.
func ParseDate(dateStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, format := range commonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return TruncateToDay(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// TruncateToDay drops the time of day, keeping the calendar date of t in its own
// location, and returns that date at midnight UTC.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ToISODate formats a date as YYYY-MM-DD. The zero time renders as "".
func ToISODate(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format(DateLayoutISO)
}

// InRange reports whether date lies within [start, end] by calendar date.
// A zero bound leaves that side of the range open.
func InRange(date, start, end time.Time) bool {
	day := TruncateToDay(date)
	if !start.IsZero() && day.Before(TruncateToDay(start)) {
		return false
	}
	if !end.IsZero() && day.After(TruncateToDay(end)) {
		return false
	}
	return true
}
