package schedule

import (
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Day truncates t to its calendar day (in t's own location) and returns it as
// midnight UTC, so day arithmetic never crosses a DST shift.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays is calendar-day addition with month and year rollover.
func AddDays(t time.Time, days int) time.Time {
	return Day(t).AddDate(0, 0, days)
}

// DaysBetween returns the whole days from "from" to "to"; negative when to is
// earlier.
func DaysBetween(from, to time.Time) int {
	return int(Day(to).Sub(Day(from)) / (24 * time.Hour))
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// ParseDateOfBirth parses a date of birth, returning ErrInvalidDateOfBirth
// for empty or malformed input.
func ParseDateOfBirth(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, fail(ErrInvalidDateOfBirth, "date of birth is required")
	}
	t, err := ParseDate(s)
	if err != nil {
		return time.Time{}, fail(ErrInvalidDateOfBirth, "date of birth %q is not a YYYY-MM-DD date", s)
	}
	return t, nil
}
