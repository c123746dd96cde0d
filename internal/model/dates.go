package model

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	ClockLayout    = "15:04"
	DateTimeLayout = "2006-01-02T15:04"
)

// DayOf formats t as a calendar date in t's own location.
func DayOf(t time.Time) string {
	return t.Format(DateLayout)
}

func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	day, err := time.ParseInLocation(DateLayout, strings.TrimSpace(raw), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", raw)
	}
	return day, nil
}

func ParseClock(raw string) (hour, minute int, err error) {
	parsed, perr := time.Parse(ClockLayout, strings.TrimSpace(raw))
	if perr != nil {
		return 0, 0, fmt.Errorf("invalid time %q, want HH:MM", raw)
	}
	return parsed.Hour(), parsed.Minute(), nil
}

// ParseDateTime accepts "YYYY-MM-DDTHH:MM" or "YYYY-MM-DD HH:MM".
func ParseDateTime(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	normalized := strings.Replace(strings.TrimSpace(raw), " ", "T", 1)
	out, err := time.ParseInLocation(DateTimeLayout, normalized, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date-time %q, want YYYY-MM-DD HH:MM", raw)
	}
	return out, nil
}

// WeekWindow returns the Sunday and Saturday dates bounding ref's week.
// The week always starts on Sunday regardless of locale.
func WeekWindow(ref time.Time) (start, end string) {
	y, m, d := ref.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, ref.Location())
	sunday := midnight.AddDate(0, 0, -int(midnight.Weekday()))
	return DayOf(sunday), DayOf(sunday.AddDate(0, 0, 6))
}

// InWeek reports whether date falls inside ref's week window. Dates are
// YYYY-MM-DD so lexical order is calendar order.
func InWeek(date string, ref time.Time) bool {
	start, end := WeekWindow(ref)
	return date >= start && date <= end
}
