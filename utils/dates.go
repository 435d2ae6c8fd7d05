package utils

import (
	"fmt"
	"time"

	"healthcart/config"
)

const DateLayout = "2006-01-02"

// Location returns the configured business timezone, falling back to UTC.
func Location() *time.Location {
	if config.AppConfig.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(config.AppConfig.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ParseDate accepts "2006-01-02" or an RFC3339 timestamp and returns the calendar date as
// midnight UTC. Timestamps are read in loc before the time of day is dropped.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(DateLayout, raw, loc); err == nil {
		return CalendarDate(t, loc), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", raw)
	}
	return CalendarDate(t, loc), nil
}

// CalendarDate normalizes t to midnight UTC of its calendar day in loc.
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a normalized date.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
