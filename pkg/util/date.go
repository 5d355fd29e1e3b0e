package util

import (
    "time"
)

// DayLayout is the ISO calendar-day layout used across config, the
// price source and the CSV artifacts.
const DayLayout = "2006-01-02"

// ParseDay parses an ISO calendar day in UTC. Returns (t, true) if it
// worked.
func ParseDay(s string) (time.Time, bool) {
    if s == "" {
        return time.Time{}, false
    }
    t, err := time.ParseInLocation(DayLayout, s, time.UTC)
    if err != nil {
        return time.Time{}, false
    }
    return t, true
}

// ParseDayDefault parses a day or returns the default if empty/invalid.
func ParseDayDefault(s string, def time.Time) time.Time {
    if t, ok := ParseDay(s); ok {
        return t
    }
    return def
}

// FormatDay renders t as an ISO calendar day.
func FormatDay(t time.Time) string {
    return t.Format(DayLayout)
}

// WithinDays reports whether t falls inside [from, to] at day
// granularity.
func WithinDays(t, from, to time.Time) bool {
    return !t.Before(from) && !t.After(to)
}
