package utils

import (
	"strings"
	"time"
)

const (
	layoutDate       = "2006-01-02"
	layoutDateTime   = "2006-01-02 15:04:05"
	layoutInputLocal = "2006-01-02T15:04"
)

// zoneLayouts carry an explicit offset; naiveLayouts are read as wall-clock time.
var (
	zoneLayouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04Z07:00",
	}
	naiveLayouts = []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		layoutInputLocal,
		"2006-01-02 15:04:05.999999999",
		layoutDateTime,
		"2006-01-02 15:04",
		layoutDate,
	}
)

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// NowISO formats the current UTC time as RFC3339.
func NowISO() string {
	return NowUTC().Format(time.RFC3339)
}

// ParseDate parses YYYY-MM-DD in local timezone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDate, strings.TrimSpace(s), time.Local)
}

// ParseTimestamp accepts the API's date-time shapes. Values with an offset are
// converted to UTC; values without one keep their wall-clock reading in UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range zoneLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatInputDateTime renders a timestamp for a datetime-local input, or "" when unparseable.
func FormatInputDateTime(s string) string {
	t, ok := ParseTimestamp(s)
	if !ok {
		return ""
	}
	return t.Format(layoutInputLocal)
}

// FormatDate formats time to YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(layoutDate)
}

// FormatDateTime formats time to "YYYY-MM-DD HH:MM:SS".
func FormatDateTime(t time.Time) string {
	return t.Format(layoutDateTime)
}

// DisplayDateTime renders an API timestamp for tables, falling back to the raw value.
func DisplayDateTime(s string) string {
	t, ok := ParseTimestamp(s)
	if !ok {
		return s
	}
	return t.Format("2006-01-02 15:04")
}

// DisplayDate renders the date part of an API timestamp.
func DisplayDate(s string) string {
	t, ok := ParseTimestamp(s)
	if !ok {
		return s
	}
	return FormatDate(t)
}
