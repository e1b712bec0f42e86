package shared

import (
	"fmt"
	"time"
)

var dateFormats = []string{"2006-01-02", time.RFC3339}

// ParseDate reads a calendar date from a cycle payload. A full timestamp is
// accepted but its time-of-day is discarded: cycle and phase boundaries are
// whole days.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	for _, format := range dateFormats {
		parsed, err := time.Parse(format, value)
		if err != nil {
			continue
		}
		return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}
