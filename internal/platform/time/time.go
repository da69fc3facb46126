// Package time holds the date handling shared by request binding and query compilation
package time

import (
	"strings"
	"time"
)

// isoLayouts are the shapes accepted for after and before bounds
var isoLayouts = []string{"2006-01-02", time.RFC3339, time.RFC3339Nano}

// ParseISO parses a calendar date or an RFC3339 instant into UTC
func ParseISO(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// StartOfDay truncates t to midnight UTC
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Ptr returns &t, or nil for the zero time
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
