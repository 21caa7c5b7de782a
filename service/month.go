package service

import (
	"fmt"
	"time"
)

// MonthKey returns the YYYY-MM competence key for a point in time.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// monthStart returns the first day of the month n months after t.
// Anchoring at day 1 avoids end-of-month overflow (Jan 31 + 1 month
// must land in February, not March).
func monthStart(t time.Time, n int) time.Time {
	return time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, t.Location())
}

// daysInMonth returns the number of days in the month containing t.
func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// formatDay renders a calendar date as YYYY-MM-DD inside t's month.
func formatDay(t time.Time, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), day)
}

// parseFlexibleDate accepts the date formats found in legacy records:
// RFC 3339 timestamps, bare dates and the dashboard's datetime form.
func parseFlexibleDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
