// Package dateutil centralizes calendar-date handling. Every date-only
// string in the persisted blob must go through ParseFlexible so a bare
// YYYY-MM-DD value lands on the intended local day instead of UTC midnight.
package dateutil

import (
	"fmt"
	"regexp"
	"time"
)

const dateOnlyLayout = "2006-01-02"

var dateOnlyRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsDateOnly reports whether raw is a bare calendar date with no time or
// zone component.
func IsDateOnly(raw string) bool {
	return dateOnlyRe.MatchString(raw)
}

// ParseLocalDate parses a YYYY-MM-DD string as midnight in the local zone.
func ParseLocalDate(raw string) (time.Time, error) {
	t, err := time.ParseInLocation(dateOnlyLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse local date %q: %w", raw, err)
	}
	return t, nil
}

// ParseFlexible parses either a bare calendar date (as a local day) or a
// full timestamp (RFC3339).
func ParseFlexible(raw string) (time.Time, error) {
	if IsDateOnly(raw) {
		return ParseLocalDate(raw)
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", raw, err)
	}
	return t, nil
}

// SameDay reports whether two instants fall on the same local calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// SchoolYearStart returns July 1 of the school year containing t. The
// reporting period runs July 1 through June 30.
func SchoolYearStart(t time.Time) time.Time {
	year := t.Year()
	if t.Month() < time.July {
		year--
	}
	return time.Date(year, time.July, 1, 0, 0, 0, 0, t.Location())
}

// SchoolYearWindow returns the [start, end) window for the school year that
// begins July 1 of startYear.
func SchoolYearWindow(startYear int, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.Local
	}
	start := time.Date(startYear, time.July, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(1, 0, 0)
}

// SchoolYearOf returns the starting year of the school year containing t.
func SchoolYearOf(t time.Time) int {
	return SchoolYearStart(t).Year()
}
