// Package recurrence expands a single recurring time-log request into a
// finite, ordered list of dated entry drafts. Generation is pure: nothing is
// persisted here, and each draft is later applied as an independent store
// transition.
package recurrence

import (
	"time"

	"github.com/google/uuid"

	"github.com/brightoak/homeschool-api/internal/models"
	"github.com/brightoak/homeschool-api/internal/store"
)

// StopMode selects which stop condition is active for a request. Exactly one
// of the week budget or the end date applies.
type StopMode string

const (
	StopAfterWeeks StopMode = "weeks"
	StopUntilDate  StopMode = "until-date"
)

// Request describes one logical recurring-entry request for one student.
type Request struct {
	StudentID string
	Start     time.Time
	Pattern   models.RecurrencePattern
	// Weekday is the target day for weekly patterns (0=Sunday..6=Saturday).
	Weekday int

	Mode    StopMode
	Weeks   int
	EndDate *time.Time

	Template Template
}

// Template holds the fields stamped onto every generated occurrence.
type Template struct {
	SubjectID string
	Duration  int
	Location  models.EntryLocation
	Notes     string
	Tags      []string
}

// Generate expands the request into entry drafts sharing a fresh series id.
// An unresolvable stop condition (until-date mode with no end date, or a
// week budget of zero or less) yields no drafts rather than looping.
func Generate(req Request) []store.TimeEntryDraft {
	switch req.Mode {
	case StopAfterWeeks:
		if req.Weeks <= 0 {
			return nil
		}
	case StopUntilDate:
		if req.EndDate == nil {
			return nil
		}
	default:
		return nil
	}

	seriesID := uuid.NewString()
	switch req.Pattern {
	case models.PatternDailyWeekdays:
		return generateWeekdays(req, seriesID)
	case models.PatternWeekly:
		return generateWeekly(req, seriesID)
	default:
		return nil
	}
}

// generateWeekdays emits one draft per Monday-through-Friday day starting at
// the request date. In week-budget mode a week completes each time a Sunday
// is crossed after at least one draft has been emitted.
func generateWeekdays(req Request, seriesID string) []store.TimeEntryDraft {
	var drafts []store.TimeEntryDraft
	day := truncateToDay(req.Start)
	completedWeeks := 0

	for {
		if req.Mode == StopUntilDate && day.After(truncateToDay(*req.EndDate)) {
			break
		}
		if req.Mode == StopAfterWeeks && completedWeeks >= req.Weeks {
			break
		}

		wd := day.Weekday()
		if wd >= time.Monday && wd <= time.Friday {
			drafts = append(drafts, req.draft(day, seriesID, nil))
		}
		if wd == time.Sunday && len(drafts) > 0 {
			completedWeeks++
		}
		day = day.AddDate(0, 0, 1)
	}
	return drafts
}

// generateWeekly advances to the first date on or after the start matching
// the target weekday, then steps in 7-day increments. One draft per week, so
// the emitted count equals the week budget directly.
func generateWeekly(req Request, seriesID string) []store.TimeEntryDraft {
	target := time.Weekday(((req.Weekday % 7) + 7) % 7)
	day := truncateToDay(req.Start)
	for day.Weekday() != target {
		day = day.AddDate(0, 0, 1)
	}

	recurringDay := int(target)
	var drafts []store.TimeEntryDraft
	for {
		if req.Mode == StopUntilDate && day.After(truncateToDay(*req.EndDate)) {
			break
		}
		if req.Mode == StopAfterWeeks && len(drafts) >= req.Weeks {
			break
		}
		drafts = append(drafts, req.draft(day, seriesID, &recurringDay))
		day = day.AddDate(0, 0, 7)
	}
	return drafts
}

func (req Request) draft(date time.Time, seriesID string, recurringDay *int) store.TimeEntryDraft {
	return store.TimeEntryDraft{
		StudentID:         req.StudentID,
		SubjectID:         req.Template.SubjectID,
		Date:              date,
		Duration:          req.Template.Duration,
		Location:          req.Template.Location,
		Notes:             req.Template.Notes,
		Tags:              append([]string(nil), req.Template.Tags...),
		IsRecurring:       true,
		RecurringPattern:  req.Pattern,
		RecurringDay:      recurringDay,
		RecurringSeriesID: seriesID,
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
