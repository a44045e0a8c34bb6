package store

import (
	"time"

	"github.com/brightoak/homeschool-api/internal/models"
	"github.com/brightoak/homeschool-api/pkg/dateutil"
)

// migrate converts raw records into canonical entities, applying the legacy
// field aliases and defaults accumulated by older persisted blobs:
//
//   - a `children` collection stands in for `students` when the latter is
//     absent, and a per-entry `childId` stands in for `studentId`
//   - subjects without a category are Core
//   - entries without a location are Home
//   - date-only strings are local calendar days, never UTC midnight
func migrate(raw rawState) models.AppState {
	state := models.DefaultState()

	students := raw.Students
	if students == nil && raw.Children != nil {
		students = raw.Children
	}
	for _, rs := range students {
		state.Students = append(state.Students, models.Student{
			ID:                rs.ID,
			Name:              rs.Name,
			Grade:             rs.Grade,
			Requirements:      rs.Requirements,
			SubjectCurriculum: rs.SubjectCurriculum,
			CreatedAt:         parseTime(rs.CreatedAt),
		})
	}

	for _, rs := range raw.Subjects {
		category := models.SubjectCategory(rs.Category)
		if !category.Valid() {
			category = models.CategoryCore
		}
		state.Subjects = append(state.Subjects, models.Subject{
			ID:        rs.ID,
			Name:      rs.Name,
			Color:     rs.Color,
			Category:  category,
			CreatedAt: parseTime(rs.CreatedAt),
		})
	}

	for _, re := range raw.TimeEntries {
		studentID := re.StudentID
		if studentID == "" {
			studentID = re.ChildID
		}
		location := models.EntryLocation(re.Location)
		if !location.Valid() {
			location = models.LocationHome
		}
		state.TimeEntries = append(state.TimeEntries, models.TimeEntry{
			ID:                re.ID,
			StudentID:         studentID,
			SubjectID:         re.SubjectID,
			Date:              parseTime(re.Date),
			StartTime:         parseOptionalTime(re.StartTime),
			EndTime:           parseOptionalTime(re.EndTime),
			Duration:          re.Duration,
			Location:          location,
			Notes:             re.Notes,
			Tags:              re.Tags,
			IsRecurring:       re.IsRecurring,
			RecurringPattern:  models.RecurrencePattern(re.RecurringPattern),
			RecurringDay:      re.RecurringDay,
			RecurringSeriesID: re.RecurringSeriesID,
			CreatedAt:         parseTime(re.CreatedAt),
		})
	}

	return state
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := dateutil.ParseFlexible(raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseOptionalTime(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t := parseTime(raw)
	if t.IsZero() {
		return nil
	}
	return &t
}
