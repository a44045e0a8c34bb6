package models

import "time"

// EntryLocation records where study time took place.
type EntryLocation string

const (
	LocationHome EntryLocation = "Home"
	LocationAway EntryLocation = "Away"
)

// Valid reports whether the location is one of the two allowed values.
func (l EntryLocation) Valid() bool {
	return l == LocationHome || l == LocationAway
}

// RecurrencePattern names a repeating-schedule shape.
type RecurrencePattern string

const (
	PatternDailyWeekdays RecurrencePattern = "daily-weekdays"
	PatternWeekly        RecurrencePattern = "weekly"
)

// TimeEntry is one logged unit of study time for a student/subject/date.
// Entries generated from one recurring request share a RecurringSeriesID but
// are otherwise independent records.
type TimeEntry struct {
	ID        string     `json:"id"`
	StudentID string     `json:"studentId"`
	SubjectID string     `json:"subjectId"`
	Date      time.Time  `json:"date"`
	StartTime *time.Time `json:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	// Duration is whole minutes.
	Duration int           `json:"duration"`
	Location EntryLocation `json:"location"`
	Notes    string        `json:"notes,omitempty"`
	Tags     []string      `json:"tags,omitempty"`

	IsRecurring       bool              `json:"isRecurring,omitempty"`
	RecurringPattern  RecurrencePattern `json:"recurringPattern,omitempty"`
	RecurringDay      *int              `json:"recurringDay,omitempty"`
	RecurringSeriesID string            `json:"recurringSeriesId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// TimeEntryFilter captures supported filters for listing time entries.
type TimeEntryFilter struct {
	StudentID string
	SubjectID string
	SeriesID  string
	From      *time.Time
	To        *time.Time
	Page      int
	PageSize  int
}
