package store

import (
	"encoding/json"
	"fmt"

	"github.com/brightoak/homeschool-api/internal/models"
)

// The persisted blob is never decoded straight into the canonical types:
// historical blobs carry legacy field names and text dates, so decoding goes
// through raw records first and a migration pass second.

type rawState struct {
	Students    []rawStudent `json:"students"`
	Subjects    []rawSubject `json:"subjects"`
	TimeEntries []rawEntry   `json:"timeEntries"`

	// Legacy collection name, read only.
	Children []rawStudent `json:"children"`
}

type rawStudent struct {
	ID                string                           `json:"id"`
	Name              string                           `json:"name"`
	Grade             string                           `json:"grade"`
	Requirements      *models.Requirements             `json:"requirements"`
	SubjectCurriculum map[string]models.CurriculumInfo `json:"subjectCurriculum"`
	CreatedAt         string                           `json:"createdAt"`
}

type rawSubject struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Category  string `json:"category"`
	CreatedAt string `json:"createdAt"`
}

type rawEntry struct {
	ID        string   `json:"id"`
	StudentID string   `json:"studentId"`
	ChildID   string   `json:"childId"`
	SubjectID string   `json:"subjectId"`
	Date      string   `json:"date"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
	Duration  int      `json:"duration"`
	Location  string   `json:"location"`
	Notes     string   `json:"notes"`
	Tags      []string `json:"tags"`

	IsRecurring       bool   `json:"isRecurring"`
	RecurringPattern  string `json:"recurringPattern"`
	RecurringDay      *int   `json:"recurringDay"`
	RecurringSeriesID string `json:"recurringSeriesId"`

	CreatedAt string `json:"createdAt"`
}

// Encode serializes the canonical state for persistence. Timestamps are
// RFC3339 text, which Decode accepts back alongside legacy date-only forms.
func Encode(state models.AppState) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return data, nil
}

// Decode parses a persisted blob and migrates it to the canonical state.
func Decode(data []byte) (models.AppState, error) {
	var raw rawState
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.AppState{}, fmt.Errorf("decode state: %w", err)
	}
	return migrate(raw), nil
}
