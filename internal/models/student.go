package models

import "time"

// Student represents a learner whose study time and requirements are tracked.
type Student struct {
	ID                string                    `json:"id"`
	Name              string                    `json:"name"`
	Grade             string                    `json:"grade,omitempty"`
	Requirements      *Requirements             `json:"requirements,omitempty"`
	SubjectCurriculum map[string]CurriculumInfo `json:"subjectCurriculum,omitempty"`
	CreatedAt         time.Time                 `json:"createdAt"`
}

// Requirements holds annual hour targets. Each target is independently
// optional; nil means no target is configured for that dimension.
type Requirements struct {
	TotalHours   *int `json:"totalHours,omitempty"`
	CoreHours    *int `json:"coreHours,omitempty"`
	NonCoreHours *int `json:"nonCoreHours,omitempty"`
	HomeHours    *int `json:"homeHours,omitempty"`
	AwayHours    *int `json:"awayHours,omitempty"`
}

// CurriculumInfo describes the curriculum a student follows for one subject.
type CurriculumInfo struct {
	Curriculum string `json:"curriculum,omitempty"`
	Cost       string `json:"cost,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search   string
	Grade    string
	Page     int
	PageSize int
}
