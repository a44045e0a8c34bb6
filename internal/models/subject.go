package models

import "time"

// SubjectCategory classifies a subject for requirement tracking.
type SubjectCategory string

const (
	CategoryCore    SubjectCategory = "Core"
	CategoryNonCore SubjectCategory = "Non-Core"
)

// Valid reports whether the category is one of the two allowed values.
func (c SubjectCategory) Valid() bool {
	return c == CategoryCore || c == CategoryNonCore
}

// Subject represents a named, colored, categorized area of study.
type Subject struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Color     string          `json:"color,omitempty"`
	Category  SubjectCategory `json:"category"`
	CreatedAt time.Time       `json:"createdAt"`
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	Search   string
	Category SubjectCategory
	Page     int
	PageSize int
}
