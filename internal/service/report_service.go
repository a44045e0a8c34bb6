package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/brightoak/homeschool-api/internal/models"
	"github.com/brightoak/homeschool-api/pkg/dateutil"
	appErrors "github.com/brightoak/homeschool-api/pkg/errors"
)

type reportStore interface {
	State() models.AppState
}

// SummaryFilter bounds a report to a student and/or a date window.
type SummaryFilter struct {
	StudentID string
	From      *time.Time
	To        *time.Time
}

// HoursBucket is one aggregation row, in hours.
type HoursBucket struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Hours float64 `json:"hours"`
}

// Summary aggregates logged time for reporting. Unresolved student or
// subject references are bucketed under "Unknown".
type Summary struct {
	TotalHours   float64       `json:"totalHours"`
	EntryCount   int           `json:"entryCount"`
	BySubject    []HoursBucket `json:"bySubject"`
	ByCategory   []HoursBucket `json:"byCategory"`
	ByLocation   []HoursBucket `json:"byLocation"`
	ByStudent    []HoursBucket `json:"byStudent"`
	VolunteerHrs float64       `json:"volunteerHours"`
}

// ProgressTarget is one requirement dimension with its completion state.
type ProgressTarget struct {
	Dimension string  `json:"dimension"`
	Required  int     `json:"required"`
	Completed float64 `json:"completed"`
	Percent   float64 `json:"percent"`
}

// StudentProgress reports a student's hours against their annual targets for
// one school year.
type StudentProgress struct {
	StudentID   string           `json:"studentId"`
	StudentName string           `json:"studentName"`
	SchoolYear  int              `json:"schoolYear"`
	Targets     []ProgressTarget `json:"targets"`
}

// ReportService derives aggregations from the state collections. It only
// reads; reporting is presentation logic layered over the store.
type ReportService struct {
	store  reportStore
	logger *zap.Logger
}

// NewReportService constructs the report service.
func NewReportService(st reportStore, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{store: st, logger: logger}
}

const unknownLabel = "Unknown"

// Summary aggregates hours by subject, category, location, and student for
// the filtered window.
func (s *ReportService) Summary(ctx context.Context, filter SummaryFilter) (*Summary, error) {
	state := s.store.State()
	subjects := indexSubjects(state.Subjects)
	students := indexStudents(state.Students)

	bySubject := map[string]float64{}
	byCategory := map[string]float64{}
	byLocation := map[string]float64{}
	byStudent := map[string]float64{}

	summary := &Summary{}
	for _, e := range state.TimeEntries {
		if !matchesWindow(e, filter.StudentID, filter.From, filter.To) {
			continue
		}
		hours := float64(e.Duration) / 60
		summary.TotalHours += hours
		summary.EntryCount++

		subjectName := unknownLabel
		category := models.CategoryCore
		if sub, ok := subjects[e.SubjectID]; ok {
			subjectName = sub.Name
			category = sub.Category
			if sub.Name == "Volunteer Hours" {
				summary.VolunteerHrs += hours
			}
		}
		bySubject[subjectName] += hours
		byCategory[string(category)] += hours
		byLocation[string(e.Location)] += hours

		studentName := unknownLabel
		if st, ok := students[e.StudentID]; ok {
			studentName = st.Name
		}
		byStudent[studentName] += hours
	}

	summary.BySubject = toBuckets(bySubject)
	summary.ByCategory = toBuckets(byCategory)
	summary.ByLocation = toBuckets(byLocation)
	summary.ByStudent = toBuckets(byStudent)
	return summary, nil
}

// Progress computes per-dimension completion for one student against their
// configured requirements, within the school year starting July 1 of
// startYear.
func (s *ReportService) Progress(ctx context.Context, studentID string, startYear int) (*StudentProgress, error) {
	state := s.store.State()

	var student *models.Student
	for i := range state.Students {
		if state.Students[i].ID == studentID {
			student = &state.Students[i]
			break
		}
	}
	if student == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	from, to := dateutil.SchoolYearWindow(startYear, time.Local)
	subjects := indexSubjects(state.Subjects)

	var total, core, nonCore, home, away float64
	for _, e := range state.TimeEntries {
		if e.StudentID != studentID || !matchesWindow(e, "", &from, &to) {
			continue
		}
		hours := float64(e.Duration) / 60
		total += hours
		category := models.CategoryCore
		if sub, ok := subjects[e.SubjectID]; ok {
			category = sub.Category
		}
		if category == models.CategoryCore {
			core += hours
		} else {
			nonCore += hours
		}
		if e.Location == models.LocationAway {
			away += hours
		} else {
			home += hours
		}
	}

	progress := &StudentProgress{
		StudentID:   student.ID,
		StudentName: student.Name,
		SchoolYear:  startYear,
	}
	if req := student.Requirements; req != nil {
		progress.Targets = appendTarget(progress.Targets, "total", req.TotalHours, total)
		progress.Targets = appendTarget(progress.Targets, "core", req.CoreHours, core)
		progress.Targets = appendTarget(progress.Targets, "nonCore", req.NonCoreHours, nonCore)
		progress.Targets = appendTarget(progress.Targets, "home", req.HomeHours, home)
		progress.Targets = appendTarget(progress.Targets, "away", req.AwayHours, away)
	}
	return progress, nil
}

// SchoolYears lists the starting years of every school year that has at
// least one entry, newest first.
func (s *ReportService) SchoolYears(ctx context.Context) []int {
	seen := map[int]struct{}{}
	for _, e := range s.store.State().TimeEntries {
		seen[dateutil.SchoolYearOf(e.Date)] = struct{}{}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

func matchesWindow(e models.TimeEntry, studentID string, from, to *time.Time) bool {
	if studentID != "" && e.StudentID != studentID {
		return false
	}
	if from != nil && e.Date.Before(*from) {
		return false
	}
	if to != nil && !e.Date.Before(*to) {
		return false
	}
	return true
}

func appendTarget(targets []ProgressTarget, dimension string, required *int, completed float64) []ProgressTarget {
	if required == nil || *required <= 0 {
		return targets
	}
	percent := completed / float64(*required) * 100
	if percent > 100 {
		percent = 100
	}
	return append(targets, ProgressTarget{
		Dimension: dimension,
		Required:  *required,
		Completed: completed,
		Percent:   percent,
	})
}

func indexSubjects(subjects []models.Subject) map[string]models.Subject {
	m := make(map[string]models.Subject, len(subjects))
	for _, s := range subjects {
		m[s.ID] = s
	}
	return m
}

func indexStudents(students []models.Student) map[string]models.Student {
	m := make(map[string]models.Student, len(students))
	for _, s := range students {
		m[s.ID] = s
	}
	return m
}

func toBuckets(m map[string]float64) []HoursBucket {
	buckets := make([]HoursBucket, 0, len(m))
	for k, v := range m {
		buckets = append(buckets, HoursBucket{Key: k, Label: k, Hours: v})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Hours != buckets[j].Hours {
			return buckets[i].Hours > buckets[j].Hours
		}
		return buckets[i].Key < buckets[j].Key
	})
	return buckets
}
