package service

import (
	"context"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/brightoak/homeschool-api/internal/models"
	"github.com/brightoak/homeschool-api/internal/recurrence"
	"github.com/brightoak/homeschool-api/internal/store"
	"github.com/brightoak/homeschool-api/pkg/dateutil"
	appErrors "github.com/brightoak/homeschool-api/pkg/errors"
)

type timeEntryStore interface {
	State() models.AppState
	AddTimeEntry(ctx context.Context, draft store.TimeEntryDraft) models.TimeEntry
	UpdateTimeEntry(ctx context.Context, id string, upd store.TimeEntryUpdate) (models.TimeEntry, bool)
	DeleteTimeEntry(ctx context.Context, id string) bool
}

// CreateTimeEntryRequest holds payload for logging a single entry. Dates
// accept either a bare YYYY-MM-DD (interpreted as a local calendar day) or a
// full RFC3339 timestamp.
type CreateTimeEntryRequest struct {
	StudentID string   `json:"studentId" validate:"required"`
	SubjectID string   `json:"subjectId" validate:"required"`
	Date      string   `json:"date" validate:"required"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
	Duration  int      `json:"duration" validate:"required,gt=0"`
	Location  string   `json:"location" validate:"omitempty,oneof=Home Away"`
	Notes     string   `json:"notes"`
	Tags      []string `json:"tags"`
}

// UpdateTimeEntryRequest holds a partial entry update.
type UpdateTimeEntryRequest struct {
	StudentID *string  `json:"studentId"`
	SubjectID *string  `json:"subjectId"`
	Date      *string  `json:"date"`
	Duration  *int     `json:"duration" validate:"omitempty,gt=0"`
	Location  *string  `json:"location" validate:"omitempty,oneof=Home Away"`
	Notes     *string  `json:"notes"`
	Tags      []string `json:"tags"`
}

// CreateRecurringRequest expands into one series of entries per selected
// student. Exactly one stop condition applies: a week budget when repeatMode
// is "weeks", an end date when it is "until-date".
type CreateRecurringRequest struct {
	StudentIDs []string `json:"studentIds" validate:"required,min=1"`
	SubjectID  string   `json:"subjectId" validate:"required"`
	StartDate  string   `json:"startDate" validate:"required"`
	Pattern    string   `json:"pattern" validate:"required,oneof=daily-weekdays weekly"`
	Weekday    int      `json:"weekday" validate:"min=0,max=6"`
	RepeatMode string   `json:"repeatMode" validate:"required,oneof=weeks until-date"`
	Weeks      int      `json:"weeks"`
	EndDate    string   `json:"endDate"`
	Duration   int      `json:"duration" validate:"required,gt=0"`
	Location   string   `json:"location" validate:"omitempty,oneof=Home Away"`
	Notes      string   `json:"notes"`
	Tags       []string `json:"tags"`
}

// RecurringResult reports what one recurring request produced.
type RecurringResult struct {
	Series []SeriesResult `json:"series"`
	Total  int            `json:"total"`
}

// SeriesResult is the batch generated for one student.
type SeriesResult struct {
	StudentID string             `json:"studentId"`
	SeriesID  string             `json:"seriesId,omitempty"`
	Entries   []models.TimeEntry `json:"entries"`
}

// TimeEntryService handles time-log use-cases.
type TimeEntryService struct {
	store     timeEntryStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimeEntryService constructs the time entry service.
func NewTimeEntryService(st timeEntryStore, validate *validator.Validate, logger *zap.Logger) *TimeEntryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimeEntryService{store: st, validator: validate, logger: logger}
}

// List returns entries matching the filter, newest date first.
func (s *TimeEntryService) List(ctx context.Context, filter models.TimeEntryFilter) ([]models.TimeEntry, *models.Pagination, error) {
	all := s.store.State().TimeEntries

	matched := make([]models.TimeEntry, 0, len(all))
	for _, e := range all {
		if filter.StudentID != "" && e.StudentID != filter.StudentID {
			continue
		}
		if filter.SubjectID != "" && e.SubjectID != filter.SubjectID {
			continue
		}
		if filter.SeriesID != "" && e.RecurringSeriesID != filter.SeriesID {
			continue
		}
		if filter.From != nil && e.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !e.Date.Before(*filter.To) {
			continue
		}
		matched = append(matched, e)
	}
	sortEntriesByDateDesc(matched)

	page, size := normalizePage(filter.Page, filter.PageSize)
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: len(matched)}
	return paginate(matched, page, size), pagination, nil
}

// Get returns one entry by id.
func (s *TimeEntryService) Get(ctx context.Context, id string) (*models.TimeEntry, error) {
	for _, e := range s.store.State().TimeEntries {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "time entry not found")
}

// Create logs a single entry. Student and subject references are not
// cross-checked; an unresolved reference renders as "Unknown" downstream.
func (s *TimeEntryService) Create(ctx context.Context, req CreateTimeEntryRequest) (*models.TimeEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time entry payload")
	}
	date, err := dateutil.ParseFlexible(req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}
	start, err := parseOptionalTimestamp(req.StartTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid startTime")
	}
	end, err := parseOptionalTimestamp(req.EndTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid endTime")
	}

	entry := s.store.AddTimeEntry(ctx, store.TimeEntryDraft{
		StudentID: req.StudentID,
		SubjectID: req.SubjectID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Duration:  req.Duration,
		Location:  models.EntryLocation(req.Location),
		Notes:     req.Notes,
		Tags:      req.Tags,
	})
	return &entry, nil
}

// Update applies a partial update to an existing entry.
func (s *TimeEntryService) Update(ctx context.Context, id string, req UpdateTimeEntryRequest) (*models.TimeEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time entry payload")
	}
	upd := store.TimeEntryUpdate{
		StudentID: req.StudentID,
		SubjectID: req.SubjectID,
		Duration:  req.Duration,
		Notes:     req.Notes,
		Tags:      req.Tags,
	}
	if req.Date != nil {
		date, err := dateutil.ParseFlexible(*req.Date)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
		}
		upd.Date = &date
	}
	if req.Location != nil {
		loc := models.EntryLocation(*req.Location)
		upd.Location = &loc
	}

	entry, ok := s.store.UpdateTimeEntry(ctx, id, upd)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "time entry not found")
	}
	return &entry, nil
}

// Delete removes one entry.
func (s *TimeEntryService) Delete(ctx context.Context, id string) error {
	if !s.store.DeleteTimeEntry(ctx, id) {
		return appErrors.Clone(appErrors.ErrNotFound, "time entry not found")
	}
	return nil
}

// CreateRecurring expands the request once per student and appends each
// generated entry as its own transition. There is no batch atomicity: a crash
// mid-batch leaves the entries already appended in place. An unresolvable
// stop condition produces an empty result rather than an error.
func (s *TimeEntryService) CreateRecurring(ctx context.Context, req CreateRecurringRequest) (*RecurringResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid recurring payload")
	}
	start, err := dateutil.ParseFlexible(req.StartDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid startDate")
	}
	var endDate *time.Time
	if req.EndDate != "" {
		end, err := dateutil.ParseFlexible(req.EndDate)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid endDate")
		}
		endDate = &end
	}

	result := &RecurringResult{}
	for _, studentID := range req.StudentIDs {
		drafts := recurrence.Generate(recurrence.Request{
			StudentID: studentID,
			Start:     start,
			Pattern:   models.RecurrencePattern(req.Pattern),
			Weekday:   req.Weekday,
			Mode:      recurrence.StopMode(req.RepeatMode),
			Weeks:     req.Weeks,
			EndDate:   endDate,
			Template: recurrence.Template{
				SubjectID: req.SubjectID,
				Duration:  req.Duration,
				Location:  models.EntryLocation(req.Location),
				Notes:     req.Notes,
				Tags:      req.Tags,
			},
		})

		series := SeriesResult{StudentID: studentID, Entries: []models.TimeEntry{}}
		for _, draft := range drafts {
			entry := s.store.AddTimeEntry(ctx, draft)
			series.Entries = append(series.Entries, entry)
		}
		if len(series.Entries) > 0 {
			series.SeriesID = series.Entries[0].RecurringSeriesID
		}
		result.Series = append(result.Series, series)
		result.Total += len(series.Entries)
	}

	s.logger.Info("recurring entries created",
		zap.Int("students", len(req.StudentIDs)),
		zap.Int("entries", result.Total),
		zap.String("pattern", req.Pattern))
	return result, nil
}

func parseOptionalTimestamp(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := dateutil.ParseFlexible(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func sortEntriesByDateDesc(entries []models.TimeEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
}
