package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/brightoak/homeschool-api/internal/models"
	"github.com/brightoak/homeschool-api/internal/store"
	appErrors "github.com/brightoak/homeschool-api/pkg/errors"
)

type studentStore interface {
	State() models.AppState
	AddStudent(ctx context.Context, draft store.StudentDraft) models.Student
	UpdateStudent(ctx context.Context, id string, upd store.StudentUpdate) (models.Student, bool)
	DeleteStudent(ctx context.Context, id string) int
}

// CreateStudentRequest holds payload for registering students.
type CreateStudentRequest struct {
	Name              string                           `json:"name" validate:"required"`
	Grade             string                           `json:"grade"`
	Requirements      *models.Requirements             `json:"requirements"`
	SubjectCurriculum map[string]models.CurriculumInfo `json:"subjectCurriculum"`
}

// UpdateStudentRequest holds a partial update. Absent fields are left
// unchanged; a provided requirements object replaces the stored one
// wholesale.
type UpdateStudentRequest struct {
	Name              *string                          `json:"name"`
	Grade             *string                          `json:"grade"`
	Requirements      *models.Requirements             `json:"requirements"`
	SubjectCurriculum map[string]models.CurriculumInfo `json:"subjectCurriculum"`
}

// StudentService handles student use-cases.
type StudentService struct {
	store     studentStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(st studentStore, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{store: st, validator: validate, logger: logger}
}

// List returns students and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	all := s.store.State().Students

	matched := make([]models.Student, 0, len(all))
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, st := range all {
		if search != "" && !strings.Contains(strings.ToLower(st.Name), search) {
			continue
		}
		if filter.Grade != "" && st.Grade != filter.Grade {
			continue
		}
		matched = append(matched, st)
	}

	page, size := normalizePage(filter.Page, filter.PageSize)
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: len(matched)}
	return paginate(matched, page, size), pagination, nil
}

// Get returns one student by id.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	for _, st := range s.store.State().Students {
		if st.ID == id {
			return &st, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
}

// Create registers a new student.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student := s.store.AddStudent(ctx, store.StudentDraft{
		Name:              req.Name,
		Grade:             req.Grade,
		Requirements:      req.Requirements,
		SubjectCurriculum: req.SubjectCurriculum,
	})
	s.logger.Info("student created", zap.String("id", student.ID))
	return &student, nil
}

// Update applies a partial update to an existing student.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.Student, error) {
	student, ok := s.store.UpdateStudent(ctx, id, store.StudentUpdate{
		Name:              req.Name,
		Grade:             req.Grade,
		Requirements:      req.Requirements,
		SubjectCurriculum: req.SubjectCurriculum,
	})
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return &student, nil
}

// Delete removes a student and all of their time entries.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	affected := s.store.DeleteStudent(ctx, id)
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	s.logger.Info("student deleted", zap.String("id", id), zap.Int("records_removed", affected))
	return nil
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return page, size
}

func paginate[T any](items []T, page, size int) []T {
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
