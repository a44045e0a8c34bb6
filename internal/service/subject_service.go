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

type subjectStore interface {
	State() models.AppState
	AddSubject(ctx context.Context, draft store.SubjectDraft) models.Subject
	UpdateSubject(ctx context.Context, id string, upd store.SubjectUpdate) (models.Subject, bool)
	DeleteSubject(ctx context.Context, id string) int
}

// CreateSubjectRequest holds payload for creating subjects.
type CreateSubjectRequest struct {
	Name     string `json:"name" validate:"required"`
	Color    string `json:"color"`
	Category string `json:"category" validate:"omitempty,oneof=Core Non-Core"`
}

// UpdateSubjectRequest holds a partial subject update.
type UpdateSubjectRequest struct {
	Name     *string `json:"name"`
	Color    *string `json:"color"`
	Category *string `json:"category" validate:"omitempty,oneof=Core Non-Core"`
}

// SubjectService handles subject use-cases.
type SubjectService struct {
	store     subjectStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService constructs the subject service.
func NewSubjectService(st subjectStore, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{store: st, validator: validate, logger: logger}
}

// List returns subjects and pagination metadata.
func (s *SubjectService) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, *models.Pagination, error) {
	all := s.store.State().Subjects

	matched := make([]models.Subject, 0, len(all))
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, sub := range all {
		if search != "" && !strings.Contains(strings.ToLower(sub.Name), search) {
			continue
		}
		if filter.Category != "" && sub.Category != filter.Category {
			continue
		}
		matched = append(matched, sub)
	}

	page, size := normalizePage(filter.Page, filter.PageSize)
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: len(matched)}
	return paginate(matched, page, size), pagination, nil
}

// Get returns one subject by id.
func (s *SubjectService) Get(ctx context.Context, id string) (*models.Subject, error) {
	for _, sub := range s.store.State().Subjects {
		if sub.ID == id {
			return &sub, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
}

// Create adds a new subject. Category defaults to Core when absent.
func (s *SubjectService) Create(ctx context.Context, req CreateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	subject := s.store.AddSubject(ctx, store.SubjectDraft{
		Name:     req.Name,
		Color:    req.Color,
		Category: models.SubjectCategory(req.Category),
	})
	s.logger.Info("subject created", zap.String("id", subject.ID), zap.String("name", subject.Name))
	return &subject, nil
}

// Update applies a partial update to an existing subject.
func (s *SubjectService) Update(ctx context.Context, id string, req UpdateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	var category *models.SubjectCategory
	if req.Category != nil {
		c := models.SubjectCategory(*req.Category)
		category = &c
	}
	subject, ok := s.store.UpdateSubject(ctx, id, store.SubjectUpdate{
		Name:     req.Name,
		Color:    req.Color,
		Category: category,
	})
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}
	return &subject, nil
}

// Delete removes a subject and all time entries logged against it.
func (s *SubjectService) Delete(ctx context.Context, id string) error {
	affected := s.store.DeleteSubject(ctx, id)
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}
	s.logger.Info("subject deleted", zap.String("id", id), zap.Int("records_removed", affected))
	return nil
}
