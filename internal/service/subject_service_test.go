package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightoak/homeschool-api/internal/models"
)

func TestSubjectServiceCreateDefaultsToCore(t *testing.T) {
	svc := NewSubjectService(newTestBackingStore(t), nil, nil)

	created, err := svc.Create(context.Background(), CreateSubjectRequest{Name: "Math", Color: "#336699"})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryCore, created.Category)
}

func TestSubjectServiceCreateRejectsUnknownCategory(t *testing.T) {
	svc := NewSubjectService(newTestBackingStore(t), nil, nil)

	_, err := svc.Create(context.Background(), CreateSubjectRequest{Name: "Math", Category: "Elective"})
	assert.Equal(t, http.StatusBadRequest, errStatus(t, err))
}

func TestSubjectServiceUpdateCategory(t *testing.T) {
	svc := NewSubjectService(newTestBackingStore(t), nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateSubjectRequest{Name: "Art"})
	require.NoError(t, err)

	category := "Non-Core"
	updated, err := svc.Update(ctx, created.ID, UpdateSubjectRequest{Category: &category})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryNonCore, updated.Category)
	assert.Equal(t, "Art", updated.Name)
}

func TestSubjectServiceDeleteCascades(t *testing.T) {
	st := newTestBackingStore(t)
	svc := NewSubjectService(st, nil, nil)
	entries := NewTimeEntryService(st, nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateSubjectRequest{Name: "Math"})
	require.NoError(t, err)
	_, err = entries.Create(ctx, CreateTimeEntryRequest{
		StudentID: "s1", SubjectID: created.ID, Date: "2025-03-10", Duration: 30,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	left, _, err := entries.List(ctx, models.TimeEntryFilter{})
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestSubjectServiceListByCategory(t *testing.T) {
	svc := NewSubjectService(newTestBackingStore(t), nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateSubjectRequest{Name: "Math"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateSubjectRequest{Name: "Art", Category: "Non-Core"})
	require.NoError(t, err)

	matched, pagination, err := svc.List(ctx, models.SubjectFilter{Category: models.CategoryNonCore})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Art", matched[0].Name)
	assert.Equal(t, 1, pagination.TotalCount)
}
