package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brightoak/homeschool-api/internal/blob"
	"github.com/brightoak/homeschool-api/internal/models"
	"github.com/brightoak/homeschool-api/internal/store"
	appErrors "github.com/brightoak/homeschool-api/pkg/errors"
)

func newTestBackingStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(blob.NewMemoryStore(), zap.NewNop())
}

func errStatus(t *testing.T, err error) int {
	t.Helper()
	require.Error(t, err)
	return appErrors.FromError(err).Status
}

func TestStudentServiceCreateAndGet(t *testing.T) {
	svc := NewStudentService(newTestBackingStore(t), nil, nil)
	ctx := context.Background()

	hours := 900
	created, err := svc.Create(ctx, CreateStudentRequest{
		Name:         "Ada",
		Grade:        "3",
		Requirements: &models.Requirements{TotalHours: &hours},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)
	require.NotNil(t, got.Requirements)
	assert.Equal(t, 900, *got.Requirements.TotalHours)
}

func TestStudentServiceCreateRequiresName(t *testing.T) {
	svc := NewStudentService(newTestBackingStore(t), nil, nil)

	_, err := svc.Create(context.Background(), CreateStudentRequest{Grade: "3"})
	assert.Equal(t, http.StatusBadRequest, errStatus(t, err))
}

func TestStudentServiceGetUnknownID(t *testing.T) {
	svc := NewStudentService(newTestBackingStore(t), nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	assert.Equal(t, http.StatusNotFound, errStatus(t, err))
}

func TestStudentServiceUpdatePartial(t *testing.T) {
	svc := NewStudentService(newTestBackingStore(t), nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateStudentRequest{Name: "Ada", Grade: "3"})
	require.NoError(t, err)

	grade := "4"
	updated, err := svc.Update(ctx, created.ID, UpdateStudentRequest{Grade: &grade})
	require.NoError(t, err)
	assert.Equal(t, "4", updated.Grade)
	assert.Equal(t, "Ada", updated.Name)

	_, err = svc.Update(ctx, "missing", UpdateStudentRequest{Grade: &grade})
	assert.Equal(t, http.StatusNotFound, errStatus(t, err))
}

func TestStudentServiceDelete(t *testing.T) {
	svc := NewStudentService(newTestBackingStore(t), nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateStudentRequest{Name: "Ada"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.Equal(t, http.StatusNotFound, errStatus(t, svc.Delete(ctx, created.ID)))
}

func TestStudentServiceListFiltersAndPaginates(t *testing.T) {
	st := newTestBackingStore(t)
	svc := NewStudentService(st, nil, nil)
	ctx := context.Background()

	for _, name := range []string{"Ada Lovelace", "Ben Franklin", "Adelaide Hall"} {
		_, err := svc.Create(ctx, CreateStudentRequest{Name: name, Grade: "3"})
		require.NoError(t, err)
	}

	matched, pagination, err := svc.List(ctx, models.StudentFilter{Search: "ade"})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Adelaide Hall", matched[0].Name)
	assert.Equal(t, 1, pagination.TotalCount)

	paged, pagination, err := svc.List(ctx, models.StudentFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, 3, pagination.TotalCount)
	assert.Equal(t, 2, pagination.Page)
}
