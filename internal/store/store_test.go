package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brightoak/homeschool-api/internal/blob"
	"github.com/brightoak/homeschool-api/internal/models"
)

func newTestStore(t *testing.T) (*Store, *blob.MemoryStore) {
	t.Helper()
	mem := blob.NewMemoryStore()
	return New(mem, zap.NewNop()), mem
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestAddStudentGeneratesIDAndPersists(t *testing.T) {
	st, mem := newTestStore(t)
	ctx := context.Background()

	a := st.AddStudent(ctx, StudentDraft{Name: "Ada"})
	b := st.AddStudent(ctx, StudentDraft{Name: "Ben"})

	require.NotEmpty(t, a.ID)
	require.NotEmpty(t, b.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.CreatedAt.IsZero())
	assert.Equal(t, 2, mem.Writes())

	state := st.State()
	require.Len(t, state.Students, 2)
	assert.Equal(t, "Ada", state.Students[0].Name)
	assert.Equal(t, "Ben", state.Students[1].Name)
}

func TestUniqueIDsAcrossCollections(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		seen[st.AddStudent(ctx, StudentDraft{Name: "s"}).ID] = true
		seen[st.AddSubject(ctx, SubjectDraft{Name: "sub"}).ID] = true
		seen[st.AddTimeEntry(ctx, TimeEntryDraft{Duration: 30}).ID] = true
	}
	assert.Len(t, seen, 60)
}

func TestUpdateStudentMergesOnlyProvidedFields(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	created := st.AddStudent(ctx, StudentDraft{
		Name:  "Ada",
		Grade: "3",
		Requirements: &models.Requirements{
			TotalHours: intPtr(900),
			CoreHours:  intPtr(600),
		},
		SubjectCurriculum: map[string]models.CurriculumInfo{
			"math": {Curriculum: "Saxon"},
		},
	})

	updated, ok := st.UpdateStudent(ctx, created.ID, StudentUpdate{Grade: strPtr("4")})
	require.True(t, ok)
	assert.Equal(t, "4", updated.Grade)
	assert.Equal(t, "Ada", updated.Name)
	require.NotNil(t, updated.Requirements)
	assert.Equal(t, 900, *updated.Requirements.TotalHours)
	assert.Equal(t, "Saxon", updated.SubjectCurriculum["math"].Curriculum)
}

func TestUpdateStudentReplacesRequirementsWholesale(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	created := st.AddStudent(ctx, StudentDraft{
		Name: "Ada",
		Requirements: &models.Requirements{
			TotalHours: intPtr(900),
			CoreHours:  intPtr(600),
		},
	})

	updated, ok := st.UpdateStudent(ctx, created.ID, StudentUpdate{
		Requirements: &models.Requirements{HomeHours: intPtr(400)},
	})
	require.True(t, ok)
	require.NotNil(t, updated.Requirements)
	assert.Nil(t, updated.Requirements.TotalHours)
	assert.Nil(t, updated.Requirements.CoreHours)
	assert.Equal(t, 400, *updated.Requirements.HomeHours)
}

func TestUpdateUnknownIDIsNoOp(t *testing.T) {
	st, mem := newTestStore(t)
	ctx := context.Background()

	st.AddStudent(ctx, StudentDraft{Name: "Ada"})
	writes := mem.Writes()

	_, ok := st.UpdateStudent(ctx, "missing", StudentUpdate{Name: strPtr("X")})
	assert.False(t, ok)
	assert.Equal(t, writes, mem.Writes(), "no-op must not persist")

	state := st.State()
	require.Len(t, state.Students, 1)
	assert.Equal(t, "Ada", state.Students[0].Name)
}

func TestDeleteStudentCascadesExactly(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	ada := st.AddStudent(ctx, StudentDraft{Name: "Ada"})
	ben := st.AddStudent(ctx, StudentDraft{Name: "Ben"})
	math := st.AddSubject(ctx, SubjectDraft{Name: "Math"})

	st.AddTimeEntry(ctx, TimeEntryDraft{StudentID: ada.ID, SubjectID: math.ID, Duration: 30})
	st.AddTimeEntry(ctx, TimeEntryDraft{StudentID: ada.ID, SubjectID: math.ID, Duration: 45})
	kept := st.AddTimeEntry(ctx, TimeEntryDraft{StudentID: ben.ID, SubjectID: math.ID, Duration: 60})

	affected := st.DeleteStudent(ctx, ada.ID)
	assert.Equal(t, 3, affected)

	state := st.State()
	require.Len(t, state.Students, 1)
	assert.Equal(t, ben.ID, state.Students[0].ID)
	require.Len(t, state.TimeEntries, 1)
	assert.Equal(t, kept.ID, state.TimeEntries[0].ID)
}

func TestDeleteSubjectCascadesExactly(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	ada := st.AddStudent(ctx, StudentDraft{Name: "Ada"})
	math := st.AddSubject(ctx, SubjectDraft{Name: "Math"})
	art := st.AddSubject(ctx, SubjectDraft{Name: "Art", Category: models.CategoryNonCore})

	st.AddTimeEntry(ctx, TimeEntryDraft{StudentID: ada.ID, SubjectID: math.ID, Duration: 30})
	kept := st.AddTimeEntry(ctx, TimeEntryDraft{StudentID: ada.ID, SubjectID: art.ID, Duration: 20})

	affected := st.DeleteSubject(ctx, math.ID)
	assert.Equal(t, 2, affected)

	state := st.State()
	require.Len(t, state.Subjects, 1)
	assert.Equal(t, art.ID, state.Subjects[0].ID)
	require.Len(t, state.TimeEntries, 1)
	assert.Equal(t, kept.ID, state.TimeEntries[0].ID)
}

func TestDeleteUnknownIDReturnsZero(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	assert.Equal(t, 0, st.DeleteStudent(ctx, "missing"))
	assert.Equal(t, 0, st.DeleteSubject(ctx, "missing"))
	assert.False(t, st.DeleteTimeEntry(ctx, "missing"))
}

func TestAddSubjectDefaultsCategory(t *testing.T) {
	st, _ := newTestStore(t)
	sub := st.AddSubject(context.Background(), SubjectDraft{Name: "Math"})
	assert.Equal(t, models.CategoryCore, sub.Category)
}

func TestAddTimeEntryDefaultsLocation(t *testing.T) {
	st, _ := newTestStore(t)
	entry := st.AddTimeEntry(context.Background(), TimeEntryDraft{Duration: 30})
	assert.Equal(t, models.LocationHome, entry.Location)
}

func TestPersistFailureKeepsInMemoryState(t *testing.T) {
	mem := blob.NewMemoryStore()
	mem.FailWrites = errors.New("quota exceeded")
	st := New(mem, zap.NewNop())

	student := st.AddStudent(context.Background(), StudentDraft{Name: "Ada"})
	require.NotEmpty(t, student.ID)

	state := st.State()
	require.Len(t, state.Students, 1)
	assert.Equal(t, 0, mem.Writes())
}

func TestTransitionHookObservesEveryTransition(t *testing.T) {
	type observed struct {
		entity, op string
		sizes      Sizes
	}
	var hooks []observed
	st := New(blob.NewMemoryStore(), zap.NewNop(), WithTransitionHook(func(entity, op string, sizes Sizes) {
		hooks = append(hooks, observed{entity, op, sizes})
	}))
	ctx := context.Background()

	ada := st.AddStudent(ctx, StudentDraft{Name: "Ada"})
	st.AddTimeEntry(ctx, TimeEntryDraft{StudentID: ada.ID, Duration: 30})
	st.DeleteStudent(ctx, ada.ID)
	st.UpdateStudent(ctx, "missing", StudentUpdate{Name: strPtr("X")})

	require.Len(t, hooks, 3, "no-ops are not observed")
	assert.Equal(t, observed{"student", "add", Sizes{Students: 1}}, hooks[0])
	assert.Equal(t, observed{"timeEntry", "add", Sizes{Students: 1, TimeEntries: 1}}, hooks[1])
	assert.Equal(t, observed{"student", "delete", Sizes{}}, hooks[2])
}

func TestLoadMissingBlobYieldsDefaultState(t *testing.T) {
	st, _ := newTestStore(t)
	st.Load(context.Background())

	state := st.State()
	assert.Empty(t, state.Students)
	assert.Empty(t, state.Subjects)
	assert.Empty(t, state.TimeEntries)
}

func TestLoadCorruptBlobYieldsDefaultState(t *testing.T) {
	mem := blob.NewMemoryStore()
	require.NoError(t, mem.Set(context.Background(), []byte("{not json")))

	st := New(mem, zap.NewNop())
	st.Load(context.Background())

	state := st.State()
	assert.Empty(t, state.Students)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	mem := blob.NewMemoryStore()
	st := New(mem, zap.NewNop())
	ctx := context.Background()

	ada := st.AddStudent(ctx, StudentDraft{
		Name:         "Ada",
		Grade:        "3",
		Requirements: &models.Requirements{TotalHours: intPtr(900)},
	})
	math := st.AddSubject(ctx, SubjectDraft{Name: "Math", Color: "#336699"})
	date := time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local)
	entry := st.AddTimeEntry(ctx, TimeEntryDraft{
		StudentID: ada.ID,
		SubjectID: math.ID,
		Date:      date,
		Duration:  90,
		Location:  models.LocationAway,
		Notes:     "museum trip",
		Tags:      []string{"field-trip"},
	})

	reloaded := New(mem, zap.NewNop())
	reloaded.Load(ctx)
	state := reloaded.State()

	require.Len(t, state.Students, 1)
	assert.Equal(t, ada.ID, state.Students[0].ID)
	assert.Equal(t, "Ada", state.Students[0].Name)
	require.NotNil(t, state.Students[0].Requirements)
	assert.Equal(t, 900, *state.Students[0].Requirements.TotalHours)

	require.Len(t, state.Subjects, 1)
	assert.Equal(t, models.CategoryCore, state.Subjects[0].Category)

	require.Len(t, state.TimeEntries, 1)
	got := state.TimeEntries[0]
	assert.Equal(t, entry.ID, got.ID)
	assert.True(t, got.Date.Equal(date), "expected %v, got %v", date, got.Date)
	assert.Equal(t, models.LocationAway, got.Location)
	assert.Equal(t, []string{"field-trip"}, got.Tags)
	assert.True(t, got.CreatedAt.Equal(entry.CreatedAt))
}
