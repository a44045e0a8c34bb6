package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightoak/homeschool-api/internal/models"
	"github.com/brightoak/homeschool-api/internal/store"
)

func newExportService(t *testing.T, st *store.Store, maxRows int) *ExportService {
	t.Helper()
	return NewExportService(st, NewReportService(st, nil), maxRows, nil)
}

func TestEntriesCSVRendersResolvedNames(t *testing.T) {
	f := newReportFixture(t)
	svc := newExportService(t, f.st, 0)

	data, name, err := svc.EntriesCSV(context.Background(), SummaryFilter{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "time-entries-"))
	assert.True(t, strings.HasSuffix(name, ".csv"))

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5, "header plus four entries")
	assert.Equal(t, entryHeaders, records[0])

	// Newest date first.
	assert.Equal(t, "2025-03-12", records[1][0])
	assert.Equal(t, "Ben", records[1][1])
	assert.Equal(t, "Math", records[1][2])
	assert.Equal(t, "Core", records[1][3])
	assert.Equal(t, "90", records[1][4])
}

func TestEntriesCSVHonorsMaxRows(t *testing.T) {
	f := newReportFixture(t)
	svc := newExportService(t, f.st, 2)

	data, _, err := svc.EntriesCSV(context.Background(), SummaryFilter{})
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 3, "header plus capped rows")
}

func TestEntriesCSVRendersDanglingAsUnknown(t *testing.T) {
	st := newTestBackingStore(t)
	st.AddTimeEntry(context.Background(), store.TimeEntryDraft{
		StudentID: "ghost",
		SubjectID: "ghost",
		Date:      time.Date(2025, 1, 10, 0, 0, 0, 0, time.Local),
		Duration:  30,
	})
	svc := newExportService(t, st, 0)

	data, _, err := svc.EntriesCSV(context.Background(), SummaryFilter{})
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Unknown", records[1][1])
	assert.Equal(t, "Unknown", records[1][2])
}

func TestSummaryPDFProducesDocument(t *testing.T) {
	f := newReportFixture(t)
	svc := newExportService(t, f.st, 0)

	data, name, err := svc.SummaryPDF(context.Background(), SummaryFilter{StudentID: f.ada.ID})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "hours-report-"))
	assert.True(t, strings.HasSuffix(name, ".pdf"))
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "output is a PDF document")
}

func TestProvisionerIsIdempotent(t *testing.T) {
	st := newTestBackingStore(t)
	p := NewProvisioner(st, nil)
	ctx := context.Background()

	first, created := p.EnsureSubject(ctx, "Volunteer Hours", "#8E44AD", models.CategoryNonCore)
	assert.True(t, created)
	assert.Equal(t, models.CategoryNonCore, first.Category)
	assert.Equal(t, "#8E44AD", first.Color)

	second, created := p.EnsureSubject(ctx, "Volunteer Hours", "#8E44AD", models.CategoryNonCore)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	require.Len(t, st.State().Subjects, 1)
}
