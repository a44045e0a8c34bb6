package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/brightoak/homeschool-api/internal/models"
	"github.com/brightoak/homeschool-api/pkg/export"
)

// ExportService renders entries and summaries into downloadable documents.
type ExportService struct {
	store   reportStore
	reports *ReportService
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	maxRows int
	logger  *zap.Logger
}

// NewExportService constructs the export service. maxRows caps the entry
// exports; zero or negative means no cap.
func NewExportService(st reportStore, reports *ReportService, maxRows int, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		store:   st,
		reports: reports,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		maxRows: maxRows,
		logger:  logger,
	}
}

var entryHeaders = []string{"Date", "Student", "Subject", "Category", "Duration (min)", "Location", "Notes", "Tags"}

// EntriesCSV renders the filtered entries as CSV, newest date first.
func (s *ExportService) EntriesCSV(ctx context.Context, filter SummaryFilter) ([]byte, string, error) {
	state := s.store.State()
	subjects := indexSubjects(state.Subjects)
	students := indexStudents(state.Students)

	var rows [][]string
	entries := append([]models.TimeEntry(nil), state.TimeEntries...)
	sortEntriesByDateDesc(entries)
	for _, e := range entries {
		if !matchesWindow(e, filter.StudentID, filter.From, filter.To) {
			continue
		}
		if s.maxRows > 0 && len(rows) >= s.maxRows {
			break
		}

		studentName, subjectName, category := unknownLabel, unknownLabel, ""
		if st, ok := students[e.StudentID]; ok {
			studentName = st.Name
		}
		if sub, ok := subjects[e.SubjectID]; ok {
			subjectName = sub.Name
			category = string(sub.Category)
		}
		rows = append(rows, []string{
			e.Date.Format("2006-01-02"),
			studentName,
			subjectName,
			category,
			fmt.Sprintf("%d", e.Duration),
			string(e.Location),
			e.Notes,
			strings.Join(e.Tags, ", "),
		})
	}

	data, err := s.csv.Render(export.Dataset{Headers: entryHeaders, Rows: rows})
	if err != nil {
		return nil, "", fmt.Errorf("render entries csv: %w", err)
	}
	name := fmt.Sprintf("time-entries-%s.csv", time.Now().Format("2006-01-02"))
	return data, name, nil
}

// SummaryPDF renders an aggregate report as a tabular PDF.
func (s *ExportService) SummaryPDF(ctx context.Context, filter SummaryFilter) ([]byte, string, error) {
	summary, err := s.reports.Summary(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	headers := []string{"Breakdown", "Key", "Hours"}
	var rows [][]string
	appendSection := func(section string, buckets []HoursBucket) {
		for _, b := range buckets {
			rows = append(rows, []string{section, b.Label, fmt.Sprintf("%.1f", b.Hours)})
		}
	}
	rows = append(rows, []string{
		"Total",
		fmt.Sprintf("%d entries", summary.EntryCount),
		fmt.Sprintf("%.1f", summary.TotalHours),
	})
	appendSection("By Student", summary.ByStudent)
	appendSection("By Subject", summary.BySubject)
	appendSection("By Category", summary.ByCategory)
	appendSection("By Location", summary.ByLocation)

	data, err := s.pdf.Render(export.Dataset{Headers: headers, Rows: rows}, "Homeschool Hours Report")
	if err != nil {
		return nil, "", fmt.Errorf("render summary pdf: %w", err)
	}
	name := fmt.Sprintf("hours-report-%s.pdf", time.Now().Format("2006-01-02"))
	return data, name, nil
}
