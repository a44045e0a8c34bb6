package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brightoak/homeschool-api/internal/service"
	"github.com/brightoak/homeschool-api/pkg/dateutil"
	appErrors "github.com/brightoak/homeschool-api/pkg/errors"
	"github.com/brightoak/homeschool-api/pkg/response"
)

// ReportHandler exposes aggregate report endpoints.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// summaryFilter resolves the shared range query parameters. The named range
// presets mirror the dashboard: schoolYear takes a starting year, while
// from/to give an explicit window.
func summaryFilter(c *gin.Context) (service.SummaryFilter, error) {
	var filter service.SummaryFilter
	filter.StudentID = c.Query("studentId")

	if year := c.Query("schoolYear"); year != "" {
		startYear, err := strconv.Atoi(year)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "invalid schoolYear")
		}
		from, to := dateutil.SchoolYearWindow(startYear, time.Local)
		filter.From = &from
		filter.To = &to
		return filter, nil
	}

	if raw := c.Query("from"); raw != "" {
		t, err := dateutil.ParseFlexible(raw)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "invalid from date")
		}
		filter.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := dateutil.ParseFlexible(raw)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "invalid to date")
		}
		filter.To = &t
	}
	return filter, nil
}

// Summary godoc
// @Summary Aggregate hours by subject, category, location and student
// @Tags Reports
// @Produce json
// @Param studentId query string false "Limit to one student"
// @Param schoolYear query int false "School year starting year (July 1 anchor)"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date, exclusive (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /reports/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	filter, err := summaryFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	summary, err := h.reports.Summary(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, summary)
}

// Progress godoc
// @Summary Progress against annual hour requirements
// @Tags Reports
// @Produce json
// @Param id path string true "Student ID"
// @Param schoolYear query int false "School year starting year; defaults to the current one"
// @Success 200 {object} response.Envelope
// @Router /reports/progress/{id} [get]
func (h *ReportHandler) Progress(c *gin.Context) {
	startYear := dateutil.SchoolYearOf(time.Now())
	if year := c.Query("schoolYear"); year != "" {
		parsed, err := strconv.Atoi(year)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid schoolYear"))
			return
		}
		startYear = parsed
	}

	progress, err := h.reports.Progress(c.Request.Context(), c.Param("id"), startYear)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, progress)
}

// SchoolYears godoc
// @Summary School years with logged entries
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/school-years [get]
func (h *ReportHandler) SchoolYears(c *gin.Context) {
	years := h.reports.SchoolYears(c.Request.Context())
	response.OK(c, years)
}
