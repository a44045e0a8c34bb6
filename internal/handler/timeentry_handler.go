package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/brightoak/homeschool-api/internal/models"
	"github.com/brightoak/homeschool-api/internal/service"
	"github.com/brightoak/homeschool-api/pkg/dateutil"
	appErrors "github.com/brightoak/homeschool-api/pkg/errors"
	"github.com/brightoak/homeschool-api/pkg/response"
)

// TimeEntryHandler exposes time-log endpoints.
type TimeEntryHandler struct {
	entries *service.TimeEntryService
}

// NewTimeEntryHandler constructs TimeEntryHandler.
func NewTimeEntryHandler(entries *service.TimeEntryService) *TimeEntryHandler {
	return &TimeEntryHandler{entries: entries}
}

// List godoc
// @Summary List time entries
// @Tags TimeEntries
// @Produce json
// @Param studentId query string false "Filter by student"
// @Param subjectId query string false "Filter by subject"
// @Param seriesId query string false "Filter by recurring series"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date, exclusive (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /time-entries [get]
func (h *TimeEntryHandler) List(c *gin.Context) {
	var filter models.TimeEntryFilter
	filter.StudentID = c.Query("studentId")
	filter.SubjectID = c.Query("subjectId")
	filter.SeriesID = c.Query("seriesId")
	if raw := c.Query("from"); raw != "" {
		t, err := dateutil.ParseFlexible(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid from date"))
			return
		}
		filter.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := dateutil.ParseFlexible(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid to date"))
			return
		}
		filter.To = &t
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	entries, pagination, err := h.entries.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, pagination)
}

// Get godoc
// @Summary Get time entry
// @Tags TimeEntries
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} response.Envelope
// @Router /time-entries/{id} [get]
func (h *TimeEntryHandler) Get(c *gin.Context) {
	entry, err := h.entries.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, entry)
}

// Create godoc
// @Summary Log a time entry
// @Tags TimeEntries
// @Accept json
// @Produce json
// @Param payload body service.CreateTimeEntryRequest true "Entry payload"
// @Success 201 {object} response.Envelope
// @Router /time-entries [post]
func (h *TimeEntryHandler) Create(c *gin.Context) {
	var req service.CreateTimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.entries.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// CreateRecurring godoc
// @Summary Log a recurring series of time entries
// @Tags TimeEntries
// @Accept json
// @Produce json
// @Param payload body service.CreateRecurringRequest true "Recurring request"
// @Success 201 {object} response.Envelope
// @Router /time-entries/recurring [post]
func (h *TimeEntryHandler) CreateRecurring(c *gin.Context) {
	var req service.CreateRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.entries.CreateRecurring(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, result, nil)
}

// Update godoc
// @Summary Update time entry
// @Tags TimeEntries
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param payload body service.UpdateTimeEntryRequest true "Partial entry payload"
// @Success 200 {object} response.Envelope
// @Router /time-entries/{id} [patch]
func (h *TimeEntryHandler) Update(c *gin.Context) {
	var req service.UpdateTimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.entries.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, entry)
}

// Delete godoc
// @Summary Delete time entry
// @Tags TimeEntries
// @Produce json
// @Param id path string true "Entry ID"
// @Success 204
// @Router /time-entries/{id} [delete]
func (h *TimeEntryHandler) Delete(c *gin.Context) {
	if err := h.entries.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
