package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightoak/homeschool-api/internal/service"
	"github.com/brightoak/homeschool-api/pkg/response"
)

// ExportHandler serves downloadable report documents.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// EntriesCSV godoc
// @Summary Download time entries as CSV
// @Tags Exports
// @Produce text/csv
// @Param studentId query string false "Limit to one student"
// @Param schoolYear query int false "School year starting year"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date, exclusive (YYYY-MM-DD)"
// @Success 200 {file} file
// @Router /exports/entries.csv [get]
func (h *ExportHandler) EntriesCSV(c *gin.Context) {
	filter, err := summaryFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	data, name, err := h.exports.EntriesCSV(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "text/csv", data)
}

// SummaryPDF godoc
// @Summary Download the hours report as PDF
// @Tags Exports
// @Produce application/pdf
// @Param studentId query string false "Limit to one student"
// @Param schoolYear query int false "School year starting year"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date, exclusive (YYYY-MM-DD)"
// @Success 200 {file} file
// @Router /exports/summary.pdf [get]
func (h *ExportHandler) SummaryPDF(c *gin.Context) {
	filter, err := summaryFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	data, name, err := h.exports.SummaryPDF(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "application/pdf", data)
}
