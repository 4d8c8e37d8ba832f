package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coc-ops/roombook-api/internal/service"
	"github.com/coc-ops/roombook-api/pkg/response"
)

type exportService interface {
	RenderSchedule(ctx context.Context, day string, format service.ExportFormat) (*service.ExportResult, error)
}

// ExportHandler streams rendered schedule files.
type ExportHandler struct {
	service exportService
}

// NewExportHandler builds a new handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// ScheduleCSV renders the day schedule as CSV.
func (h *ExportHandler) ScheduleCSV(c *gin.Context) {
	h.render(c, service.ExportFormatCSV)
}

// SchedulePDF renders the day schedule as PDF.
func (h *ExportHandler) SchedulePDF(c *gin.Context) {
	h.render(c, service.ExportFormatPDF)
}

func (h *ExportHandler) render(c *gin.Context, format service.ExportFormat) {
	result, err := h.service.RenderSchedule(c.Request.Context(), c.Query("day"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
