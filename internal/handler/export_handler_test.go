package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coc-ops/roombook-api/internal/service"
	appErrors "github.com/coc-ops/roombook-api/pkg/errors"
)

type exportServiceMock struct {
	result     *service.ExportResult
	err        error
	lastFormat service.ExportFormat
}

func (m *exportServiceMock) RenderSchedule(ctx context.Context, day string, format service.ExportFormat) (*service.ExportResult, error) {
	m.lastFormat = format
	return m.result, m.err
}

func TestExportHandlerScheduleCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &exportServiceMock{
		result: &service.ExportResult{
			Filename:    "schedule_2026-09-01_20260901_080000.csv",
			ContentType: "text/csv",
			Payload:     []byte("Room,Request\n"),
		},
	}
	handler := NewExportHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/exports/schedule.csv?day=2026-09-01", nil)
	c.Request = req

	handler.ScheduleCSV(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.ExportFormatCSV, mockSvc.lastFormat)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
}

func TestExportHandlerSchedulePDFDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &exportServiceMock{err: appErrors.ErrFeatureDisabled}
	handler := NewExportHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/exports/schedule.pdf", nil)
	c.Request = req

	handler.SchedulePDF(c)
	require.Equal(t, appErrors.ErrFeatureDisabled.Status, w.Code)
	assert.Equal(t, service.ExportFormatPDF, mockSvc.lastFormat)
}
