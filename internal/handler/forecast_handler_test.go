package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coc-ops/roombook-api/internal/dto"
	appErrors "github.com/coc-ops/roombook-api/pkg/errors"
)

type forecastServiceMock struct {
	resp    *dto.ForecastResponse
	err     error
	lastDay string
}

func (m *forecastServiceMock) HourlyDemand(ctx context.Context, day string) (*dto.ForecastResponse, error) {
	m.lastDay = day
	return m.resp, m.err
}

func TestForecastHandlerGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &forecastServiceMock{
		resp: &dto.ForecastResponse{Day: "2026-09-01", Hours: map[int]float64{12: 3.5}, PeakHour: 12, QuietHour: 8},
	}
	handler := NewForecastHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/forecast?day=2026-09-01", nil)
	c.Request = req

	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2026-09-01", mockSvc.lastDay)
	assert.Contains(t, w.Body.String(), `"peakHour":12`)
}

func TestForecastHandlerDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &forecastServiceMock{err: appErrors.ErrFeatureDisabled}
	handler := NewForecastHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/forecast", nil)
	c.Request = req

	handler.Get(c)
	require.Equal(t, appErrors.ErrFeatureDisabled.Status, w.Code)
}
