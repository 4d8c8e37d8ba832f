package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coc-ops/roombook-api/internal/dto"
	"github.com/coc-ops/roombook-api/pkg/response"
)

type forecastService interface {
	HourlyDemand(ctx context.Context, day string) (*dto.ForecastResponse, error)
}

// ForecastHandler serves the hourly demand forecast.
type ForecastHandler struct {
	service forecastService
}

// NewForecastHandler builds a new handler.
func NewForecastHandler(service forecastService) *ForecastHandler {
	return &ForecastHandler{service: service}
}

// Get returns per-hour demand for a day, defaulting to today.
func (h *ForecastHandler) Get(c *gin.Context) {
	forecast, err := h.service.HourlyDemand(c.Request.Context(), c.Query("day"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, forecast, nil)
}
