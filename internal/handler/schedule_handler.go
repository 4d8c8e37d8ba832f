package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coc-ops/roombook-api/internal/dto"
	"github.com/coc-ops/roombook-api/internal/models"
	"github.com/coc-ops/roombook-api/pkg/response"
)

type scheduleService interface {
	Schedule(ctx context.Context, query dto.ScheduleQuery) (*dto.ScheduleResponse, error)
	ListRooms(ctx context.Context) ([]models.Room, error)
}

// ScheduleHandler serves the day schedule view and the room catalog.
type ScheduleHandler struct {
	service scheduleService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(service scheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

// Get returns the per-room schedule for a day.
func (h *ScheduleHandler) Get(c *gin.Context) {
	var query dto.ScheduleQuery
	_ = c.ShouldBindQuery(&query)
	schedule, err := h.service.Schedule(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Rooms lists the room catalog.
func (h *ScheduleHandler) Rooms(c *gin.Context) {
	rooms, err := h.service.ListRooms(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms, nil)
}
