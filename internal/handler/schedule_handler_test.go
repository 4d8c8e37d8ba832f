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
	"github.com/coc-ops/roombook-api/internal/models"
	appErrors "github.com/coc-ops/roombook-api/pkg/errors"
)

type scheduleServiceMock struct {
	scheduleResp *dto.ScheduleResponse
	scheduleErr  error
	roomsResp    []models.Room
	roomsErr     error
	lastQuery    dto.ScheduleQuery
}

func (m *scheduleServiceMock) Schedule(ctx context.Context, query dto.ScheduleQuery) (*dto.ScheduleResponse, error) {
	m.lastQuery = query
	return m.scheduleResp, m.scheduleErr
}

func (m *scheduleServiceMock) ListRooms(ctx context.Context) ([]models.Room, error) {
	return m.roomsResp, m.roomsErr
}

func TestScheduleHandlerGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &scheduleServiceMock{
		scheduleResp: &dto.ScheduleResponse{Day: "2026-09-01", Rooms: []dto.RoomSchedule{{RoomID: "Meeting A"}}},
	}
	handler := NewScheduleHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/schedule?day=2026-09-01", nil)
	c.Request = req

	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2026-09-01", mockSvc.lastQuery.Day)
	assert.Contains(t, w.Body.String(), "Meeting A")
}

func TestScheduleHandlerGetError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &scheduleServiceMock{scheduleErr: appErrors.ErrPreconditionFailed}
	handler := NewScheduleHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/schedule", nil)
	c.Request = req

	handler.Get(c)
	require.Equal(t, appErrors.ErrPreconditionFailed.Status, w.Code)
}

func TestScheduleHandlerRooms(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &scheduleServiceMock{
		roomsResp: []models.Room{{ID: "Meeting A", Capacity: 4}, {ID: "Auditorium", Capacity: 20}},
	}
	handler := NewScheduleHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/rooms", nil)
	c.Request = req

	handler.Rooms(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Auditorium")
}
