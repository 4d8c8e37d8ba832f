package handler

import (
	"bytes"
	"context"
	"encoding/json"
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

type bookingServiceMock struct {
	createResp    *dto.CreateBookingResponse
	createErr     error
	confirmResp   *dto.CreateBookingResponse
	confirmErr    error
	declineErr    error
	runResp       *dto.AllocateResponse
	runErr        error
	lastCreate    dto.CreateBookingRequest
	lastRun       dto.AllocateRequest
	createCalled  bool
	confirmCalled bool
	declineCalled bool
	runCalled     bool
}

func (m *bookingServiceMock) Create(ctx context.Context, req dto.CreateBookingRequest) (*dto.CreateBookingResponse, error) {
	m.createCalled = true
	m.lastCreate = req
	return m.createResp, m.createErr
}

func (m *bookingServiceMock) ConfirmSuggestion(ctx context.Context, req dto.ConfirmSuggestionRequest) (*dto.CreateBookingResponse, error) {
	m.confirmCalled = true
	return m.confirmResp, m.confirmErr
}

func (m *bookingServiceMock) DeclineSuggestion(ctx context.Context, req dto.DeclineSuggestionRequest) error {
	m.declineCalled = true
	return m.declineErr
}

func (m *bookingServiceMock) Run(ctx context.Context, req dto.AllocateRequest) (*dto.AllocateResponse, error) {
	m.runCalled = true
	m.lastRun = req
	return m.runResp, m.runErr
}

func postJSON(t *testing.T, path string, payload interface{}) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return w, c
}

func TestBookingHandlerCreatePlaced(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &bookingServiceMock{
		createResp: &dto.CreateBookingResponse{
			Status:     "placed",
			Assignment: &models.Assignment{RequestID: "G1", RoomID: "Meeting A"},
		},
	}
	handler := NewBookingHandler(mockSvc)

	w, c := postJSON(t, "/bookings", dto.CreateBookingRequest{
		Day: "2026-09-01", ID: "G1", Activity: "standup", Priority: 3, Size: 4,
		Primary:   dto.WindowPayload{Start: 9, End: 11},
		Alternate: dto.WindowPayload{Start: 13, End: 15},
	})
	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, mockSvc.createCalled)
	assert.Equal(t, "G1", mockSvc.lastCreate.ID)
}

func TestBookingHandlerCreateSuggested(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &bookingServiceMock{
		createResp: &dto.CreateBookingResponse{
			Status:       "suggested",
			SuggestionID: "token-1",
			Suggestions:  []dto.RankedSlot{{RoomID: "Meeting A", Score: 52, Density: "low"}},
		},
	}
	handler := NewBookingHandler(mockSvc)

	w, c := postJSON(t, "/bookings", dto.CreateBookingRequest{
		Day: "2026-09-01", ID: "G2", Activity: "review", Priority: 2, Size: 4,
		Primary:   dto.WindowPayload{Start: 9, End: 11},
		Alternate: dto.WindowPayload{Start: 13, End: 15},
	})
	handler.Create(c)

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), "token-1")
}

func TestBookingHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewBookingHandler(&bookingServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/bookings", bytes.NewBufferString(`{"id":"G1"`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandlerCreateNoAlternative(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &bookingServiceMock{createErr: appErrors.ErrNoAlternative}
	handler := NewBookingHandler(mockSvc)

	w, c := postJSON(t, "/bookings", dto.CreateBookingRequest{
		Day: "2026-09-01", ID: "G3", Activity: "sync", Priority: 1, Size: 2,
		Primary:   dto.WindowPayload{Start: 9, End: 10},
		Alternate: dto.WindowPayload{Start: 13, End: 14},
	})
	handler.Create(c)

	require.Equal(t, appErrors.ErrNoAlternative.Status, w.Code)
}

func TestBookingHandlerConfirm(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &bookingServiceMock{
		confirmResp: &dto.CreateBookingResponse{Status: "placed"},
	}
	handler := NewBookingHandler(mockSvc)

	w, c := postJSON(t, "/bookings/suggestions/confirm", dto.ConfirmSuggestionRequest{SuggestionID: "token-1", Choice: 0})
	handler.ConfirmSuggestion(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, mockSvc.confirmCalled)
}

func TestBookingHandlerConfirmExpired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &bookingServiceMock{confirmErr: appErrors.ErrSuggestionExpired}
	handler := NewBookingHandler(mockSvc)

	w, c := postJSON(t, "/bookings/suggestions/confirm", dto.ConfirmSuggestionRequest{SuggestionID: "stale"})
	handler.ConfirmSuggestion(c)

	require.Equal(t, appErrors.ErrSuggestionExpired.Status, w.Code)
}

func TestBookingHandlerDecline(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &bookingServiceMock{}
	handler := NewBookingHandler(mockSvc)

	w, c := postJSON(t, "/bookings/suggestions/decline", dto.DeclineSuggestionRequest{SuggestionID: "token-1"})
	handler.DeclineSuggestion(c)
	c.Writer.WriteHeaderNow()

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, mockSvc.declineCalled)
}

func TestBookingHandlerRun(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &bookingServiceMock{
		runResp: &dto.AllocateResponse{Day: "2026-09-01", Strategy: "exact", TotalPriority: 12},
	}
	handler := NewBookingHandler(mockSvc)

	w, c := postJSON(t, "/allocations/run", dto.AllocateRequest{Day: "2026-09-01", Strategy: "exact"})
	handler.Run(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.runCalled)
	assert.Equal(t, "exact", mockSvc.lastRun.Strategy)
	assert.Contains(t, w.Body.String(), `"totalPriority":12`)
}
