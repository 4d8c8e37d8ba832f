package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coc-ops/roombook-api/internal/dto"
	appErrors "github.com/coc-ops/roombook-api/pkg/errors"
	"github.com/coc-ops/roombook-api/pkg/response"
)

type bookingService interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (*dto.CreateBookingResponse, error)
	ConfirmSuggestion(ctx context.Context, req dto.ConfirmSuggestionRequest) (*dto.CreateBookingResponse, error)
	DeclineSuggestion(ctx context.Context, req dto.DeclineSuggestionRequest) error
	Run(ctx context.Context, req dto.AllocateRequest) (*dto.AllocateResponse, error)
}

// BookingHandler exposes the booking lifecycle endpoints.
type BookingHandler struct {
	service bookingService
}

// NewBookingHandler builds a new handler.
func NewBookingHandler(service bookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// Create submits a booking request. Replies 201 when placed immediately and
// 202 when alternative slots are offered instead.
func (h *BookingHandler) Create(c *gin.Context) {
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid booking payload"))
		return
	}
	result, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if result.Status == "suggested" {
		response.JSON(c, http.StatusAccepted, result, nil)
		return
	}
	response.Created(c, result)
}

// ConfirmSuggestion applies a previously offered alternative slot.
func (h *BookingHandler) ConfirmSuggestion(c *gin.Context) {
	var req dto.ConfirmSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid confirm payload"))
		return
	}
	result, err := h.service.ConfirmSuggestion(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// DeclineSuggestion discards a pending suggestion.
func (h *BookingHandler) DeclineSuggestion(c *gin.Context) {
	var req dto.DeclineSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid decline payload"))
		return
	}
	if err := h.service.DeclineSuggestion(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Run performs a dry allocation run over a day's request set.
func (h *BookingHandler) Run(c *gin.Context) {
	var req dto.AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid allocation payload"))
		return
	}
	result, err := h.service.Run(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
