package dto

import "github.com/coc-ops/roombook-api/internal/models"

// WindowPayload carries a fractional-hour interval.
type WindowPayload struct {
	Start float64 `json:"start" validate:"min=0,max=24"`
	End   float64 `json:"end" validate:"min=0,max=24"`
}

// CreateBookingRequest submits a new booking group for a day.
type CreateBookingRequest struct {
	Day       string        `json:"day" validate:"omitempty,datetime=2006-01-02"`
	ID        string        `json:"id" validate:"required"`
	Activity  string        `json:"activity" validate:"required"`
	Priority  int           `json:"priority" validate:"required,min=1,max=5"`
	Size      int           `json:"size" validate:"required,min=1"`
	Primary   WindowPayload `json:"primary" validate:"required"`
	Alternate WindowPayload `json:"alternate" validate:"required"`
}

// RankedSlot is one alternative-slot suggestion.
type RankedSlot struct {
	RoomID  string        `json:"roomId"`
	Window  models.Window `json:"window"`
	Score   float64       `json:"score"`
	Density string        `json:"density"`
}

// CreateBookingResponse reports either a placement or ranked alternatives.
type CreateBookingResponse struct {
	Status       string             `json:"status"`
	Assignment   *models.Assignment `json:"assignment,omitempty"`
	SuggestionID string             `json:"suggestionId,omitempty"`
	Suggestions  []RankedSlot       `json:"suggestions,omitempty"`
}

// ConfirmSuggestionRequest applies one of the offered alternatives.
type ConfirmSuggestionRequest struct {
	SuggestionID string `json:"suggestionId" validate:"required"`
	Choice       int    `json:"choice" validate:"min=0"`
}

// DeclineSuggestionRequest discards the pending request.
type DeclineSuggestionRequest struct {
	SuggestionID string `json:"suggestionId" validate:"required"`
}

// AllocateRequest runs allocation over a day's request set.
type AllocateRequest struct {
	Day      string `json:"day" validate:"omitempty,datetime=2006-01-02"`
	Strategy string `json:"strategy" validate:"omitempty,oneof=heuristic exact"`
}

// AllocateResponse summarises an allocation run.
type AllocateResponse struct {
	Day           string              `json:"day"`
	Strategy      string              `json:"strategy"`
	Assignments   []models.Assignment `json:"assignments"`
	Unplaced      []string            `json:"unplaced"`
	TotalPriority int                 `json:"totalPriority"`
}

// ScheduleQuery filters the schedule view.
type ScheduleQuery struct {
	Day string `form:"day" json:"day"`
}

// ScheduleEntry is one booking shown in the per-room schedule.
type ScheduleEntry struct {
	RequestID string  `json:"requestId"`
	Activity  string  `json:"activity"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	Size      int     `json:"size"`
	Priority  int     `json:"priority"`
}

// RoomSchedule groups a day's bookings by room.
type RoomSchedule struct {
	RoomID      string          `json:"roomId"`
	Capacity    int             `json:"capacity"`
	Bookings    []ScheduleEntry `json:"bookings"`
	BookedHours float64         `json:"bookedHours"`
	Utilization float64         `json:"utilization"`
}

// ScheduleResponse is the full day view.
type ScheduleResponse struct {
	Day      string         `json:"day"`
	Rooms    []RoomSchedule `json:"rooms"`
	Unplaced []string       `json:"unplaced"`
}

// ForecastResponse reports expected demand per opening hour.
type ForecastResponse struct {
	Day       string          `json:"day"`
	Hours     map[int]float64 `json:"hours"`
	PeakHour  int             `json:"peakHour"`
	QuietHour int             `json:"quietHour"`
}
