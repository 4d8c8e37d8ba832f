package models

import (
	"fmt"

	appErrors "github.com/coc-ops/roombook-api/pkg/errors"
)

// Default facility opening interval, in fractional hours.
const (
	DefaultOpenHour  = 8.0
	DefaultCloseHour = 18.0
)

// WindowLabel distinguishes the two candidate windows carried by a request.
type WindowLabel string

const (
	WindowPrimary   WindowLabel = "primary"
	WindowAlternate WindowLabel = "alternate"
)

// Window is a half-open time interval in fractional hours (13.5 = 13:30).
type Window struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration returns the window length in hours.
func (w Window) Duration() float64 {
	return w.End - w.Start
}

// Overlaps reports whether two windows intersect under the half-open test.
func (w Window) Overlaps(other Window) bool {
	return w.End > other.Start && other.End > w.Start
}

// Validate checks the window lies inside the facility opening interval.
func (w Window) Validate(openHour, closeHour float64) error {
	if w.Start >= w.End {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("window start %.2f must be before end %.2f", w.Start, w.End))
	}
	if w.Start < openHour || w.End > closeHour {
		return appErrors.Clone(appErrors.ErrFacilityClosed, fmt.Sprintf("window %.2f-%.2f outside facility hours %.2f-%.2f", w.Start, w.End, openHour, closeHour))
	}
	return nil
}

// Request is a booking demand: who needs a room, how badly, and when.
// Immutable once created, except that confirming an alternative suggestion
// rewrites the primary window before re-allocation.
type Request struct {
	ID        string `json:"id"`
	Order     int    `json:"order"`
	Activity  string `json:"activity"`
	Priority  int    `json:"priority"`
	Size      int    `json:"size"`
	Primary   Window `json:"primary"`
	Alternate Window `json:"alternate"`
}

// Validate enforces the construction invariants.
func (r *Request) Validate(openHour, closeHour float64) error {
	if r.ID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "request id is required")
	}
	if r.Order <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "request order must be positive")
	}
	if r.Priority < 1 || r.Priority > 5 {
		return appErrors.Clone(appErrors.ErrValidation, "priority must be between 1 and 5")
	}
	if r.Size <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "size must be positive")
	}
	if err := r.Primary.Validate(openHour, closeHour); err != nil {
		return err
	}
	return r.Alternate.Validate(openHour, closeHour)
}

// Window returns the window carried under the given label.
func (r *Request) Window(label WindowLabel) Window {
	if label == WindowAlternate {
		return r.Alternate
	}
	return r.Primary
}

// Candidate is a scored (request, room, window) possibility evaluated during
// an allocation run. Never persisted.
type Candidate struct {
	RequestID string      `json:"request_id"`
	RoomID    string      `json:"room_id"`
	Label     WindowLabel `json:"label"`
	Window    Window      `json:"window"`
	Score     float64     `json:"score"`
}

// Assignment is an accepted (request, room, interval) triple.
type Assignment struct {
	RequestID string      `json:"request_id"`
	RoomID    string      `json:"room_id"`
	Activity  string      `json:"activity"`
	Label     WindowLabel `json:"label"`
	Window    Window      `json:"window"`
	Priority  int         `json:"priority"`
	Size      int         `json:"size"`
}

// TotalPriority sums the priority of every assignment, the objective both
// allocation strategies maximise.
func TotalPriority(assignments []Assignment) int {
	total := 0
	for _, a := range assignments {
		total += a.Priority
	}
	return total
}
