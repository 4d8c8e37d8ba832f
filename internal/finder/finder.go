package finder

import (
	"math"
	"sort"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/coc-ops/roombook-api/internal/models"
	appErrors "github.com/coc-ops/roombook-api/pkg/errors"
)

// Scorer rates a feasible alternative slot. Pluggable so the ranking policy
// can be swapped without touching the search.
type Scorer func(req models.Request, room models.Room, window models.Window, roomBookings int) float64

// Finder searches a day for free whole-hour slots when a request could not
// be placed in either of its own windows.
type Finder struct {
	openHour   float64
	closeHour  float64
	maxResults int
	scorer     Scorer
	logger     *zap.Logger
}

// Config tunes the search.
type Config struct {
	OpenHour   float64
	CloseHour  float64
	MaxResults int
	Scorer     Scorer
}

// New builds a finder with defaults for any zero-valued config field.
func New(cfg Config, logger *zap.Logger) *Finder {
	if cfg.OpenHour == 0 && cfg.CloseHour == 0 {
		cfg.OpenHour = models.DefaultOpenHour
		cfg.CloseHour = models.DefaultCloseHour
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 3
	}
	if cfg.Scorer == nil {
		cfg.Scorer = DefaultScorer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Finder{
		openHour:   cfg.OpenHour,
		closeHour:  cfg.CloseHour,
		maxResults: cfg.MaxResults,
		scorer:     cfg.Scorer,
		logger:     logger,
	}
}

// RankedSlot is a scored alternative placement.
type RankedSlot struct {
	RoomID  string
	Window  models.Window
	Score   float64
	Density string
}

// DefaultScorer favours slots close to the requested start in lightly booked
// rooms. Deterministic by construction, clamped to [0, 60].
func DefaultScorer(req models.Request, room models.Room, window models.Window, roomBookings int) float64 {
	score := 60 - 4*math.Abs(window.Start-req.Primary.Start) - 2*float64(roomBookings)
	if score < 0 {
		return 0
	}
	return score
}

// Suggest returns up to MaxResults free slots for the request's primary
// duration, scanning whole-hour starts across the opening interval in every
// room the request fits. Returns ErrNoAlternative when nothing is free.
func (f *Finder) Suggest(req models.Request, assignments []models.Assignment, rooms []models.Room) ([]RankedSlot, error) {
	duration := req.Primary.Duration()
	bookedByRoom := lo.GroupBy(assignments, func(a models.Assignment) string { return a.RoomID })

	var slots []RankedSlot
	for _, room := range rooms {
		if req.Size > room.Capacity {
			continue
		}
		booked := bookedByRoom[room.ID]
		for hour := int(f.openHour); float64(hour) < f.closeHour; hour++ {
			window := models.Window{Start: float64(hour), End: float64(hour) + duration}
			if window.End > f.closeHour {
				continue
			}
			if overlapsBooked(window, booked) {
				continue
			}
			slots = append(slots, RankedSlot{
				RoomID:  room.ID,
				Window:  window,
				Score:   f.scorer(req, room, window, len(booked)),
				Density: densityLabel(len(booked)),
			})
		}
	}

	if len(slots) == 0 {
		f.logger.Info("no alternative slot found", zap.String("request_id", req.ID))
		return nil, appErrors.Clone(appErrors.ErrNoAlternative, "")
	}

	sort.SliceStable(slots, func(i, j int) bool { return slots[i].Score > slots[j].Score })
	if len(slots) > f.maxResults {
		slots = slots[:f.maxResults]
	}
	return slots, nil
}

func overlapsBooked(w models.Window, booked []models.Assignment) bool {
	for _, b := range booked {
		if w.Overlaps(b.Window) {
			return true
		}
	}
	return false
}

// densityLabel classifies how busy a room already is.
func densityLabel(bookings int) string {
	if bookings < 2 {
		return "low"
	}
	return "medium"
}
