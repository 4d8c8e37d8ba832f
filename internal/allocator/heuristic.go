package allocator

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/coc-ops/roombook-api/internal/models"
)

// Heuristic is the greedy, score-ordered allocator: generate every feasible
// (request, room, window) candidate, sort by score, then walk the list
// accepting candidates that collide with nothing accepted so far.
type Heuristic struct {
	weights Weights
	logger  *zap.Logger
}

// NewHeuristic builds the greedy allocator.
func NewHeuristic(weights Weights, logger *zap.Logger) *Heuristic {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Heuristic{weights: weights, logger: logger}
}

type scoredCandidate struct {
	request models.Request
	room    models.Room
	label   models.WindowLabel
	window  models.Window
	score   float64
}

// Allocate runs the greedy selection. Deterministic given equal input order:
// ties keep candidate generation order through the stable sort.
func (h *Heuristic) Allocate(ctx context.Context, requests []models.Request, rooms []models.Room) ([]models.Assignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candidates := h.generateCandidates(requests, rooms)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	assigned := make(map[string]bool, len(requests))
	booked := make(map[string][]models.Window, len(rooms))
	assignments := make([]models.Assignment, 0, len(requests))

	for _, c := range candidates {
		if assigned[c.request.ID] {
			continue
		}
		if overlapsAny(c.window, booked[c.room.ID]) {
			continue
		}
		assigned[c.request.ID] = true
		booked[c.room.ID] = append(booked[c.room.ID], c.window)
		assignments = append(assignments, models.Assignment{
			RequestID: c.request.ID,
			RoomID:    c.room.ID,
			Activity:  c.request.Activity,
			Label:     c.label,
			Window:    c.window,
			Priority:  c.request.Priority,
			Size:      c.request.Size,
		})
	}

	h.logger.Debug("heuristic allocation complete",
		zap.Int("requests", len(requests)),
		zap.Int("candidates", len(candidates)),
		zap.Int("placed", len(assignments)),
	)
	return assignments, nil
}

func (h *Heuristic) generateCandidates(requests []models.Request, rooms []models.Room) []scoredCandidate {
	candidates := make([]scoredCandidate, 0, len(requests)*len(rooms)*2)
	for _, req := range requests {
		for _, room := range rooms {
			if req.Size > room.Capacity {
				continue
			}
			for _, label := range []models.WindowLabel{models.WindowPrimary, models.WindowAlternate} {
				candidates = append(candidates, scoredCandidate{
					request: req,
					room:    room,
					label:   label,
					window:  req.Window(label),
					score:   h.weights.Score(req, room, label),
				})
			}
		}
	}
	return candidates
}

func overlapsAny(w models.Window, booked []models.Window) bool {
	for _, b := range booked {
		if w.Overlaps(b) {
			return true
		}
	}
	return false
}
