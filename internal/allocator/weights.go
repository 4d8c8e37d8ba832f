package allocator

import "github.com/coc-ops/roombook-api/internal/models"

// Weights tunes the heuristic desirability score. All four knobs are
// configuration, not constants, so the algorithm stays testable against
// alternate weightings.
type Weights struct {
	Priority    float64
	WindowBonus float64
	Waste       float64
	Order       float64
}

// DefaultWeights returns the production weighting.
func DefaultWeights() Weights {
	return Weights{Priority: 10, WindowBonus: 5, Waste: 0.5, Order: 1}
}

// Score computes the desirability of placing a request in a room under the
// given window label. Primary windows earn the window bonus, wasted capacity
// is penalised, and earlier submissions get a small fairness boost.
func (w Weights) Score(req models.Request, room models.Room, label models.WindowLabel) float64 {
	bonus := 0.0
	if label == models.WindowPrimary {
		bonus = 1.0
	}
	waste := float64(room.Capacity - req.Size)
	if waste < 0 {
		waste = 0
	}
	return w.Priority*float64(req.Priority) +
		w.WindowBonus*bonus -
		w.Waste*waste +
		w.Order*(1.0/float64(req.Order))
}
