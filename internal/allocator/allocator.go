package allocator

import (
	"context"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/coc-ops/roombook-api/internal/lp"
	"github.com/coc-ops/roombook-api/internal/models"
)

// Strategy selects the allocation algorithm.
type Strategy string

const (
	StrategyHeuristic Strategy = "heuristic"
	StrategyExact     Strategy = "exact"
)

// ParseStrategy normalises a strategy string, defaulting to heuristic.
func ParseStrategy(raw string) Strategy {
	if raw == string(StrategyExact) {
		return StrategyExact
	}
	return StrategyHeuristic
}

// Allocator computes a conflict-free assignment set over a snapshot of
// requests and rooms. Implementations must uphold the schedule invariants:
// no per-room overlap, size within capacity, at most one placement per
// request.
type Allocator interface {
	Allocate(ctx context.Context, requests []models.Request, rooms []models.Room) ([]models.Assignment, error)
}

// New builds the allocator for a strategy. The solver is only consulted by
// the exact strategy.
func New(strategy Strategy, weights Weights, solver lp.Solver, logger *zap.Logger) Allocator {
	if strategy == StrategyExact {
		return NewExact(solver, logger)
	}
	return NewHeuristic(weights, logger)
}

// Unplaced lists the ids of requests absent from the assignment set, in
// request order.
func Unplaced(requests []models.Request, assignments []models.Assignment) []string {
	placed := lo.KeyBy(assignments, func(a models.Assignment) string { return a.RequestID })
	return lo.FilterMap(requests, func(r models.Request, _ int) (string, bool) {
		_, ok := placed[r.ID]
		return r.ID, !ok
	})
}
