package allocator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/coc-ops/roombook-api/internal/lp"
	"github.com/coc-ops/roombook-api/internal/models"
	appErrors "github.com/coc-ops/roombook-api/pkg/errors"
)

// Exact formulates allocation as a 0/1 program maximising total satisfied
// priority and delegates the search to a solver. Guaranteed optimal where the
// heuristic is only maximal.
type Exact struct {
	solver lp.Solver
	logger *zap.Logger
}

// NewExact builds the exact allocator. A nil solver falls back to the
// in-process branch-and-bound search.
func NewExact(solver lp.Solver, logger *zap.Logger) *Exact {
	if solver == nil {
		solver = lp.NewBranchBoundSolver()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exact{solver: solver, logger: logger}
}

type placement struct {
	request models.Request
	room    models.Room
	label   models.WindowLabel
	window  models.Window
}

// Allocate builds and solves the assignment model. An infeasible report
// maps to the empty schedule, which is always valid.
func (e *Exact) Allocate(ctx context.Context, requests []models.Request, rooms []models.Room) ([]models.Assignment, error) {
	model := lp.NewModel()
	placements := make([]placement, 0, len(requests)*len(rooms)*2)
	byRequest := make(map[string][]int, len(requests))
	byRoom := make(map[string][]int, len(rooms))

	// Capacity is enforced by omission: an oversized pairing never gets a
	// variable, which is equivalent to forcing it to zero.
	for ri, req := range requests {
		for mi, room := range rooms {
			if req.Size > room.Capacity {
				continue
			}
			for _, label := range []models.WindowLabel{models.WindowPrimary, models.WindowAlternate} {
				idx := model.AddBinary(fmt.Sprintf("x_%d_%d_%s", ri, mi, label))
				model.SetObjective(idx, float64(req.Priority))
				placements = append(placements, placement{request: req, room: room, label: label, window: req.Window(label)})
				byRequest[req.ID] = append(byRequest[req.ID], idx)
				byRoom[room.ID] = append(byRoom[room.ID], idx)
			}
		}
	}

	for ri, req := range requests {
		vars := byRequest[req.ID]
		if len(vars) == 0 {
			continue
		}
		terms := make(map[int]float64, len(vars))
		for _, idx := range vars {
			terms[idx] = 1
		}
		model.AddConstraint(fmt.Sprintf("once_%d", ri), terms, 1)
	}

	// Pairwise per-room overlap constraints. Quadratic in the number of
	// placements; fine at tens of requests, an interval-sweep formulation
	// would be needed beyond that.
	conflictCount := 0
	for _, room := range rooms {
		vars := byRoom[room.ID]
		for i := 0; i < len(vars); i++ {
			for j := i + 1; j < len(vars); j++ {
				a, b := placements[vars[i]], placements[vars[j]]
				if a.request.ID == b.request.ID {
					continue
				}
				if !a.window.Overlaps(b.window) {
					continue
				}
				conflictCount++
				model.AddConstraint(
					fmt.Sprintf("clash_%d", conflictCount),
					map[int]float64{vars[i]: 1, vars[j]: 1},
					1,
				)
			}
		}
	}

	solution, err := e.solver.Solve(ctx, model)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSolverUnavailable.Code, appErrors.ErrSolverUnavailable.Status, "exact solve failed")
	}
	if solution.Status == lp.StatusInfeasible {
		return []models.Assignment{}, nil
	}
	if solution.Status != lp.StatusOptimal {
		return nil, appErrors.Clone(appErrors.ErrSolverUnavailable, "solver returned no usable solution")
	}

	assignments := make([]models.Assignment, 0)
	for idx, value := range solution.Values {
		if value != 1 {
			continue
		}
		p := placements[idx]
		assignments = append(assignments, models.Assignment{
			RequestID: p.request.ID,
			RoomID:    p.room.ID,
			Activity:  p.request.Activity,
			Label:     p.label,
			Window:    p.window,
			Priority:  p.request.Priority,
			Size:      p.request.Size,
		})
	}

	e.logger.Debug("exact allocation complete",
		zap.Int("variables", model.NumVars()),
		zap.Int("overlap_constraints", conflictCount),
		zap.Float64("objective", solution.Objective),
		zap.Int("placed", len(assignments)),
	)
	return assignments, nil
}
