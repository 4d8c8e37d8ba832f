package lp

import (
	"context"
	"sort"
)

// BranchBoundSolver is an in-process exact solver for small 0/1 models. It
// explores variables in descending objective order, pruning branches whose
// optimistic bound cannot beat the incumbent. Suitable for the instance sizes
// this engine produces (tens of variables); larger models should go through
// an external solver.
type BranchBoundSolver struct{}

// NewBranchBoundSolver returns the in-process solver.
func NewBranchBoundSolver() *BranchBoundSolver {
	return &BranchBoundSolver{}
}

type bnbState struct {
	model    *Model
	order    []int
	suffix   []float64
	activity []float64
	values   []int

	best          []int
	bestObjective float64
	found         bool
}

// Solve runs the search. The empty assignment is checked first, so a model
// whose constraints admit all-zeros always yields at least that solution.
func (s *BranchBoundSolver) Solve(ctx context.Context, model *Model) (Solution, error) {
	n := model.NumVars()
	obj := model.Objective()

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return obj[order[a]] > obj[order[b]]
	})

	// suffix[i] = best-case gain from variables order[i:].
	suffix := make([]float64, n+1)
	for i := n - 1; i >= 0; i-- {
		gain := obj[order[i]]
		if gain < 0 {
			gain = 0
		}
		suffix[i] = suffix[i+1] + gain
	}

	st := &bnbState{
		model:    model,
		order:    order,
		suffix:   suffix,
		activity: make([]float64, len(model.Constraints())),
		values:   make([]int, n),
	}

	if model.Feasible(st.values) {
		st.best = make([]int, n)
		st.bestObjective = 0
		st.found = true
	}

	if err := st.branch(ctx, 0, 0); err != nil {
		return Solution{Status: StatusUnknown}, err
	}

	if !st.found {
		return Solution{Status: StatusInfeasible}, nil
	}
	return Solution{Status: StatusOptimal, Objective: st.bestObjective, Values: st.best}, nil
}

func (st *bnbState) branch(ctx context.Context, depth int, current float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(st.order) {
		if !st.found || current > st.bestObjective {
			st.bestObjective = current
			st.best = append([]int(nil), st.values...)
			st.found = true
		}
		return nil
	}
	if st.found && current+st.suffix[depth] <= st.bestObjective {
		return nil
	}

	idx := st.order[depth]

	if st.setVar(idx, true) {
		if err := st.branch(ctx, depth+1, current+st.model.Objective()[idx]); err != nil {
			return err
		}
	}
	st.setVar(idx, false)

	return st.branch(ctx, depth+1, current)
}

// setVar flips a variable on or off, keeping constraint activities in sync.
// Turning a variable on returns false and rolls back when a constraint would
// be violated.
func (st *bnbState) setVar(idx int, on bool) bool {
	constraints := st.model.Constraints()
	if on {
		for ci := range constraints {
			coeff, ok := constraints[ci].Terms[idx]
			if !ok {
				continue
			}
			st.activity[ci] += coeff
		}
		for ci := range constraints {
			if _, ok := constraints[ci].Terms[idx]; !ok {
				continue
			}
			if st.activity[ci] > constraints[ci].RHS+1e-9 {
				st.unset(idx)
				return false
			}
		}
		st.values[idx] = 1
		return true
	}
	if st.values[idx] == 1 {
		st.unset(idx)
	}
	return true
}

func (st *bnbState) unset(idx int) {
	for ci := range st.model.Constraints() {
		coeff, ok := st.model.Constraints()[ci].Terms[idx]
		if !ok {
			continue
		}
		st.activity[ci] -= coeff
	}
	st.values[idx] = 0
}
