package lp

import (
	"context"
	"time"
)

// Status classifies a solve outcome.
type Status int

const (
	StatusOptimal Status = iota
	StatusInfeasible
	StatusUnknown
)

// Solution holds the solved variable values indexed like the model.
type Solution struct {
	Status    Status
	Objective float64
	Values    []int
}

// Solver finds a maximising 0/1 assignment for a model.
type Solver interface {
	Solve(ctx context.Context, model *Model) (Solution, error)
}

type timeoutSolver struct {
	inner   Solver
	timeout time.Duration
}

// WithTimeout bounds each Solve call. A non-positive timeout returns the
// solver unchanged.
func WithTimeout(s Solver, timeout time.Duration) Solver {
	if timeout <= 0 {
		return s
	}
	return &timeoutSolver{inner: s, timeout: timeout}
}

func (t *timeoutSolver) Solve(ctx context.Context, model *Model) (Solution, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Solve(ctx, model)
}
