package lp

import "fmt"

// Model is a 0/1 integer linear program in maximisation form with
// less-than-or-equal constraints. Variable values are restricted to {0,1}.
type Model struct {
	names       []string
	index       map[string]int
	objective   []float64
	constraints []Constraint
}

// Constraint is a linear inequality sum(terms) <= rhs.
type Constraint struct {
	Name  string
	Terms map[int]float64
	RHS   float64
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{index: make(map[string]int)}
}

// AddBinary registers a binary variable and returns its index. Registering
// the same name twice returns the existing index.
func (m *Model) AddBinary(name string) int {
	if idx, ok := m.index[name]; ok {
		return idx
	}
	idx := len(m.names)
	m.names = append(m.names, name)
	m.objective = append(m.objective, 0)
	m.index[name] = idx
	return idx
}

// SetObjective assigns the maximisation coefficient of a variable.
func (m *Model) SetObjective(idx int, coeff float64) {
	m.objective[idx] = coeff
}

// AddConstraint appends a <= constraint over the given variable terms.
func (m *Model) AddConstraint(name string, terms map[int]float64, rhs float64) {
	copied := make(map[int]float64, len(terms))
	for idx, coeff := range terms {
		copied[idx] = coeff
	}
	m.constraints = append(m.constraints, Constraint{Name: name, Terms: copied, RHS: rhs})
}

// NumVars returns the variable count.
func (m *Model) NumVars() int {
	return len(m.names)
}

// VarName returns the name registered for a variable index.
func (m *Model) VarName(idx int) string {
	return m.names[idx]
}

// Lookup returns the index of a named variable.
func (m *Model) Lookup(name string) (int, bool) {
	idx, ok := m.index[name]
	return idx, ok
}

// Constraints exposes the constraint list for solvers.
func (m *Model) Constraints() []Constraint {
	return m.constraints
}

// Objective exposes the objective coefficients for solvers.
func (m *Model) Objective() []float64 {
	return m.objective
}

// Evaluate computes the objective value of an assignment vector.
func (m *Model) Evaluate(values []int) (float64, error) {
	if len(values) != len(m.objective) {
		return 0, fmt.Errorf("assignment length %d does not match %d variables", len(values), len(m.objective))
	}
	total := 0.0
	for i, v := range values {
		if v != 0 {
			total += m.objective[i]
		}
	}
	return total, nil
}

// Feasible reports whether an assignment satisfies every constraint.
func (m *Model) Feasible(values []int) bool {
	for _, c := range m.constraints {
		activity := 0.0
		for idx, coeff := range c.Terms {
			if idx < len(values) && values[idx] != 0 {
				activity += coeff
			}
		}
		if activity > c.RHS+1e-9 {
			return false
		}
	}
	return true
}
