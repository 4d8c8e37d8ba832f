package lp

import (
	"fmt"
	"io"
	"strings"
)

// WriteLP encodes the model in CPLEX LP text format, the input language
// understood by cbc and most MILP solvers.
func (m *Model) WriteLP(w io.Writer) error {
	var b strings.Builder

	b.WriteString("Maximize\n obj:")
	wrote := false
	for idx, coeff := range m.objective {
		if coeff == 0 {
			continue
		}
		b.WriteString(formatTerm(coeff, m.names[idx], !wrote))
		wrote = true
	}
	if !wrote {
		b.WriteString(" 0 " + safeName(m.names, 0))
	}
	b.WriteString("\n")

	b.WriteString("Subject To\n")
	for i, c := range m.constraints {
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("c%d", i+1)
		}
		b.WriteString(fmt.Sprintf(" %s:", name))
		first := true
		for idx := 0; idx < len(m.names); idx++ {
			coeff, ok := c.Terms[idx]
			if !ok || coeff == 0 {
				continue
			}
			b.WriteString(formatTerm(coeff, m.names[idx], first))
			first = false
		}
		b.WriteString(fmt.Sprintf(" <= %g\n", c.RHS))
	}

	b.WriteString("Binary\n")
	for _, name := range m.names {
		b.WriteString(" " + name + "\n")
	}
	b.WriteString("End\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func formatTerm(coeff float64, name string, first bool) string {
	sign := "+"
	if coeff < 0 {
		sign = "-"
		coeff = -coeff
	}
	if first && sign == "+" {
		if coeff == 1 {
			return fmt.Sprintf(" %s", name)
		}
		return fmt.Sprintf(" %g %s", coeff, name)
	}
	if coeff == 1 {
		return fmt.Sprintf(" %s %s", sign, name)
	}
	return fmt.Sprintf(" %s %g %s", sign, coeff, name)
}

func safeName(names []string, idx int) string {
	if idx < len(names) {
		return names[idx]
	}
	return "x0"
}
