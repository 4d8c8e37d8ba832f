package lp

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// CBCSolver shells out to the COIN-OR cbc binary. The model is written to a
// temp file in LP format and the solution file is read back.
type CBCSolver struct {
	binary string
}

// NewCBCSolver returns a solver invoking the given cbc binary path. An empty
// path defaults to "cbc" on PATH.
func NewCBCSolver(binary string) *CBCSolver {
	if binary == "" {
		binary = "cbc"
	}
	return &CBCSolver{binary: binary}
}

// Solve writes the model, invokes cbc and parses its solution file.
func (s *CBCSolver) Solve(ctx context.Context, model *Model) (Solution, error) {
	dir, err := os.MkdirTemp("", "lp-solve-*")
	if err != nil {
		return Solution{Status: StatusUnknown}, fmt.Errorf("create solver workspace: %w", err)
	}
	defer os.RemoveAll(dir) //nolint:errcheck

	modelPath := filepath.Join(dir, "model.lp")
	solutionPath := filepath.Join(dir, "solution.txt")

	file, err := os.Create(modelPath)
	if err != nil {
		return Solution{Status: StatusUnknown}, fmt.Errorf("create model file: %w", err)
	}
	if err := model.WriteLP(file); err != nil {
		_ = file.Close()
		return Solution{Status: StatusUnknown}, fmt.Errorf("write model: %w", err)
	}
	if err := file.Close(); err != nil {
		return Solution{Status: StatusUnknown}, fmt.Errorf("close model file: %w", err)
	}

	cmd := exec.CommandContext(ctx, s.binary, modelPath, "solve", "solu", solutionPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return Solution{Status: StatusUnknown}, fmt.Errorf("run %s: %w: %s", s.binary, err, strings.TrimSpace(string(out)))
	}

	return s.parseSolution(model, solutionPath)
}

func (s *CBCSolver) parseSolution(model *Model, path string) (Solution, error) {
	file, err := os.Open(path)
	if err != nil {
		return Solution{Status: StatusUnknown}, fmt.Errorf("open solution file: %w", err)
	}
	defer file.Close() //nolint:errcheck

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		return Solution{Status: StatusUnknown}, fmt.Errorf("empty solution file")
	}
	header := scanner.Text()
	if strings.HasPrefix(header, "Infeasible") {
		return Solution{Status: StatusInfeasible}, nil
	}
	if !strings.HasPrefix(header, "Optimal") {
		return Solution{Status: StatusUnknown}, fmt.Errorf("unexpected solver status: %s", header)
	}

	values := make([]int, model.NumVars())
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		idx, ok := model.Lookup(fields[1])
		if !ok {
			continue
		}
		value, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			continue
		}
		if value > 0.5 {
			values[idx] = 1
		}
	}
	if err := scanner.Err(); err != nil {
		return Solution{Status: StatusUnknown}, fmt.Errorf("read solution file: %w", err)
	}

	objective, err := model.Evaluate(values)
	if err != nil {
		return Solution{Status: StatusUnknown}, err
	}
	return Solution{Status: StatusOptimal, Objective: objective, Values: values}, nil
}
