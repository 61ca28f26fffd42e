// SPDX-License-Identifier: MIT
package simplex

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the simplex package.
var (
	// ErrInvalidProblemShape indicates inconsistent problem dimensions, non-finite data
	// or bounds outside [0,1]. Returned before any iteration runs.
	ErrInvalidProblemShape = errors.New("simplex: invalid problem shape")

	// ErrInvalidOption indicates an option value outside its domain
	// (non-positive iteration cap, negative tolerance, unknown pivot rule).
	ErrInvalidOption = errors.New("simplex: invalid option")

	// ErrUnbounded indicates the ratio test found no row limiting the entering column.
	ErrUnbounded = errors.New("simplex: problem is unbounded")

	// ErrInfeasible indicates phase one ended with a positive artificial remainder.
	ErrInfeasible = errors.New("simplex: problem is infeasible")

	// ErrAlreadySolved indicates Solve was called twice on the same Solver.
	ErrAlreadySolved = errors.New("simplex: solver already used")
)

// Operation tags for error wrapping.
const (
	opNewSolver     = "NewSolver"
	opSolve         = "Solve"
	opBuildStandard = "BuildStandardForm"
	opPhaseOne      = "phaseOne"
	opPhaseTwo      = "phaseTwo"
	opNewOrdering   = "NewOrdering"
)

// simplexErrorf wraps err with an operation tag, preserving it for errors.Is.
func simplexErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Status reports how a solve ended.
type Status int

const (
	// StatusOptimal means no objective-row coefficient is positive beyond tolerance.
	StatusOptimal Status = iota

	// StatusIterationLimit means the iteration cap was hit (or every candidate column
	// was excluded as degenerate); the Result carries the last iterate.
	StatusIterationLimit

	// StatusFailed means the solve ended with an error (unbounded, infeasible, cancelled).
	StatusFailed
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusIterationLimit:
		return "iteration-limit"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// PivotRule selects the entering column at each iteration.
type PivotRule int

const (
	// Greedy (Dantzig) takes the largest positive objective coefficient; lowest index wins ties.
	Greedy PivotRule = iota

	// RoundRobin (Cunningham) walks a seeded permutation from a moving cursor and takes
	// the first eligible column.
	RoundRobin

	// Random draws uniformly among the eligible columns, listed in permutation order.
	Random
)

// String implements fmt.Stringer.
func (r PivotRule) String() string {
	switch r {
	case Greedy:
		return "greedy"
	case RoundRobin:
		return "round-robin"
	case Random:
		return "random"
	default:
		return fmt.Sprintf("PivotRule(%d)", int(r))
	}
}

// ParsePivotRule maps "greedy", "round-robin" (or "roundrobin", "cunningham") and
// "random" to a PivotRule.
func ParsePivotRule(s string) (PivotRule, error) {
	switch s {
	case "", "greedy", "dantzig":
		return Greedy, nil
	case "round-robin", "roundrobin", "cunningham":
		return RoundRobin, nil
	case "random":
		return Random, nil
	default:
		return Greedy, fmt.Errorf("%w: pivot rule %q", ErrInvalidOption, s)
	}
}

// WarningKind classifies a non-fatal event recorded during pivoting.
type WarningKind int

const (
	// WarningDegeneratePivot: the pivot element picked by the ratio test was below
	// 1e-9 in magnitude; the column was excluded for that iteration and selection
	// repeated. If every improving column ends up excluded the solve stops with
	// StatusIterationLimit.
	WarningDegeneratePivot WarningKind = iota

	// WarningDegenerateStep: the minimum ratio was zero, so the pivot made no
	// objective progress.
	WarningDegenerateStep
)

// String implements fmt.Stringer.
func (k WarningKind) String() string {
	switch k {
	case WarningDegeneratePivot:
		return "degenerate-pivot"
	case WarningDegenerateStep:
		return "degenerate-step"
	default:
		return fmt.Sprintf("WarningKind(%d)", int(k))
	}
}

// Warning is a diagnostic attached to a Result. Warnings never stop the loop.
type Warning struct {
	Kind      WarningKind
	Iteration int // pivots completed before the event
	Row       int // constraint row of the pivot
	Column    int // entering column
}

// String implements fmt.Stringer.
func (w Warning) String() string {
	return fmt.Sprintf("%s at iteration %d (row %d, column %d)", w.Kind, w.Iteration, w.Row, w.Column)
}

// Duals holds the final objective-row entries of the tableau.
//
// In the maximization convention used here an optimal tableau has every entry ≤ 0.
// Structural[j] is the reduced cost of x_j; -Slack[i] is the shadow price of row i.
type Duals struct {
	Structural []float64
	Slack      []float64
}

// Result is the outcome of a simplex solve. All slices are owned by the caller.
type Result struct {
	// X holds the structural variables (portfolio weights for a standard-form portfolio LP).
	X []float64

	// Slack holds the remaining columns (len = total columns − Structural).
	Slack []float64

	Duals Duals

	// Iterations counts pivots across both phases.
	Iterations int

	Status Status

	// Objective is cᵀx of the final iterate.
	Objective float64

	// ObjectiveTrace holds cᵀx at the phase-two starting basis and after every
	// phase-two pivot; it is non-decreasing.
	ObjectiveTrace []float64

	Warnings []Warning
}

// ComplementarySlackness returns Duals.Structural·X and Duals.Slack·Slack.
// Both are zero (up to round-off) at an optimal basis: a basic variable has a zero
// reduced cost and a non-basic variable is zero.
func (r Result) ComplementarySlackness() (structural, slack float64) {
	return dot(r.Duals.Structural, r.X), dot(r.Duals.Slack, r.Slack)
}
