// SPDX-License-Identifier: MIT
package interiorpoint

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the interiorpoint package.
var (
	// ErrInvalidProblemShape indicates inconsistent dimensions, non-finite data,
	// a non-symmetric S or bounds outside [0,1].
	ErrInvalidProblemShape = errors.New("interiorpoint: invalid problem shape")

	// ErrInvalidOption indicates an option outside its domain (non-positive cap, ε or
	// step decrement; starting point of the wrong length or not strictly positive).
	ErrInvalidOption = errors.New("interiorpoint: invalid option")

	// ErrSingularSystem indicates the Newton (KKT) system could not be factored.
	ErrSingularSystem = errors.New("interiorpoint: singular Newton system")

	// ErrAlreadySolved indicates Solve was called twice on the same Solver.
	ErrAlreadySolved = errors.New("interiorpoint: solver already used")
)

// Operation tags for error wrapping.
const (
	opNewSolver   = "NewSolver"
	opSolve       = "Solve"
	opBuildBounds = "BuildBoundConstraints"
	opFactor      = "factor"
	opStart       = "startingPoint"
)

// ipErrorf wraps err with an operation tag, preserving it for errors.Is.
func ipErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Status reports how a solve ended.
type Status int

const (
	// StatusConverged means the Newton step norm dropped below ε.
	StatusConverged Status = iota

	// StatusNonConverged means the iteration cap was reached; Result holds the last iterate.
	StatusNonConverged

	// StatusFailed means the solve ended with an error.
	StatusFailed
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusConverged:
		return "converged"
	case StatusNonConverged:
		return "non-converged"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// IterationTrace records the diagnostics of one predictor-corrector iteration.
type IterationTrace struct {
	Iteration int
	Mu        float64 // complementarity yᵀλ/m at the start of the iteration
	Sigma     float64 // centering parameter (μ_aff/μ)³
	AlphaAff  float64 // affine (predictor) step
	Alpha     float64 // step actually taken
	StepNorm  float64 // ‖(dx, dy, dλ)‖₂ of the corrected direction
	MinY      float64 // min slack after the update
	MinLambda float64 // min multiplier after the update
}

// Result is the outcome of an interior-point solve. All slices are owned by the caller.
type Result struct {
	X      []float64
	Y      []float64 // constraint slacks Ax − b
	Lambda []float64 // multipliers of Ax ≥ b

	Status     Status
	Iterations int

	// StepNorm is the norm of the last full Newton direction.
	StepNorm float64

	// Objective is ½xᵀSx + cᵀx + Const at X. The quadratic term carries the ½ that
	// matches the stationarity residual Sx − Aᵀλ + c; it is not the plain xᵀSx + cᵀx
	// form. The minimizer is the same; the reported value differs by ½xᵀSx.
	Objective float64

	Trace []IterationTrace
}
