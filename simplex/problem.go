// SPDX-License-Identifier: MIT
package simplex

import (
	"github.com/katalvlaran/portopt/matrix"
	"gonum.org/v1/gonum/floats"
)

// Problem is an LP in equality standard form: maximize cᵀx subject to Ax = b, x ≥ 0.
//
// The first Structural columns are the decision variables; the remaining columns
// (slacks added by BuildStandardForm) are reported separately in Result.Slack.
// Structural == 0 means every column is structural.
type Problem struct {
	C          []float64
	A          *matrix.Dense
	B          []float64
	Structural int
}

// Rows returns the number of constraints.
func (p Problem) Rows() int {
	if p.A == nil {
		return 0
	}

	return p.A.Rows()
}

// Cols returns the total number of columns (structural + slack).
func (p Problem) Cols() int {
	if p.A == nil {
		return 0
	}

	return p.A.Cols()
}

// validate checks dimensions and finiteness and returns a normalized copy that the
// solver owns: A cloned, c/b copied, Structural defaulted.
func (p Problem) validate() (Problem, error) {
	if err := matrix.ValidateNotNil(p.A); err != nil {
		return Problem{}, ErrInvalidProblemShape
	}
	m, n := p.A.Rows(), p.A.Cols()
	if len(p.C) != n || len(p.B) != m {
		return Problem{}, ErrInvalidProblemShape
	}
	if matrix.ValidateFinite(p.A) != nil ||
		matrix.ValidateFiniteVec(p.C) != nil ||
		matrix.ValidateFiniteVec(p.B) != nil {
		return Problem{}, ErrInvalidProblemShape
	}
	structural := p.Structural
	if structural == 0 {
		structural = n
	}
	if structural < 0 || structural > n {
		return Problem{}, ErrInvalidProblemShape
	}

	return Problem{
		C:          append([]float64(nil), p.C...),
		A:          p.A.Clone().(*matrix.Dense),
		B:          append([]float64(nil), p.B...),
		Structural: structural,
	}, nil
}

// dot is floats.Dot tolerant of mismatched lengths (returns 0).
func dot(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	return floats.Dot(a, b)
}
