// SPDX-License-Identifier: MIT
package interiorpoint

import (
	"math"

	"github.com/katalvlaran/portopt/matrix"
)

// Problem is the convex QP
//
//	minimize   ½xᵀSx + cᵀx + Const
//	subject to Ax ≥ b
//
// with S (n×n) symmetric positive semidefinite, A (m×n), m ≥ 1.
type Problem struct {
	S     *matrix.Dense
	C     []float64
	A     *matrix.Dense
	B     []float64
	Const float64
}

// Dims returns (n, m): variables and inequality constraints.
func (p Problem) Dims() (n, m int) {
	if p.S != nil {
		n = p.S.Rows()
	}
	if p.A != nil {
		m = p.A.Rows()
	}

	return n, m
}

// validate checks shapes, finiteness and symmetry and returns a copy the solver owns.
// Positive semidefiniteness is not verified.
func (p Problem) validate() (Problem, error) {
	if matrix.ValidateSquareNonNil(p.S) != nil || matrix.ValidateNotNil(p.A) != nil {
		return Problem{}, ErrInvalidProblemShape
	}
	n := p.S.Rows()
	if matrix.ValidateShape(p.A, len(p.B), n) != nil || matrix.ValidateVecLen(p.C, n) != nil {
		return Problem{}, ErrInvalidProblemShape
	}
	if matrix.ValidateFinite(p.S) != nil || matrix.ValidateFinite(p.A) != nil ||
		matrix.ValidateFiniteVec(p.C) != nil || matrix.ValidateFiniteVec(p.B) != nil ||
		math.IsNaN(p.Const) || math.IsInf(p.Const, 0) {
		return Problem{}, ErrInvalidProblemShape
	}
	if matrix.ValidateSymmetric(p.S, matrix.DefaultEpsilon) != nil {
		return Problem{}, ErrInvalidProblemShape
	}

	return Problem{
		S:     p.S.Clone().(*matrix.Dense),
		C:     append([]float64(nil), p.C...),
		A:     p.A.Clone().(*matrix.Dense),
		B:     append([]float64(nil), p.B...),
		Const: p.Const,
	}, nil
}

// objective evaluates ½xᵀSx + cᵀx + Const.
func (p Problem) objective(x []float64) float64 {
	sx, err := matrix.MatVec(p.S, x)
	if err != nil {
		return math.NaN()
	}
	var v float64
	for i := range x {
		v += x[i] * (0.5*sx[i] + p.C[i])
	}

	return v + p.Const
}
