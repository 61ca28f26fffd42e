// SPDX-License-Identifier: MIT
package interiorpoint

import (
	"github.com/katalvlaran/portopt/matrix"
)

// kkt holds the Newton system of the perturbed optimality conditions
//
//	[ S   0  −Aᵀ ] [dx]   [ −rd ]
//	[ A  −I   0  ] [dy] = [ −rp ]
//	[ 0   Λ   Y  ] [dλ]   [ r3  ]
//
// of size N = n + 2m. The S, A, −Aᵀ and −I blocks are written once; only the
// diagonal blocks Λ and Y change between iterations. One LU factorization per
// iteration serves both the predictor and the corrector right-hand sides.
type kkt struct {
	n, m int
	k    *matrix.Dense // assembled system
	lu   *matrix.Dense // factorization workspace
	piv  []int
	rhs  []float64 // right-hand side, overwritten by the solution
}

// newKKT allocates the buffers and writes the constant blocks.
func newKKT(p Problem) (*kkt, error) {
	n, m := p.Dims()
	N := n + 2*m
	k, err := matrix.NewDense(N, N)
	if err != nil {
		return nil, err
	}
	lu, err := matrix.NewDense(N, N)
	if err != nil {
		return nil, err
	}

	var i, j int
	var row, srow, arow []float64
	for i = 0; i < n; i++ {
		row, _ = k.Row(i)
		srow, _ = p.S.Row(i)
		copy(row[:n], srow)
		for j = 0; j < m; j++ {
			arow, _ = p.A.Row(j)
			row[n+m+j] = -arow[i]
		}
	}
	for i = 0; i < m; i++ {
		row, _ = k.Row(n + i)
		arow, _ = p.A.Row(i)
		copy(row[:n], arow)
		row[n+i] = -1
	}

	return &kkt{n: n, m: m, k: k, lu: lu, piv: make([]int, N), rhs: make([]float64, N)}, nil
}

// refresh writes the Λ and Y blocks for the iterate (y, λ).
func (s *kkt) refresh(y, lambda []float64) {
	n, m := s.n, s.m
	var row []float64
	for i := 0; i < m; i++ {
		row, _ = s.k.Row(n + m + i)
		row[n+i] = lambda[i]
		row[n+m+i] = y[i]
	}
}

// factor refreshes the Λ and Y blocks for the iterate (y, λ) and factors the system.
func (s *kkt) factor(y, lambda []float64) error {
	s.refresh(y, lambda)
	if err := s.lu.CopyFrom(s.k); err != nil {
		return err
	}

	return matrix.LUPInPlace(s.lu, s.piv)
}

// fill writes the right-hand side (−rd, −rp, r3).
func (s *kkt) fill(rd, rp, r3 []float64) {
	n, m := s.n, s.m
	for i := 0; i < n; i++ {
		s.rhs[i] = -rd[i]
	}
	for i := 0; i < m; i++ {
		s.rhs[n+i] = -rp[i]
		s.rhs[n+m+i] = r3[i]
	}
}

// solve fills the right-hand side from rd, rp and r3 and solves with the current
// factorization. The returned slices alias the internal buffer and are valid until
// the next solve.
func (s *kkt) solve(rd, rp, r3 []float64) (dx, dy, dl []float64, err error) {
	s.fill(rd, rp, r3)
	if err = matrix.LUPSolveInPlace(s.lu, s.piv, s.rhs); err != nil {
		return nil, nil, nil, err
	}

	dx, dy, dl = s.split(s.rhs)

	return dx, dy, dl, nil
}

// solveOnce solves the system at (y, λ) with a one-off factorization; the LU
// workspace is not touched.
func (s *kkt) solveOnce(y, lambda, rd, rp, r3 []float64) (dx, dy, dl []float64, err error) {
	s.refresh(y, lambda)
	s.fill(rd, rp, r3)
	z, err := matrix.Solve(s.k, s.rhs)
	if err != nil {
		return nil, nil, nil, err
	}

	dx, dy, dl = s.split(z)

	return dx, dy, dl, nil
}

func (s *kkt) split(z []float64) (dx, dy, dl []float64) {
	n, m := s.n, s.m
	return z[:n], z[n : n+m], z[n+m:]
}
