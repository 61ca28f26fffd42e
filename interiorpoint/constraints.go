// SPDX-License-Identifier: MIT
package interiorpoint

import (
	"math"

	"github.com/katalvlaran/portopt/matrix"
)

// BuildBoundConstraints returns the inequality system Ax ≥ b for per-asset upper
// bounds ub, together with a zero linear term c:
//
//	−x_i ≥ −ub_i   (i = 0..n-1)
//	Σ x_i ≥ 1
//
// The last row only bounds total allocation from below; minimum variance then
// settles on the boundary Σx = 1, but nothing forbids a larger total.
//
// Errors:
//   - ErrInvalidProblemShape: empty ub, a NaN bound or a bound outside [0,1].
func BuildBoundConstraints(ub []float64) (A *matrix.Dense, b, c []float64, err error) {
	n := len(ub)
	if n == 0 {
		return nil, nil, nil, ipErrorf(opBuildBounds, ErrInvalidProblemShape)
	}
	for _, u := range ub {
		if math.IsNaN(u) || u < 0 || u > 1 {
			return nil, nil, nil, ipErrorf(opBuildBounds, ErrInvalidProblemShape)
		}
	}

	A, err = matrix.NewDense(n+1, n)
	if err != nil {
		return nil, nil, nil, ipErrorf(opBuildBounds, err)
	}
	b = make([]float64, n+1)
	var row []float64
	for i := 0; i < n; i++ {
		row, _ = A.Row(i)
		row[i] = -1
		b[i] = -ub[i]
	}
	row, _ = A.Row(n)
	for j := range row {
		row[j] = 1
	}
	b[n] = 1

	return A, b, make([]float64, n), nil
}
