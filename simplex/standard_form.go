// SPDX-License-Identifier: MIT
package simplex

import (
	"math"

	"github.com/katalvlaran/portopt/matrix"
)

// BuildStandardForm turns per-asset upper bounds ub and expected returns mu into the
// equality-form LP
//
//	maximize   Σ mu_i·x_i
//	subject to x_i + s_i = ub_i   (i = 0..n-1)
//	           Σ x_i     = 1
//	           x, s ≥ 0
//
// Columns 0..n-1 are the weights x, columns n..2n-1 the slacks s (unit columns at
// construction). The returned Problem has Structural = n.
//
// Errors:
//   - ErrInvalidProblemShape: empty input, len(ub) != len(mu), a bound outside [0,1]
//     or a non-finite value.
//
// Complexity:
//   - Time O(n^2) (dense fill), Space O(n^2).
func BuildStandardForm(ub, mu []float64) (Problem, error) {
	n := len(ub)
	if n == 0 || len(mu) != n {
		return Problem{}, simplexErrorf(opBuildStandard, ErrInvalidProblemShape)
	}
	for i := 0; i < n; i++ {
		if math.IsNaN(ub[i]) || ub[i] < 0 || ub[i] > 1 {
			return Problem{}, simplexErrorf(opBuildStandard, ErrInvalidProblemShape)
		}
		if math.IsNaN(mu[i]) || math.IsInf(mu[i], 0) {
			return Problem{}, simplexErrorf(opBuildStandard, ErrInvalidProblemShape)
		}
	}

	A, err := matrix.NewDense(n+1, 2*n)
	if err != nil {
		return Problem{}, simplexErrorf(opBuildStandard, err)
	}
	var row []float64
	for i := 0; i < n; i++ {
		row, _ = A.Row(i)
		row[i] = 1
		row[n+i] = 1
	}
	row, _ = A.Row(n)
	for j := 0; j < n; j++ {
		row[j] = 1
	}

	c := make([]float64, 2*n)
	copy(c, mu)
	b := make([]float64, n+1)
	copy(b, ub)
	b[n] = 1

	return Problem{C: c, A: A, B: b, Structural: n}, nil
}
