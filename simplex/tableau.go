// SPDX-License-Identifier: MIT
package simplex

import (
	"math"

	"github.com/katalvlaran/portopt/matrix"
	"gonum.org/v1/gonum/floats"
)

// tableau is the dense working matrix of one simplex phase.
//
// Layout (row-major, (m+1) × width):
//   - rows 0..m-1 are constraints, row m is the objective row;
//   - columns 0..cols-1 are the variables allowed to enter the basis,
//     followed by any phase-one artificial columns, one zero separator
//     column and the RHS column (always last).
//
// The objective row starts as [c | 0 | 0]; pivots keep it equal to the reduced
// costs, with RHS = −cᵀx.
type tableau struct {
	t     *matrix.Dense
	rows  [][]float64 // aliases of t's rows, objective row last
	head  []int       // head[r] is the column basic in row r, -1 if none
	m     int
	cols  int
	width int

	// scratch reused every iteration
	basic    []bool
	eligible []bool
	excluded []bool
	cand     []int
}

// newTableau allocates an (m+1) × (cols+extra+2) zero tableau.
func newTableau(m, cols, extra int) (*tableau, error) {
	width := cols + extra + 2
	t, err := matrix.NewDense(m+1, width)
	if err != nil {
		return nil, err
	}
	tb := &tableau{
		t:        t,
		rows:     make([][]float64, m+1),
		head:     make([]int, m),
		m:        m,
		cols:     cols,
		width:    width,
		basic:    make([]bool, cols),
		eligible: make([]bool, cols),
		excluded: make([]bool, cols),
		cand:     make([]int, 0, cols),
	}
	for i := 0; i <= m; i++ {
		tb.rows[i], _ = t.Row(i)
	}
	for i := range tb.head {
		tb.head[i] = -1
	}

	return tb, nil
}

func (tb *tableau) rhs() int             { return tb.width - 1 }
func (tb *tableau) objective() []float64 { return tb.rows[tb.m] }

// value returns cᵀx of the current basis (maximization convention).
func (tb *tableau) value() float64 { return -tb.rows[tb.m][tb.rhs()] }

// basicRow returns the constraint row in which column j is a unit column, or -1.
func (tb *tableau) basicRow(j int) int {
	row := -1
	var v float64
	for i := 0; i < tb.m; i++ {
		v = tb.rows[i][j]
		switch {
		case math.Abs(v-1) <= unitTol:
			if row >= 0 {
				return -1
			}
			row = i
		case math.Abs(v) > unitTol:
			return -1
		}
	}

	return row
}

// detectBasis seeds head from the unit columns among 0..upto-1; the first unit
// column found for a row owns it.
func (tb *tableau) detectBasis(upto int) {
	for i := range tb.head {
		tb.head[i] = -1
	}
	for j := 0; j < upto; j++ {
		if r := tb.basicRow(j); r >= 0 && tb.head[r] < 0 {
			tb.head[r] = j
		}
	}
}

// rowOf returns the row in which column j is basic, or -1.
func (tb *tableau) rowOf(j int) int {
	for r, h := range tb.head {
		if h == j {
			return r
		}
	}

	return -1
}

// markEligible fills tb.eligible: non-basic, not excluded, coefficient > tol.
// It reports whether any column qualified and whether any was skipped only
// because it was excluded.
func (tb *tableau) markEligible(tol float64) (found, blocked bool) {
	obj := tb.objective()
	for j := range tb.basic {
		tb.basic[j] = false
	}
	for _, h := range tb.head {
		if h >= 0 && h < tb.cols {
			tb.basic[h] = true
		}
	}
	for j := 0; j < tb.cols; j++ {
		tb.eligible[j] = false
		if tb.basic[j] || obj[j] <= tol {
			continue
		}
		if tb.excluded[j] {
			blocked = true
			continue
		}
		tb.eligible[j] = true
		found = true
	}

	return found, blocked
}

// selectColumn applies rule to the eligible set and returns the entering column.
func (tb *tableau) selectColumn(rule PivotRule, ord *Ordering) int {
	switch rule {
	case RoundRobin:
		return ord.nextEligible(tb.eligible)
	case Random:
		return ord.drawEligible(tb.eligible, tb.cand)
	default:
		obj := tb.objective()
		best := -1
		for j := 0; j < tb.cols; j++ {
			if tb.eligible[j] && (best < 0 || obj[j] > obj[best]) {
				best = j
			}
		}

		return best
	}
}

// ratioTest returns the leaving row for column col by the minimum-ratio rule.
// Entries ≤ pivotTol count as +∞; ties keep the lowest row. -1 means unbounded.
func (tb *tableau) ratioTest(col int) (row int, ratio float64) {
	row, ratio = -1, math.Inf(1)
	rhs := tb.rhs()
	var a, r float64
	for i := 0; i < tb.m; i++ {
		a = tb.rows[i][col]
		if a <= pivotTol {
			continue
		}
		if r = tb.rows[i][rhs] / a; r < ratio {
			row, ratio = i, r
		}
	}

	return row, ratio
}

// pivot normalizes row r on column col and eliminates col from every other row,
// objective included, then writes the exact unit column.
// The caller guarantees rows[r][col] != 0.
func (tb *tableau) pivot(r, col int) {
	pr := tb.rows[r]
	floats.Scale(1/pr[col], pr)
	pr[col] = 1
	var f float64
	for i, ri := range tb.rows {
		if i == r {
			continue
		}
		if f = ri[col]; f != 0 {
			floats.AddScaled(ri, -f, pr)
			ri[col] = 0
		}
	}
	tb.head[r] = col
}

// priceOut rewrites the objective row as [c | 0 | 0] minus c_j·row for every basic column.
func (tb *tableau) priceOut(c []float64) {
	obj := tb.objective()
	for j := range obj {
		obj[j] = 0
	}
	copy(obj, c)
	var f float64
	for r, j := range tb.head {
		if j < 0 || j >= len(c) {
			continue
		}
		if f = obj[j]; f != 0 {
			floats.AddScaled(obj, -f, tb.rows[r])
			obj[j] = 0
		}
	}
}

// solution returns the value of columns 0..n-1: RHS of the owning row when basic, 0 otherwise.
func (tb *tableau) solution(n int) []float64 {
	x := make([]float64, n)
	rhs := tb.rhs()
	for r, j := range tb.head {
		if j >= 0 && j < n {
			x[j] = tb.rows[r][rhs]
		}
	}

	return x
}
