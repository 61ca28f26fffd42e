// SPDX-License-Identifier: MIT
// Package matrix: canonical linear-algebra kernels used by the solvers.
//
// Purpose:
//   - Matrix products (Mul, MatVec, MatTVec), Transpose and Scale with strict fail-fast validation.
//   - LU factorization with partial pivoting (LUPInPlace) plus forward/back substitution
//     (LUPSolveInPlace) so one factorization serves several right-hand sides.
//
// Notes:
//   - Every kernel validates through validators.go and wraps sentinels via matrixErrorf.
//   - *Dense operands unlock flat-slice fast paths; other Matrix values use At/Set.

package matrix

import (
	"fmt"
	"math"
)

// ZeroSum is the initial sum value for dot products and substitution.
const ZeroSum = 0.0

// ZeroPivot is the sentinel for a zero U diagonal in LUPSolveInPlace.
const ZeroPivot = 0.0

// PivotEpsilon is the unit round-off used by the relative pivot threshold in LUP.
const PivotEpsilon = 0x1p-52

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opMul       = "Mul"
	opTranspose = "Transpose"
	opScale     = "Scale"
	opMatVec    = "MatVec"
	opMatTVec   = "MatTVec"
	opLUP       = "LUP"
	opLUPSolve  = "LUPSolve"
	opSolve     = "Solve"
	opFromRows  = "NewFromRows"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil to avoid creating a non-nil wrapper around a nil cause.
//
// Complexity:
//   - Time O(1), Space O(1).
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Mul performs standard matrix multiplication C = A × B (no aliasing).
// Implementation:
//   - Stage 1: Validate A,B (not nil) and inner dimensions (A.Cols == B.Rows).
//   - Stage 2: If A and B are *Dense, use i→k→j with row-major strides and skip zeros;
//     otherwise use i→j→k with a fixed order.
//
// Errors:
//   - ErrNilMatrix (nil input), ErrDimensionMismatch (inner mismatch).
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
func Mul(a, b Matrix) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	aRows, aCols, bCols := a.Rows(), a.Cols(), b.Cols()
	res, err := NewDense(aRows, bCols)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	var (
		i, j, k         int
		av, bv, current float64
	)
	// Fast-path for two Dense matrices.
	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			var rowOffsetA, rowOffsetB, rowOffsetR int
			for i = 0; i < aRows; i++ {
				rowOffsetA = i * aCols
				rowOffsetR = i * bCols
				for k = 0; k < aCols; k++ {
					av = da.data[rowOffsetA+k]
					if av == 0 {
						continue
					}
					rowOffsetB = k * bCols
					for j = 0; j < bCols; j++ {
						res.data[rowOffsetR+j] += av * db.data[rowOffsetB+j]
					}
				}
			}

			return res, nil
		}
	}

	// Fallback: generic interface triple-loop (i-j-k).
	for i = 0; i < aRows; i++ {
		for j = 0; j < bCols; j++ {
			current = ZeroSum
			for k = 0; k < aCols; k++ {
				if av, err = a.At(i, k); err != nil {
					return nil, matrixErrorf(opMul, err)
				}
				if av == 0 {
					continue
				}
				if bv, err = b.At(k, j); err != nil {
					return nil, matrixErrorf(opMul, err)
				}
				current += av * bv
			}
			res.data[i*bCols+j] = current
		}
	}

	return res, nil
}

// Transpose returns a new matrix with rows and columns swapped (mᵀ).
// The original matrix is never mutated.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func Transpose(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	rows, cols := m.Rows(), m.Cols()
	res, err := NewDense(cols, rows)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}

	var i, j int
	if dm, ok := m.(*Dense); ok {
		var baseSrc int
		for i = 0; i < rows; i++ {
			baseSrc = i * cols
			for j = 0; j < cols; j++ {
				res.data[j*rows+i] = dm.data[baseSrc+j]
			}
		}

		return res, nil
	}

	var v float64
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opTranspose, err)
			}
			res.data[j*rows+i] = v
		}
	}

	return res, nil
}

// Scale returns alpha*m as a new Dense.
// Complexity: O(r*c).
func Scale(m Matrix, alpha float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	if math.IsNaN(alpha) || math.IsInf(alpha, 0) {
		return nil, matrixErrorf(opScale, ErrNaNInf)
	}
	rows, cols := m.Rows(), m.Cols()
	res, err := NewDense(rows, cols)
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	if dm, ok := m.(*Dense); ok {
		for idx, v := range dm.data {
			res.data[idx] = alpha * v
		}

		return res, nil
	}

	var i, j int
	var v float64
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opScale, err)
			}
			res.data[i*cols+j] = alpha * v
		}
	}

	return res, nil
}

// MatVec computes y = m·x for an r×c matrix and len(x) == c.
//
// Errors:
//   - ErrNilMatrix (nil m or nil x), ErrDimensionMismatch (len(x) != c).
//
// Complexity:
//   - Time O(r*c), Space O(r).
func MatVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	rows, cols := m.Rows(), m.Cols()
	if err := ValidateVecLen(x, cols); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	y := make([]float64, rows)

	var i, j int
	var sum float64
	if dm, ok := m.(*Dense); ok {
		var base int
		for i = 0; i < rows; i++ {
			base = i * cols
			sum = ZeroSum
			for j = 0; j < cols; j++ {
				sum += dm.data[base+j] * x[j]
			}
			y[i] = sum
		}

		return y, nil
	}

	var v float64
	var err error
	for i = 0; i < rows; i++ {
		sum = ZeroSum
		for j = 0; j < cols; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opMatVec, err)
			}
			sum += v * x[j]
		}
		y[i] = sum
	}

	return y, nil
}

// MatTVec computes y = mᵀ·x for an r×c matrix and len(x) == r,
// without materializing the transpose.
//
// Complexity:
//   - Time O(r*c), Space O(c).
func MatTVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatTVec, err)
	}
	rows, cols := m.Rows(), m.Cols()
	if err := ValidateVecLen(x, rows); err != nil {
		return nil, matrixErrorf(opMatTVec, err)
	}
	y := make([]float64, cols)

	var i, j int
	var xi float64
	if dm, ok := m.(*Dense); ok {
		var base int
		for i = 0; i < rows; i++ {
			xi = x[i]
			if xi == 0 {
				continue
			}
			base = i * cols
			for j = 0; j < cols; j++ {
				y[j] += dm.data[base+j] * xi
			}
		}

		return y, nil
	}

	var v float64
	var err error
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opMatTVec, err)
			}
			y[j] += v * x[i]
		}
	}

	return y, nil
}

// LUPInPlace factors the square matrix a into P·A = L·U, overwriting a with
// L (strictly below the diagonal, unit diagonal implied) and U (on and above).
// piv must have length n; on return piv[i] is the original row now stored at row i.
//
// Implementation:
//   - Stage 1: Validate a (non-nil, square) and len(piv) == n.
//   - Stage 2: Fix the pivot threshold n·ε·max|a_ij| from the input entries.
//   - Stage 3: For each column k choose the row with the largest |a[i,k]| (i ≥ k),
//     swap it into place, then eliminate below the pivot.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//   - ErrSingular: a column whose best pivot is at or below the threshold. A matrix
//     singular in exact arithmetic usually leaves a round-off pivot near 1e-17 rather
//     than 0; it is rejected here instead of being divided by.
//
// Determinism:
//   - Ties in the pivot search keep the lowest row index.
//
// Complexity:
//   - Time O(n^3), Space O(1) beyond piv.
func LUPInPlace(a *Dense, piv []int) error {
	if a == nil {
		return matrixErrorf(opLUP, ErrNilMatrix)
	}
	if err := ValidateSquare(a); err != nil {
		return matrixErrorf(opLUP, err)
	}
	n := a.r
	if len(piv) != n {
		return matrixErrorf(opLUP, ErrDimensionMismatch)
	}
	for i := range piv {
		piv[i] = i
	}

	var (
		i, j, k, p int
		maxAbs, v  float64
		factor     float64
		rowK, rowI []float64
	)
	var scale float64
	for _, v = range a.data {
		if v = math.Abs(v); v > scale {
			scale = v
		}
	}
	tol := float64(n) * PivotEpsilon * scale

	for k = 0; k < n; k++ {
		// Partial pivot search on column k.
		p = k
		maxAbs = math.Abs(a.data[k*n+k])
		for i = k + 1; i < n; i++ {
			if v = math.Abs(a.data[i*n+k]); v > maxAbs {
				maxAbs, p = v, i
			}
		}
		if maxAbs <= tol {
			return matrixErrorf(opLUP, fmt.Errorf("column %d: pivot %g: %w", k, maxAbs, ErrSingular))
		}
		if p != k {
			_ = a.SwapRows(p, k)
			piv[p], piv[k] = piv[k], piv[p]
		}

		rowK = a.data[k*n : (k+1)*n]
		for i = k + 1; i < n; i++ {
			rowI = a.data[i*n : (i+1)*n]
			if rowI[k] == 0 {
				continue
			}
			factor = rowI[k] / rowK[k]
			rowI[k] = factor // L multiplier stored in place
			for j = k + 1; j < n; j++ {
				rowI[j] -= factor * rowK[j]
			}
		}
	}

	return nil
}

// LUPSolveInPlace solves A·x = b given the output of LUPInPlace.
// b is overwritten with x.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (len(b) or len(piv) != n).
//   - ErrSingular: a zero U diagonal, or a solution entry that overflowed to ±Inf or NaN.
//     b is left unchanged in that case.
//
// Complexity:
//   - Time O(n^2); allocates one n-length scratch vector for the permutation.
func LUPSolveInPlace(lu *Dense, piv []int, b []float64) error {
	if lu == nil {
		return matrixErrorf(opLUPSolve, ErrNilMatrix)
	}
	n := lu.r
	if lu.c != n || len(piv) != n {
		return matrixErrorf(opLUPSolve, ErrDimensionMismatch)
	}
	if err := ValidateVecLen(b, n); err != nil {
		return matrixErrorf(opLUPSolve, err)
	}

	// Apply the row permutation: y = P·b.
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		y[i] = b[piv[i]]
	}

	var i, j int
	var sum float64
	// Forward substitution with unit-diagonal L.
	for i = 0; i < n; i++ {
		sum = y[i]
		for j = 0; j < i; j++ {
			sum -= lu.data[i*n+j] * y[j]
		}
		y[i] = sum
	}
	// Back substitution with U.
	for i = n - 1; i >= 0; i-- {
		sum = y[i]
		for j = i + 1; j < n; j++ {
			sum -= lu.data[i*n+j] * y[j]
		}
		if lu.data[i*n+i] == ZeroPivot {
			return matrixErrorf(opLUPSolve, ErrSingular)
		}
		y[i] = sum / lu.data[i*n+i]
		if math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			return matrixErrorf(opLUPSolve, fmt.Errorf("row %d: %w", i, ErrSingular))
		}
	}
	copy(b, y)

	return nil
}

// Solve returns x with A·x = b, leaving a and b untouched.
// It is a convenience over LUPInPlace + LUPSolveInPlace on a private copy.
//
// Complexity:
//   - Time O(n^3), Space O(n^2).
func Solve(a Matrix, b []float64) ([]float64, error) {
	if err := ValidateSquareNonNil(a); err != nil {
		return nil, matrixErrorf(opSolve, err)
	}
	lu, err := toDense(a)
	if err != nil {
		return nil, matrixErrorf(opSolve, err)
	}
	piv := make([]int, lu.r)
	if err = LUPInPlace(lu, piv); err != nil {
		return nil, matrixErrorf(opSolve, err)
	}
	x := make([]float64, len(b))
	copy(x, b)
	if err = LUPSolveInPlace(lu, piv, x); err != nil {
		return nil, matrixErrorf(opSolve, err)
	}

	return x, nil
}

// toDense returns a private *Dense copy of m.
func toDense(m Matrix) (*Dense, error) {
	if dm, ok := m.(*Dense); ok {
		return dm.cloneDense(), nil
	}
	rows, cols := m.Rows(), m.Cols()
	out, err := NewDense(rows, cols)
	if err != nil {
		return nil, err
	}
	var i, j int
	var v float64
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, err
			}
			out.data[i*cols+j] = v
		}
	}

	return out, nil
}
