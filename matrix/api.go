// SPDX-License-Identifier: MIT
// Package matrix: public API facades.
//
// Purpose:
//   - Provide thin entry points for constructors and statistics.
//   - Each facade delegates to the canonical implementation; validation lives in the kernels.
//
// AI-Hints:
//   - Prefer passing *Dense to unlock fast-paths in kernels (flat-slice loops).
//   - Use NewZeros/NewFromRows to build matrices with explicit shape and neutral elements.

package matrix

// ---------- Constructors & Utilities ----------

// NewZeros returns a new zero-initialized *Dense of size rows×cols.
// It is a thin alias of NewDense with an intention-revealing name.
func NewZeros(rows, cols int) (*Dense, error) {
	return NewDense(rows, cols)
}

// NewFromRows builds a Dense from a rectangular [][]float64 (copied).
// Every row must have the same non-zero length and contain finite values.
//
// Errors:
//   - ErrInvalidDimensions (no rows or empty first row), ErrDimensionMismatch (ragged),
//     ErrNaNInf (non-finite entry).
func NewFromRows(rows [][]float64) (*Dense, error) {
	if len(rows) == 0 {
		return nil, matrixErrorf(opFromRows, ErrInvalidDimensions)
	}
	cols := len(rows[0])
	m, err := NewDense(len(rows), cols)
	if err != nil {
		return nil, matrixErrorf(opFromRows, err)
	}
	for i, row := range rows {
		if len(row) != cols {
			return nil, matrixErrorf(opFromRows, ErrDimensionMismatch)
		}
		if err = ValidateFiniteVec(row); err != nil {
			return nil, matrixErrorf(opFromRows, err)
		}
		copy(m.data[i*cols:(i+1)*cols], row)
	}

	return m, nil
}

// ---------- Statistics ----------

// ColumnMeans returns the per-column mean of X (rows = observations).
func ColumnMeans(X Matrix) ([]float64, error) { return columnMeans(X) }

// CenterColumns returns X with the column means subtracted, plus those means.
func CenterColumns(X Matrix) (*Dense, []float64, error) { return centerColumns(X) }

// Covariance returns the sample covariance (c×c) of the columns of X and the column means.
// X needs at least two rows.
func Covariance(X Matrix) (*Dense, []float64, error) { return covariance(X) }
