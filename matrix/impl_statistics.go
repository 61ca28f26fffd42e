// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Column statistics over observation matrices (rows = observations, cols = variables):
//     ColumnMeans, CenterColumns and the sample Covariance used by the portfolio model.
//
// Exposed API:
//   - ColumnMeans(X)   -> means               // Σ_i X[i,j] / r
//   - CenterColumns(X) -> (Xc, means)         // subtract per-column mean
//   - Covariance(X)    -> (Cov, means)        // sample covariance of columns: (Xcᵀ Xc)/(r-1)
//
// Determinism & Performance:
//   - Fixed i→j traversal for all explicit loops.
//   - Dense fast-paths avoid At/Set and operate on row-major flat buffers.

package matrix

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opColumnMeans   = "ColumnMeans"
	opCenterColumns = "CenterColumns"
	opCovariance    = "Covariance"
)

// columnMeans returns Σ_i X[i,j] / r for every column j.
// Complexity: O(r*c) time, O(c) space.
func columnMeans(X Matrix) ([]float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(opColumnMeans, err)
	}
	r, c := X.Rows(), X.Cols()
	means := make([]float64, c)

	var i, j int
	if d, ok := X.(*Dense); ok {
		var base int
		for i = 0; i < r; i++ {
			base = i * c
			for j = 0; j < c; j++ {
				means[j] += d.data[base+j]
			}
		}
	} else {
		var v float64
		var err error
		for i = 0; i < r; i++ {
			for j = 0; j < c; j++ {
				if v, err = X.At(i, j); err != nil {
					return nil, matrixErrorf(opColumnMeans, err)
				}
				means[j] += v
			}
		}
	}
	for j = range means {
		means[j] /= float64(r)
	}

	return means, nil
}

// centerColumns subtracts the per-column mean from every element.
// Implementation:
//   - Stage 1: Compute column means in a deterministic pass.
//   - Stage 2: Apply ewBroadcastSubCols to produce a centered copy.
//
// Errors:
//   - ErrNilMatrix from validation; wrapped At errors from fallback paths.
//
// Complexity:
//   - Time O(r*c), Space O(r*c) for output (+ O(c) means).
func centerColumns(X Matrix) (*Dense, []float64, error) {
	means, err := columnMeans(X)
	if err != nil {
		return nil, nil, matrixErrorf(opCenterColumns, err)
	}
	Xc, err := ewBroadcastSubCols(X, means)
	if err != nil {
		return nil, nil, matrixErrorf(opCenterColumns, err)
	}

	return Xc, means, nil
}

// covariance computes the sample covariance of the columns of X.
// Implementation:
//   - Stage 1: Validate X and require r ≥ 2 observations.
//   - Stage 2: Center columns, then Cov = (Xcᵀ Xc)/(r-1) via Transpose/Mul/Scale.
//
// Behavior highlights:
//   - Symmetric output; diagonal equals per-column sample variances.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (r<2), wrapped kernel errors.
//
// Complexity:
//   - Time O(r*c + r*c^2), Space O(c^2).
func covariance(X Matrix) (*Dense, []float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}
	// Sample covariance requires at least two observations.
	r := X.Rows()
	if r < 2 {
		return nil, nil, matrixErrorf(opCovariance, ErrDimensionMismatch)
	}

	Xc, means, err := centerColumns(X)
	if err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}
	Xct, err := Transpose(Xc)
	if err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}
	G, err := Mul(Xct, Xc)
	if err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}
	Cov, err := Scale(G, 1.0/float64(r-1))
	if err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}

	return Cov, means, nil
}
