// Package matrix provides the dense linear-algebra primitives shared by the
// portfolio solvers.
//
// What & Why:
//
//	Dense is a row-major float64 matrix with bounds-checked accessors and
//	no-copy row access for hot loops. The kernels cover exactly what the
//	Simplex tableau and the interior-point Newton system need:
//
//	  - construction:  NewDense, NewZeros, NewFromRows
//	  - products:      Mul, Transpose, Scale, MatVec, MatTVec
//	  - factorization: LUPInPlace / LUPSolveInPlace (partial pivoting), Solve
//	  - statistics:    ColumnMeans, CenterColumns, Covariance
//	  - validation:    ValidateNotNil, ValidateSquare, ValidateVecLen,
//	                   ValidateSymmetric, ValidateFinite, ...
//
// Errors:
//
//	All failures are sentinel errors from errors.go, wrapped with an
//	operation tag ("LUP: matrix: singular matrix"); match them with errors.Is.
//
// Complexity:
//
//	At/Set/Row are O(1); products are O(r*n*c); LUP is O(n^3) and each
//	LUPSolveInPlace is O(n^2), so one factorization serves several right-hand sides.
package matrix
