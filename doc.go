// Package portopt allocates capital across a small set of assets under per-asset
// upper bounds, using two solvers written on a shared dense-matrix core.
//
//	matrix/         Dense storage, validators, LU with partial pivoting, column statistics
//	simplex/        tableau simplex: Greedy, RoundRobin (Cunningham) and Random pivot rules
//	interiorpoint/  Mehrotra predictor-corrector method for convex QPs
//	portfolio/      returns, covariance, LP/QP wiring, concurrent solves, decimal allocation
//	pricestore/     SQLite cache of daily closes and of solver runs
//	config/         YAML run configuration
//	cmd/portopt     command-line driver
//
// The LP maximizes expected return subject to x_i ≤ ub_i and Σx_i = 1. The QP
// minimizes xᵀΣx subject to x_i ≤ ub_i and Σx_i ≥ 1, with Σ the annualized covariance
// of simple returns.
package portopt
