// Package interiorpoint solves small dense convex quadratic programs
//
//	minimize ½xᵀSx + cᵀx  subject to  Ax ≥ b
//
// with Mehrotra's predictor-corrector primal-dual interior-point method, and builds
// the inequality system of the bounded minimum-variance portfolio.
//
// Each iteration linearizes the perturbed KKT conditions
//
//	Sx − Aᵀλ + c = 0,   Ax − y − b = 0,   y∘λ = σμe,   y, λ > 0,
//
// factors the Newton matrix once (LU with partial pivoting, from package matrix) and
// solves it twice: an affine predictor that measures how far complementarity could
// drop, and a corrector that adds the second-order term and a centering shift
// σ = (μ_aff/μ)³. Steps are found by a fixed-decrement backtracking search.
//
// Portfolio use:
//
//	A, b, c, err := interiorpoint.BuildBoundConstraints(ub)
//	s, err := interiorpoint.NewSolver(interiorpoint.Problem{S: cov, C: c, A: A, B: b})
//	res, err := s.Solve(ctx)
//	// res.X holds the weights
//
// BuildBoundConstraints only requires Σx ≥ 1; it does not force full investment.
//
// Errors (sentinel):
//
//	– ErrInvalidProblemShape  bad dimensions, non-finite data, asymmetric S.
//	– ErrInvalidOption        option outside its domain.
//	– ErrSingularSystem       the Newton matrix has no usable pivot.
//
// Reaching the iteration cap is reported as StatusNonConverged, not as an error.
package interiorpoint
