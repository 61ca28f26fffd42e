// Package simplex solves small dense linear programs in equality standard form
// with the tableau simplex method, and builds the bounded long-only portfolio LP.
//
// The problem is
//
//	maximize cᵀx  subject to  Ax = b, x ≥ 0.
//
// BuildStandardForm produces it from per-asset upper bounds and expected returns:
// one row x_i + s_i = ub_i per asset plus the full-investment row Σx_i = 1.
// Because that last row has no slack, Solve opens with a phase-one pass over
// artificial columns before optimizing the real objective.
//
// Pivot rules:
//
//	– Greedy:     Dantzig's rule, largest positive objective coefficient.
//	– RoundRobin: Cunningham's rule, cycle through a seeded column permutation.
//	– Random:     uniform draw among eligible columns.
//
// The permutation is an explicit *Ordering built from a caller seed, so runs are
// reproducible and no global random state is touched.
//
// Complexity:
//
//	– Each pivot costs O(m·n) on the (m+1)×(n+2) tableau.
//	– The number of pivots is exponential in the worst case and small in practice.
//
// Errors (sentinel):
//
//	– ErrInvalidProblemShape  bad dimensions, non-finite data, bounds outside [0,1].
//	– ErrInvalidOption        option outside its domain.
//	– ErrUnbounded            the entering column has no limiting row.
//	– ErrInfeasible           phase one could not remove the artificials.
//
// Reaching the iteration cap is reported as StatusIterationLimit, not as an error.
//
// Example usage:
//
//	p, err := simplex.BuildStandardForm([]float64{0.6, 0.6}, []float64{0.05, 0.08})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	s, err := simplex.NewSolver(p, simplex.WithPivotRule(simplex.RoundRobin), simplex.WithSeed(7))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := s.Solve(ctx)
//	// res.X == [0.4 0.6], res.Objective == 0.068
package simplex
