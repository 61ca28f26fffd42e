// SPDX-License-Identifier: MIT
package simplex

import (
	"context"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
)

// Solver runs the tableau simplex on one Problem. A Solver owns copies of the
// problem data, its tableau and its Ordering; it is single-use and not safe for
// concurrent use. Independent Solvers may run in parallel.
type Solver struct {
	p    Problem
	opts Options
	ord  *Ordering
	log  zerolog.Logger
	used bool
}

// NewSolver validates p and the options and returns a ready Solver.
//
// Errors:
//   - ErrInvalidProblemShape: nil A, len(c) != cols, len(b) != rows, non-finite data,
//     Structural outside [0, cols].
//   - ErrInvalidOption: MaxIterations ≤ 0, negative tolerance, unknown rule,
//     Ordering length != cols.
func NewSolver(p Problem, opts ...Option) (*Solver, error) {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if err := o.validate(); err != nil {
		return nil, simplexErrorf(opNewSolver, err)
	}
	q, err := p.validate()
	if err != nil {
		return nil, simplexErrorf(opNewSolver, err)
	}

	ord := o.Ordering
	if ord == nil {
		if ord, err = NewOrdering(q.Cols(), o.Seed); err != nil {
			return nil, simplexErrorf(opNewSolver, err)
		}
	} else if ord.Len() != q.Cols() {
		return nil, simplexErrorf(opNewSolver, ErrInvalidOption)
	}

	return &Solver{
		p:    q,
		opts: o,
		ord:  ord,
		log: o.Logger.With().
			Str("component", "simplex").
			Str("rule", o.Rule.String()).
			Logger(),
	}, nil
}

// Solve maximizes cᵀx subject to Ax = b, x ≥ 0.
//
// Implementation:
//   - Stage 1: Load the constraint rows (negating any row with b_i < 0) and find the
//     unit columns already present.
//   - Stage 2: If some row has no unit column, run phase one over artificial columns;
//     a positive remainder is ErrInfeasible. Leftover zero artificials are pivoted out
//     or their redundant row is dropped.
//   - Stage 3: Price the true objective out of the basis and pivot to optimality.
//
// Behavior highlights:
//   - Hitting the iteration cap is not an error: Status is StatusIterationLimit and the
//     Result carries the last iterate.
//   - ErrUnbounded, ErrInfeasible and context errors come back with StatusFailed.
//   - ctx is checked once per pivot.
//
// Complexity:
//   - Each pivot costs O(m·n) for elimination plus O(n) for column selection.
func (s *Solver) Solve(ctx context.Context) (Result, error) {
	if s.used {
		return Result{Status: StatusFailed}, simplexErrorf(opSolve, ErrAlreadySolved)
	}
	s.used = true

	var res Result
	m, n := s.p.Rows(), s.p.Cols()

	base, err := newTableau(m, n, 0)
	if err != nil {
		res.Status = StatusFailed
		return res, simplexErrorf(opSolve, err)
	}
	s.load(base)

	base.detectBasis(n)
	need := make([]int, 0, m)
	for r, j := range base.head {
		if j < 0 {
			need = append(need, r)
		}
	}

	tb := base
	if len(need) > 0 {
		var p1 *tableau
		var status Status
		tb, p1, status, err = s.phaseOne(ctx, base, need, &res)
		if err != nil {
			if p1 != nil {
				s.finish(p1, StatusFailed, &res, false)
			}
			res.Status = StatusFailed
			return res, simplexErrorf(opSolve, err)
		}
		if status != StatusOptimal {
			s.finish(p1, status, &res, false)
			return res, nil
		}
	} else {
		tb.priceOut(s.p.C)
	}

	res.ObjectiveTrace = append(res.ObjectiveTrace, tb.value())
	status, err := s.iterate(ctx, tb, 2, &res)
	s.finish(tb, status, &res, true)
	if err != nil {
		res.Status = StatusFailed
		return res, simplexErrorf(opSolve, simplexErrorf(opPhaseTwo, err))
	}

	s.log.Debug().
		Str("status", res.Status.String()).
		Int("iterations", res.Iterations).
		Float64("objective", res.Objective).
		Int("warnings", len(res.Warnings)).
		Msg("simplex finished")

	return res, nil
}

// load copies A and b into the constraint rows, negating rows with b_i < 0.
func (s *Solver) load(tb *tableau) {
	n, rhs := s.p.Cols(), tb.rhs()
	for i := 0; i < tb.m; i++ {
		src, _ := s.p.A.Row(i)
		dst := tb.rows[i]
		copy(dst[:n], src)
		dst[rhs] = s.p.B[i]
		if s.p.B[i] < 0 {
			floats.Scale(-1, dst[:n])
			dst[rhs] = -s.p.B[i]
		}
	}
}

// phaseOne finds a feasible basis by maximizing −Σ artificials.
// It returns the phase-two tableau (nil unless status is StatusOptimal) and the
// phase-one tableau for reporting.
func (s *Solver) phaseOne(ctx context.Context, base *tableau, need []int, res *Result) (*tableau, *tableau, Status, error) {
	m, n := base.m, base.cols
	p1, err := newTableau(m, n, len(need))
	if err != nil {
		return nil, nil, StatusFailed, err
	}
	rhs1, rhs0 := p1.rhs(), base.rhs()
	for i := 0; i < m; i++ {
		copy(p1.rows[i][:n], base.rows[i][:n])
		p1.rows[i][rhs1] = base.rows[i][rhs0]
	}
	copy(p1.head, base.head)
	obj := p1.objective()
	for a, r := range need {
		p1.rows[r][n+a] = 1
		p1.head[r] = n + a
		obj[n+a] = -1
	}
	// Price the artificial basis out of the objective row.
	for _, r := range need {
		floats.Add(obj, p1.rows[r])
	}

	status, err := s.iterate(ctx, p1, 1, res)
	if err != nil {
		return nil, p1, StatusFailed, simplexErrorf(opPhaseOne, err)
	}
	if status != StatusOptimal {
		return nil, p1, status, nil
	}
	if remainder := obj[rhs1]; remainder > feasTol {
		s.log.Debug().Float64("remainder", remainder).Msg("phase one left artificials positive")
		return nil, p1, StatusFailed, simplexErrorf(opPhaseOne, ErrInfeasible)
	}

	// Drive zero-level artificials out of the basis; a row with no usable
	// original column is redundant and dropped.
	keep := make([]bool, m)
	for i := range keep {
		keep[i] = true
	}
	for a := range need {
		r := p1.rowOf(n + a)
		if r < 0 {
			continue
		}
		col := -1
		for j := 0; j < n; j++ {
			if v := p1.rows[r][j]; v > unitTol || v < -unitTol {
				col = j
				break
			}
		}
		if col < 0 {
			keep[r] = false
			s.log.Debug().Int("row", r).Msg("dropping redundant constraint")
			continue
		}
		p1.pivot(r, col)
	}

	kept := 0
	for _, k := range keep {
		if k {
			kept++
		}
	}
	p2, err := newTableau(kept, n, 0)
	if err != nil {
		return nil, p1, StatusFailed, err
	}
	rhs2 := p2.rhs()
	k := 0
	for i := 0; i < m; i++ {
		if !keep[i] {
			continue
		}
		copy(p2.rows[k][:n], p1.rows[i][:n])
		p2.rows[k][rhs2] = p1.rows[i][rhs1]
		p2.head[k] = p1.head[i]
		k++
	}
	p2.priceOut(s.p.C)

	return p2, p1, StatusOptimal, nil
}

// iterate pivots tb until optimality, the iteration cap, unboundedness or cancellation.
// phase only labels diagnostics; phase 2 also records the objective trace.
func (s *Solver) iterate(ctx context.Context, tb *tableau, phase int, res *Result) (Status, error) {
	for {
		if err := ctx.Err(); err != nil {
			return StatusFailed, err
		}
		for j := range tb.excluded {
			tb.excluded[j] = false
		}

		for {
			found, blocked := tb.markEligible(s.opts.Tolerance)
			if !found {
				if blocked {
					// Every improving column had a near-zero pivot.
					return StatusIterationLimit, nil
				}
				return StatusOptimal, nil
			}
			if res.Iterations >= s.opts.MaxIterations {
				return StatusIterationLimit, nil
			}

			col := tb.selectColumn(s.opts.Rule, s.ord)
			row, ratio := tb.ratioTest(col)
			if row < 0 {
				s.log.Debug().Int("phase", phase).Int("entering", col).Msg("no limiting row")
				return StatusFailed, ErrUnbounded
			}
			if tb.rows[row][col] < unitTol {
				// Too small to divide by: drop the column for this iteration and reselect.
				res.Warnings = append(res.Warnings, Warning{
					Kind: WarningDegeneratePivot, Iteration: res.Iterations, Row: row, Column: col,
				})
				tb.excluded[col] = true
				continue
			}
			if ratio == 0 {
				res.Warnings = append(res.Warnings, Warning{
					Kind: WarningDegenerateStep, Iteration: res.Iterations, Row: row, Column: col,
				})
			}

			tb.pivot(row, col)
			res.Iterations++
			if phase == 2 {
				res.ObjectiveTrace = append(res.ObjectiveTrace, tb.value())
			}
			if s.opts.Verbose {
				s.log.Debug().
					Int("phase", phase).
					Int("iteration", res.Iterations).
					Int("entering", col).
					Int("leaving_row", row).
					Float64("ratio", ratio).
					Float64("objective", tb.value()).
					Msg("pivot")
			}

			break
		}
	}
}

// finish copies the iterate of tb into res.
// Objective is read off the tableau in phase two and recomputed as cᵀx otherwise.
func (s *Solver) finish(tb *tableau, status Status, res *Result, phaseTwo bool) {
	n, k := s.p.Cols(), s.p.Structural
	x := tb.solution(n)
	obj := tb.objective()

	res.X = append([]float64(nil), x[:k]...)
	res.Slack = append([]float64(nil), x[k:]...)
	res.Duals = Duals{
		Structural: append([]float64(nil), obj[:k]...),
		Slack:      append([]float64(nil), obj[k:n]...),
	}
	if phaseTwo {
		res.Objective = tb.value()
	} else {
		res.Objective = floats.Dot(s.p.C, x)
	}
	res.Status = status
}
