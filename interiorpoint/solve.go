// SPDX-License-Identifier: MIT
package interiorpoint

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/portopt/matrix"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
)

// Solver runs the predictor-corrector method on one Problem. It owns copies of the
// problem data and all iteration buffers; it is single-use and not safe for
// concurrent use.
type Solver struct {
	p    Problem
	opts Options
	log  zerolog.Logger
	used bool
}

// NewSolver validates p and the options and returns a ready Solver.
//
// Errors:
//   - ErrInvalidProblemShape: nil or non-square S, A.Cols != n, len(c) != n,
//     len(b) != m, non-finite data, S not symmetric.
//   - ErrInvalidOption: see Options.
func NewSolver(p Problem, opts ...Option) (*Solver, error) {
	q, err := p.validate()
	if err != nil {
		return nil, ipErrorf(opNewSolver, err)
	}
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	n, m := q.Dims()
	if err = o.validate(n, m); err != nil {
		return nil, ipErrorf(opNewSolver, err)
	}

	return &Solver{
		p:    q,
		opts: o,
		log:  o.Logger.With().Str("component", "interiorpoint").Logger(),
	}, nil
}

// Solve runs Mehrotra's predictor-corrector iteration from the starting point.
//
// Implementation:
//   - Stage 1: Shift the starting point: one affine solve (matrix.Solve), then
//     y = max(1, |y + dy_aff|) and λ = max(1, |λ + dλ_aff|).
//   - Stage 2: Per iteration factor the KKT system once, solve the affine predictor,
//     pick α_aff by the decrement search, set σ = (μ_aff/μ)³, solve the corrector
//     with the second-order term and σμ centering, and step by α = min(α_p, α_d)
//     with fraction-to-boundary 1 − τ, τ = 1 − 0.5^(k+1).
//   - Stage 3: Stop when ‖(dx, dy, dλ)‖₂ < ε.
//
// Behavior highlights:
//   - y and λ stay strictly positive: every step keeps at least (1−τ) of each.
//   - The cap yields StatusNonConverged with the last iterate and a nil error.
//   - A singular Newton system yields ErrSingularSystem with StatusFailed.
//   - ctx is checked once per iteration.
//
// Complexity:
//   - O((n+2m)³) per iteration for the factorization; two O((n+2m)²) solves.
func (s *Solver) Solve(ctx context.Context) (Result, error) {
	if s.used {
		return Result{Status: StatusFailed}, ipErrorf(opSolve, ErrAlreadySolved)
	}
	s.used = true

	n, m := s.p.Dims()
	x, y, l := s.opts.start(n, m)
	res := Result{}

	fail := func(err error) (Result, error) {
		s.finish(&res, x, y, l, StatusFailed)
		return res, ipErrorf(opSolve, err)
	}

	sys, err := newKKT(s.p)
	if err != nil {
		return fail(err)
	}
	rd, rp := make([]float64, n), make([]float64, m)
	r3 := make([]float64, m)
	dyAff, dlAff := make([]float64, m), make([]float64, m)
	dec := s.opts.StepDecrement

	// Starting-point shift.
	if err = s.residuals(x, y, l, rd, rp); err != nil {
		return fail(err)
	}
	for i := 0; i < m; i++ {
		r3[i] = -y[i] * l[i]
	}
	_, dy, dl, err := sys.solveOnce(y, l, rd, rp, r3)
	if err != nil {
		return fail(ipErrorf(opStart, singular(err)))
	}
	for i := 0; i < m; i++ {
		y[i] = math.Max(1, math.Abs(y[i]+dy[i]))
		l[i] = math.Max(1, math.Abs(l[i]+dl[i]))
	}

	var dx []float64
	for k := 0; k < s.opts.MaxIterations; k++ {
		if err = ctx.Err(); err != nil {
			return fail(err)
		}
		if err = s.residuals(x, y, l, rd, rp); err != nil {
			return fail(err)
		}
		mu := floats.Dot(y, l) / float64(m)
		if err = sys.factor(y, l); err != nil {
			return fail(ipErrorf(opFactor, singular(err)))
		}

		// Predictor.
		for i := 0; i < m; i++ {
			r3[i] = -y[i] * l[i]
		}
		if _, dy, dl, err = sys.solve(rd, rp, r3); err != nil {
			return fail(ipErrorf(opFactor, singular(err)))
		}
		copy(dyAff, dy)
		copy(dlAff, dl)
		alphaAff := math.Min(maxStep(y, dyAff, 0, dec), maxStep(l, dlAff, 0, dec))
		muAff := complementarity(y, dyAff, l, dlAff, alphaAff)
		sigma := math.Pow(muAff/mu, 3)

		// Corrector.
		for i := 0; i < m; i++ {
			r3[i] = -y[i]*l[i] - dlAff[i]*dyAff[i] + sigma*mu
		}
		if dx, dy, dl, err = sys.solve(rd, rp, r3); err != nil {
			return fail(ipErrorf(opFactor, singular(err)))
		}
		stepNorm := floats.Norm(sys.rhs, 2)

		tau := 1 - math.Pow(0.5, float64(k+1))
		alpha := math.Min(maxStep(y, dy, 1-tau, dec), maxStep(l, dl, 1-tau, dec))
		floats.AddScaled(x, alpha, dx)
		floats.AddScaled(y, alpha, dy)
		floats.AddScaled(l, alpha, dl)

		res.Iterations = k + 1
		res.StepNorm = stepNorm
		tr := IterationTrace{
			Iteration: k,
			Mu:        mu,
			Sigma:     sigma,
			AlphaAff:  alphaAff,
			Alpha:     alpha,
			StepNorm:  stepNorm,
			MinY:      floats.Min(y),
			MinLambda: floats.Min(l),
		}
		res.Trace = append(res.Trace, tr)
		if s.opts.Verbose {
			s.log.Debug().
				Int("iteration", k).
				Float64("mu", mu).
				Float64("sigma", sigma).
				Float64("alpha_aff", alphaAff).
				Float64("alpha", alpha).
				Float64("step_norm", stepNorm).
				Msg("iteration")
		}

		if stepNorm < s.opts.Epsilon {
			s.finish(&res, x, y, l, StatusConverged)
			return res, nil
		}
	}

	s.finish(&res, x, y, l, StatusNonConverged)

	return res, nil
}

// residuals writes rd = Sx − Aᵀλ + c and rp = Ax − y − b.
func (s *Solver) residuals(x, y, l, rd, rp []float64) error {
	sx, err := matrix.MatVec(s.p.S, x)
	if err != nil {
		return err
	}
	atl, err := matrix.MatTVec(s.p.A, l)
	if err != nil {
		return err
	}
	ax, err := matrix.MatVec(s.p.A, x)
	if err != nil {
		return err
	}
	for i := range rd {
		rd[i] = sx[i] - atl[i] + s.p.C[i]
	}
	for i := range rp {
		rp[i] = ax[i] - y[i] - s.p.B[i]
	}

	return nil
}

// finish copies the iterate into res and logs the outcome.
func (s *Solver) finish(res *Result, x, y, l []float64, status Status) {
	res.X = append([]float64(nil), x...)
	res.Y = append([]float64(nil), y...)
	res.Lambda = append([]float64(nil), l...)
	res.Status = status
	res.Objective = s.p.objective(x)

	s.log.Debug().
		Str("status", status.String()).
		Int("iterations", res.Iterations).
		Float64("step_norm", res.StepNorm).
		Float64("objective", res.Objective).
		Msg("interior point finished")
}

// singular tags a factorization failure with ErrSingularSystem, keeping the cause.
func singular(err error) error {
	return fmt.Errorf("%w: %w", ErrSingularSystem, err)
}
