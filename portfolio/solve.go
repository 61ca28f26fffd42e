// SPDX-License-Identifier: MIT
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"

	"github.com/katalvlaran/portopt/interiorpoint"
	"github.com/katalvlaran/portopt/simplex"
	"golang.org/x/sync/errgroup"
)

// SolveLP maximizes expected return under the upper bounds and full investment with
// the simplex solver. On StatusOptimal or StatusIterationLimit the weights are replaced
// by the solution; on error they are left unchanged.
func (p *Portfolio) SolveLP(ctx context.Context, opts ...simplex.Option) (simplex.Result, error) {
	res, err := p.solveLP(ctx, opts...)
	if err != nil {
		return res, portfolioErrorf(opSolveLP, err)
	}
	if res.Status == simplex.StatusOptimal || res.Status == simplex.StatusIterationLimit {
		p.weights = append([]float64(nil), res.X...)
	}

	return res, nil
}

func (p *Portfolio) solveLP(ctx context.Context, opts ...simplex.Option) (simplex.Result, error) {
	prob, err := simplex.BuildStandardForm(p.upper, p.ExpectedReturns())
	if err != nil {
		return simplex.Result{Status: simplex.StatusFailed}, err
	}
	s, err := simplex.NewSolver(prob, opts...)
	if err != nil {
		return simplex.Result{Status: simplex.StatusFailed}, err
	}

	return s.Solve(ctx)
}

// SolveQP minimizes the annualized variance under the upper bounds and Σx ≥ 1 with the
// interior-point solver. The weights are replaced by the final iterate unless the solve
// fails.
func (p *Portfolio) SolveQP(ctx context.Context, opts ...interiorpoint.Option) (interiorpoint.Result, error) {
	res, err := p.solveQP(ctx, opts...)
	if err != nil {
		return res, portfolioErrorf(opSolveQP, err)
	}
	p.weights = append([]float64(nil), res.X...)

	return res, nil
}

func (p *Portfolio) solveQP(ctx context.Context, opts ...interiorpoint.Option) (interiorpoint.Result, error) {
	A, b, c, err := interiorpoint.BuildBoundConstraints(p.upper)
	if err != nil {
		return interiorpoint.Result{Status: interiorpoint.StatusFailed}, err
	}
	cov, err := p.Covariance()
	if err != nil {
		return interiorpoint.Result{Status: interiorpoint.StatusFailed}, err
	}
	s, err := interiorpoint.NewSolver(interiorpoint.Problem{S: cov, C: c, A: A, B: b}, opts...)
	if err != nil {
		return interiorpoint.Result{Status: interiorpoint.StatusFailed}, err
	}

	return s.Solve(ctx)
}

// RandomStart draws an interior-point starting point for n assets and the n+1 bound
// rows: x uniform in [0,1), y and λ uniform in [0.1, 100). Equal seeds give equal points.
func RandomStart(n int, seed int64) interiorpoint.Option {
	rng := rand.New(rand.NewSource(seed))
	m := n + 1
	x, y, l := make([]float64, n), make([]float64, m), make([]float64, m)
	for i := range x {
		x[i] = rng.Float64()
	}
	for i := range y {
		y[i] = 0.1 + 99.9*rng.Float64()
	}
	for i := range l {
		l[i] = 0.1 + 99.9*rng.Float64()
	}

	return interiorpoint.WithStartingPoint(x, y, l)
}

// SolveAllOptions selects the methods and solver options applied to every portfolio.
// A simplex.WithOrdering option must not be shared across portfolios.
type SolveAllOptions struct {
	Methods       []Method
	Simplex       []simplex.Option
	InteriorPoint []interiorpoint.Option
	// Limit bounds the number of concurrent solves; ≤ 0 means GOMAXPROCS.
	Limit int
}

// SolveAll runs the requested methods for every portfolio concurrently. Per-method
// failures are recorded in the Outcome and do not stop the others; only context
// cancellation aborts the group and is returned. Portfolios are read, never modified.
func SolveAll(ctx context.Context, ps []*Portfolio, o SolveAllOptions) ([]Outcome, error) {
	methods := o.Methods
	if len(methods) == 0 {
		methods = []Method{MethodLP, MethodQP}
	}
	for _, m := range methods {
		if m != MethodLP && m != MethodQP {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, m)
		}
	}
	limit := o.Limit
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	out := make([]Outcome, len(ps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, p := range ps {
		out[i].Index = i
		for _, m := range methods {
			if m == MethodLP {
				g.Go(func() error {
					res, err := p.solveLP(gctx, o.Simplex...)
					out[i].LP, out[i].LPErr = &res, err
					return cancelled(err)
				})
				continue
			}
			g.Go(func() error {
				res, err := p.solveQP(gctx, o.InteriorPoint...)
				out[i].QP, out[i].QPErr = &res, err
				return cancelled(err)
			})
		}
	}
	if err := g.Wait(); err != nil {
		return out, err
	}

	return out, nil
}

func cancelled(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	return nil
}
