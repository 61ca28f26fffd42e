// SPDX-License-Identifier: MIT
package simplex_test

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/portopt/matrix"
	"github.com/katalvlaran/portopt/simplex"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const eps = 1e-9

var allRules = []simplex.PivotRule{simplex.Greedy, simplex.RoundRobin, simplex.Random}

func mustSolve(t *testing.T, p simplex.Problem, opts ...simplex.Option) simplex.Result {
	t.Helper()
	s, err := simplex.NewSolver(p, opts...)
	require.NoError(t, err)
	res, err := s.Solve(context.Background())
	require.NoError(t, err)

	return res
}

func mustDense(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	d, err := matrix.NewFromRows(rows)
	require.NoError(t, err)

	return d
}

// checkFeasible asserts x is a long-only weight vector within ub summing to one.
func checkFeasible(t *testing.T, x, ub []float64) {
	t.Helper()
	require.InDelta(t, 1.0, floats.Sum(x), eps)
	for i := range x {
		require.GreaterOrEqual(t, x[i], -eps)
		require.LessOrEqual(t, x[i], ub[i]+eps)
	}
}

type PortfolioLPSuite struct {
	suite.Suite
}

func TestPortfolioLPSuite(t *testing.T) {
	suite.Run(t, new(PortfolioLPSuite))
}

func (s *PortfolioLPSuite) TestTwoAssetScenario() {
	ub := []float64{0.6, 0.6}
	p, err := simplex.BuildStandardForm(ub, []float64{0.05, 0.08})
	s.Require().NoError(err)

	for _, rule := range allRules {
		s.Run(rule.String(), func() {
			res := mustSolve(s.T(), p, simplex.WithPivotRule(rule), simplex.WithSeed(11))
			s.Equal(simplex.StatusOptimal, res.Status)
			s.InDeltaSlice([]float64{0.4, 0.6}, res.X, eps)
			s.InDeltaSlice([]float64{0.2, 0}, res.Slack, eps)
			s.InDelta(0.068, res.Objective, eps)
			s.InDeltaSlice([]float64{0, 0}, res.Duals.Structural, eps)
			s.InDeltaSlice([]float64{0, -0.03}, res.Duals.Slack, eps)
			checkFeasible(s.T(), res.X, ub)
		})
	}
}

func (s *PortfolioLPSuite) TestGreedyIterationCount() {
	p, err := simplex.BuildStandardForm([]float64{0.6, 0.6}, []float64{0.05, 0.08})
	s.Require().NoError(err)
	res := mustSolve(s.T(), p)
	// one phase-one pivot plus two phase-two pivots
	s.Equal(3, res.Iterations)
}

func (s *PortfolioLPSuite) TestNegativeReturnsStillFullyInvested() {
	ub := []float64{0.5, 0.3, 0.4}
	p, err := simplex.BuildStandardForm(ub, []float64{-0.01, -0.02, 0.005})
	s.Require().NoError(err)

	res := mustSolve(s.T(), p)
	s.Equal(simplex.StatusOptimal, res.Status)
	s.InDeltaSlice([]float64{0.5, 0.1, 0.4}, res.X, eps)
	s.InDelta(-0.005, res.Objective, eps)
	checkFeasible(s.T(), res.X, ub)
}

func (s *PortfolioLPSuite) TestEqualBoundsFourAssets() {
	ub := []float64{0.25, 0.25, 0.25, 0.25}
	p, err := simplex.BuildStandardForm(ub, []float64{0.03, 0.01, 0.02, 0.04})
	s.Require().NoError(err)

	res := mustSolve(s.T(), p, simplex.WithPivotRule(simplex.RoundRobin), simplex.WithSeed(7))
	s.Equal(simplex.StatusOptimal, res.Status)
	s.InDeltaSlice(ub, res.X, eps)
	s.InDelta(0.025, res.Objective, eps)
}

func (s *PortfolioLPSuite) TestInfeasibleBounds() {
	p, err := simplex.BuildStandardForm([]float64{0.2, 0.2}, []float64{0.1, 0.1})
	s.Require().NoError(err)
	sv, err := simplex.NewSolver(p)
	s.Require().NoError(err)

	res, err := sv.Solve(context.Background())
	s.ErrorIs(err, simplex.ErrInfeasible)
	s.Equal(simplex.StatusFailed, res.Status)
}

func (s *PortfolioLPSuite) TestComplementarySlackness() {
	for _, tc := range []struct{ ub, mu []float64 }{
		{[]float64{0.6, 0.6}, []float64{0.05, 0.08}},
		{[]float64{0.5, 0.3, 0.4}, []float64{-0.01, -0.02, 0.005}},
		{[]float64{0.5, 0.5, 0.5, 0.5}, []float64{0.02, 0.07, -0.01, 0.03}},
	} {
		p, err := simplex.BuildStandardForm(tc.ub, tc.mu)
		s.Require().NoError(err)
		for _, rule := range allRules {
			res := mustSolve(s.T(), p, simplex.WithPivotRule(rule), simplex.WithSeed(5))
			s.Require().Equal(simplex.StatusOptimal, res.Status)
			structural, slack := res.ComplementarySlackness()
			s.InDelta(0, structural, eps)
			s.InDelta(0, slack, eps)
			for _, d := range append(append([]float64(nil), res.Duals.Structural...), res.Duals.Slack...) {
				s.LessOrEqual(d, eps)
			}
		}
	}
}

func (s *PortfolioLPSuite) TestObjectiveTraceNonDecreasing() {
	p, err := simplex.BuildStandardForm([]float64{0.4, 0.4, 0.4, 0.4, 0.4}, []float64{0.01, 0.05, 0.03, 0.04, 0.02})
	s.Require().NoError(err)
	res := mustSolve(s.T(), p, simplex.WithPivotRule(simplex.Random), simplex.WithSeed(99))
	s.Require().NotEmpty(res.ObjectiveTrace)
	for i := 1; i < len(res.ObjectiveTrace); i++ {
		s.GreaterOrEqual(res.ObjectiveTrace[i], res.ObjectiveTrace[i-1]-eps)
	}
	s.InDelta(res.Objective, res.ObjectiveTrace[len(res.ObjectiveTrace)-1], eps)
}

// TestMatchesGonumLP compares optimal objectives with gonum's simplex on random
// feasible portfolio LPs.
func (s *PortfolioLPSuite) TestMatchesGonumLP() {
	rng := rand.New(rand.NewSource(2024))
	for trial := 0; trial < 20; trial++ {
		n := 2 + rng.Intn(6)
		ub := make([]float64, n)
		mu := make([]float64, n)
		for i := range ub {
			ub[i] = 0.3 + 0.7*rng.Float64()
			mu[i] = rng.NormFloat64() * 0.05
		}
		// Full investment needs Σub ≥ 1.
		if sum := floats.Sum(ub); sum < 1 {
			for i := range ub {
				ub[i] = math.Min(1, 1.05*ub[i]/sum)
			}
		}
		p, err := simplex.BuildStandardForm(ub, mu)
		s.Require().NoError(err)

		optF, _, err := gonumSimplex(p)
		s.Require().NoError(err, "trial %d", trial)

		for _, rule := range allRules {
			res := mustSolve(s.T(), p, simplex.WithPivotRule(rule), simplex.WithSeed(int64(trial+1)))
			s.Require().Equal(simplex.StatusOptimal, res.Status)
			s.InDelta(-optF, res.Objective, 1e-8, "trial %d rule %s", trial, rule)
			checkFeasible(s.T(), res.X, ub)
		}
	}
}

// TestAgreesWithGonumOnInfeasible checks both solvers reject bounds with Σub < 1.
func (s *PortfolioLPSuite) TestAgreesWithGonumOnInfeasible() {
	rng := rand.New(rand.NewSource(77))
	for trial := 0; trial < 10; trial++ {
		n := 2 + rng.Intn(6)
		ub := make([]float64, n)
		mu := make([]float64, n)
		for i := range ub {
			ub[i] = (0.2 + 0.6*rng.Float64()) / float64(n)
			mu[i] = rng.NormFloat64() * 0.05
		}
		p, err := simplex.BuildStandardForm(ub, mu)
		s.Require().NoError(err)

		_, _, err = gonumSimplex(p)
		s.ErrorIs(err, lp.ErrInfeasible, "trial %d", trial)

		for _, rule := range allRules {
			sv, err := simplex.NewSolver(p, simplex.WithPivotRule(rule), simplex.WithSeed(int64(trial+1)))
			s.Require().NoError(err)
			res, err := sv.Solve(context.Background())
			s.ErrorIs(err, simplex.ErrInfeasible, "trial %d rule %s", trial, rule)
			s.Equal(simplex.StatusFailed, res.Status)
		}
	}
}

// gonumSimplex solves p with gonum, which minimizes, so the objective is negated.
func gonumSimplex(p simplex.Problem) (float64, []float64, error) {
	c := make([]float64, len(p.C))
	floats.ScaleTo(c, -1, p.C)
	a := mat.NewDense(p.Rows(), p.Cols(), nil)
	for i := 0; i < p.Rows(); i++ {
		row, _ := p.A.Row(i)
		a.SetRow(i, row)
	}

	return lp.Simplex(c, a, p.B, 1e-10, nil)
}

func TestSolve_Unbounded(t *testing.T) {
	p := simplex.Problem{
		C:          []float64{1, 0},
		A:          mustDense(t, [][]float64{{-1, 1}}),
		B:          []float64{1},
		Structural: 1,
	}
	s, err := simplex.NewSolver(p)
	require.NoError(t, err)
	res, err := s.Solve(context.Background())
	require.ErrorIs(t, err, simplex.ErrUnbounded)
	require.Equal(t, simplex.StatusFailed, res.Status)
	require.Equal(t, 0, res.Iterations)
}

func TestSolve_DegenerateStepWarning(t *testing.T) {
	// maximize 2x1 + x2 s.t. x1 − x2 + s1 = 0, x1 + x2 + s2 = 2.
	// The slacks form the starting basis; x1 enters against the b = 0 row first.
	p := simplex.Problem{
		C: []float64{2, 1, 0, 0},
		A: mustDense(t, [][]float64{
			{1, -1, 1, 0},
			{1, 1, 0, 1},
		}),
		B:          []float64{0, 2},
		Structural: 2,
	}
	res := mustSolve(t, p)
	require.Equal(t, simplex.StatusOptimal, res.Status)
	require.Equal(t, 2, res.Iterations)
	require.InDeltaSlice(t, []float64{1, 1}, res.X, eps)
	require.InDelta(t, 3.0, res.Objective, eps)
	require.Equal(t, []simplex.Warning{
		{Kind: simplex.WarningDegenerateStep, Iteration: 0, Row: 0, Column: 0},
	}, res.Warnings)
	// The zero step leaves the objective where it was.
	require.InDeltaSlice(t, []float64{0, 0, 3}, res.ObjectiveTrace, eps)
}

func TestSolve_DegeneratePivotIsSkipped(t *testing.T) {
	// 1e-10·x1 + x2 + s1 = 0 forces x1 = x2 = 0. The ratio test picks row 0 for x1
	// with a 1e-10 pivot, so x1 is passed over and x2 enters instead.
	p := simplex.Problem{
		C: []float64{2, 1, 0, 0},
		A: mustDense(t, [][]float64{
			{1e-10, 1, 1, 0},
			{2, 1, 0, 1},
		}),
		B:          []float64{0, 2},
		Structural: 2,
	}
	res := mustSolve(t, p)
	require.Equal(t, []simplex.Warning{
		{Kind: simplex.WarningDegeneratePivot, Iteration: 0, Row: 0, Column: 0},
		{Kind: simplex.WarningDegenerateStep, Iteration: 0, Row: 0, Column: 1},
		{Kind: simplex.WarningDegeneratePivot, Iteration: 1, Row: 0, Column: 0},
	}, res.Warnings)
	// Only x1 still improves and its pivot is unusable: stop with the last iterate.
	require.Equal(t, simplex.StatusIterationLimit, res.Status)
	require.Equal(t, 1, res.Iterations)
	require.InDeltaSlice(t, []float64{0, 0}, res.X, eps)
	require.InDeltaSlice(t, []float64{0, 2}, res.Slack, eps)
	require.InDelta(t, 0.0, res.Objective, eps)
}

func TestSolve_NegativeRHSRowIsNormalized(t *testing.T) {
	// -x1 - x2 = -1 with x1 ≤ 0.7 via slack; maximize 2x1 + x2.
	p := simplex.Problem{
		C: []float64{2, 1, 0},
		A: mustDense(t, [][]float64{
			{-1, -1, 0},
			{1, 0, 1},
		}),
		B:          []float64{-1, 0.7},
		Structural: 2,
	}
	res := mustSolve(t, p)
	require.Equal(t, simplex.StatusOptimal, res.Status)
	require.InDeltaSlice(t, []float64{0.7, 0.3}, res.X, eps)
	require.InDelta(t, 1.7, res.Objective, eps)
}

func TestSolve_RedundantRowDropped(t *testing.T) {
	// The second row duplicates the first.
	p := simplex.Problem{
		C: []float64{1, 2},
		A: mustDense(t, [][]float64{
			{1, 1},
			{1, 1},
		}),
		B: []float64{1, 1},
	}
	res := mustSolve(t, p)
	require.Equal(t, simplex.StatusOptimal, res.Status)
	require.InDeltaSlice(t, []float64{0, 1}, res.X, eps)
	require.InDelta(t, 2.0, res.Objective, eps)
	require.Empty(t, res.Slack)
}

func TestSolve_IterationLimit(t *testing.T) {
	p, err := simplex.BuildStandardForm([]float64{0.6, 0.6}, []float64{0.05, 0.08})
	require.NoError(t, err)
	s, err := simplex.NewSolver(p, simplex.WithMaxIterations(1))
	require.NoError(t, err)

	res, err := s.Solve(context.Background())
	require.NoError(t, err)
	require.Equal(t, simplex.StatusIterationLimit, res.Status)
	require.Equal(t, 1, res.Iterations)
	require.Len(t, res.X, 2)
}

func TestSolve_ContextCancelled(t *testing.T) {
	p, err := simplex.BuildStandardForm([]float64{0.6, 0.6}, []float64{0.05, 0.08})
	require.NoError(t, err)
	s, err := simplex.NewSolver(p)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := s.Solve(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, simplex.StatusFailed, res.Status)
}

func TestSolve_SingleUse(t *testing.T) {
	p, err := simplex.BuildStandardForm([]float64{1}, []float64{0.1})
	require.NoError(t, err)
	s, err := simplex.NewSolver(p)
	require.NoError(t, err)
	_, err = s.Solve(context.Background())
	require.NoError(t, err)
	_, err = s.Solve(context.Background())
	require.ErrorIs(t, err, simplex.ErrAlreadySolved)
}

func TestSolve_DoesNotAliasProblem(t *testing.T) {
	p, err := simplex.BuildStandardForm([]float64{0.6, 0.6}, []float64{0.05, 0.08})
	require.NoError(t, err)
	before := p.A.String()
	mustSolve(t, p)
	require.Equal(t, before, p.A.String())
	require.Equal(t, []float64{0.6, 0.6, 1}, p.B)
}

func TestNewSolver_Validation(t *testing.T) {
	good, err := simplex.BuildStandardForm([]float64{0.6, 0.6}, []float64{0.05, 0.08})
	require.NoError(t, err)

	_, err = simplex.NewSolver(simplex.Problem{})
	require.ErrorIs(t, err, simplex.ErrInvalidProblemShape)

	bad := good
	bad.C = bad.C[:1]
	_, err = simplex.NewSolver(bad)
	require.ErrorIs(t, err, simplex.ErrInvalidProblemShape)

	bad = good
	bad.Structural = 9
	_, err = simplex.NewSolver(bad)
	require.ErrorIs(t, err, simplex.ErrInvalidProblemShape)

	_, err = simplex.NewSolver(good, simplex.WithMaxIterations(0))
	require.ErrorIs(t, err, simplex.ErrInvalidOption)
	_, err = simplex.NewSolver(good, simplex.WithTolerance(-1))
	require.ErrorIs(t, err, simplex.ErrInvalidOption)
	_, err = simplex.NewSolver(good, simplex.WithPivotRule(simplex.PivotRule(42)))
	require.ErrorIs(t, err, simplex.ErrInvalidOption)

	ord, err := simplex.NewOrdering(3, 1)
	require.NoError(t, err)
	_, err = simplex.NewSolver(good, simplex.WithOrdering(ord))
	require.ErrorIs(t, err, simplex.ErrInvalidOption)
}

func TestExplicitOrderingMatchesSeed(t *testing.T) {
	p, err := simplex.BuildStandardForm([]float64{0.4, 0.4, 0.4, 0.4}, []float64{0.01, 0.05, 0.03, 0.04})
	require.NoError(t, err)

	ord, err := simplex.NewOrdering(p.Cols(), 13)
	require.NoError(t, err)
	a := mustSolve(t, p, simplex.WithPivotRule(simplex.Random), simplex.WithOrdering(ord))
	b := mustSolve(t, p, simplex.WithPivotRule(simplex.Random), simplex.WithSeed(13))
	require.Equal(t, a.Iterations, b.Iterations)
	require.Equal(t, a.X, b.X)
}

func TestParsePivotRule(t *testing.T) {
	for in, want := range map[string]simplex.PivotRule{
		"greedy": simplex.Greedy, "": simplex.Greedy, "cunningham": simplex.RoundRobin,
		"round-robin": simplex.RoundRobin, "random": simplex.Random,
	} {
		got, err := simplex.ParsePivotRule(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := simplex.ParsePivotRule("bland")
	require.ErrorIs(t, err, simplex.ErrInvalidOption)
}
