// SPDX-License-Identifier: MIT
package simplex

import (
	"math"

	"github.com/rs/zerolog"
)

const (
	// DefaultMaxIterations caps the number of pivots across both phases.
	DefaultMaxIterations = 1000

	// DefaultTolerance is the optimality tolerance on objective-row coefficients.
	DefaultTolerance = 1e-12

	// pivotTol excludes near-zero pivot-column entries from the ratio test.
	pivotTol = 1e-12

	// unitTol is the tolerance for recognising a unit (basic) column. A ratio-test
	// winner whose pivot entry is below it is a degenerate pivot and is not taken.
	unitTol = 1e-9

	// feasTol is the phase-one remainder above which the problem is infeasible.
	feasTol = 1e-9
)

// Options configures a Solver.
//
// Rule          – entering-column rule (Greedy by default).
// Seed          – seed of the column permutation used by RoundRobin and Random;
//
//	0 selects a fixed default stream.
//
// Ordering      – explicit permutation; overrides Seed when set.
// MaxIterations – pivot cap (> 0). Default 1000.
// Tolerance     – optimality tolerance (≥ 0). Default 1e-12.
// Logger        – destination for diagnostics; zerolog.Nop() by default.
// Verbose       – emit one debug event per pivot.
type Options struct {
	Rule          PivotRule
	Seed          int64
	Ordering      *Ordering
	MaxIterations int
	Tolerance     float64
	Logger        zerolog.Logger
	Verbose       bool
}

// Option represents a functional option for configuring a Solver.
type Option func(*Options)

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Rule:          Greedy,
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
		Logger:        zerolog.Nop(),
	}
}

// WithPivotRule selects the entering-column rule.
func WithPivotRule(r PivotRule) Option {
	return func(o *Options) { o.Rule = r }
}

// WithSeed sets the seed of the column permutation.
func WithSeed(seed int64) Option {
	return func(o *Options) { o.Seed = seed }
}

// WithOrdering supplies an explicit column permutation. Its length must equal the
// number of problem columns. The Ordering is consumed by the solve and must not be
// shared between concurrent solvers.
func WithOrdering(ord *Ordering) Option {
	return func(o *Options) { o.Ordering = ord }
}

// WithMaxIterations sets the pivot cap.
func WithMaxIterations(n int) Option {
	return func(o *Options) { o.MaxIterations = n }
}

// WithTolerance sets the optimality tolerance.
func WithTolerance(tol float64) Option {
	return func(o *Options) { o.Tolerance = tol }
}

// WithLogger routes diagnostics to l.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithVerbose enables per-pivot debug events.
func WithVerbose() Option {
	return func(o *Options) { o.Verbose = true }
}

// validate checks option domains.
func (o Options) validate() error {
	if o.MaxIterations <= 0 {
		return ErrInvalidOption
	}
	if o.Tolerance < 0 || math.IsNaN(o.Tolerance) || math.IsInf(o.Tolerance, 0) {
		return ErrInvalidOption
	}
	switch o.Rule {
	case Greedy, RoundRobin, Random:
	default:
		return ErrInvalidOption
	}

	return nil
}
