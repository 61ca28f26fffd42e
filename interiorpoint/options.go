// SPDX-License-Identifier: MIT
package interiorpoint

import (
	"math"

	"github.com/rs/zerolog"
)

const (
	// DefaultMaxIterations caps predictor-corrector iterations.
	DefaultMaxIterations = 100

	// DefaultEpsilon is the step-norm convergence threshold.
	DefaultEpsilon = 1e-5

	// DefaultStepDecrement is the grid spacing of the backtracking step search.
	DefaultStepDecrement = 0.05

	defaultX0      = 1.0
	defaultY0      = 0.3
	defaultLambda0 = 0.6
)

// Options configures a Solver.
//
// MaxIterations – iteration cap (> 0). Default 100.
// Epsilon       – convergence threshold on ‖(dx,dy,dλ)‖₂ (> 0). Default 1e-5.
// StepDecrement – step search decrement in (0,1]. Default 0.05.
// X0, Y0, L0    – optional starting point; nil selects x=1, y=0.3, λ=0.6.
//
//	Y0 and L0 must be strictly positive.
//
// Logger        – destination for diagnostics; zerolog.Nop() by default.
// Verbose       – emit one debug event per iteration.
type Options struct {
	MaxIterations int
	Epsilon       float64
	StepDecrement float64
	X0, Y0, L0    []float64
	Logger        zerolog.Logger
	Verbose       bool
}

// Option represents a functional option for configuring a Solver.
type Option func(*Options)

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		MaxIterations: DefaultMaxIterations,
		Epsilon:       DefaultEpsilon,
		StepDecrement: DefaultStepDecrement,
		Logger:        zerolog.Nop(),
	}
}

// WithMaxIterations sets the iteration cap.
func WithMaxIterations(n int) Option {
	return func(o *Options) { o.MaxIterations = n }
}

// WithEpsilon sets the step-norm convergence threshold.
func WithEpsilon(eps float64) Option {
	return func(o *Options) { o.Epsilon = eps }
}

// WithStepDecrement sets the decrement of the step search.
func WithStepDecrement(d float64) Option {
	return func(o *Options) { o.StepDecrement = d }
}

// WithStartingPoint supplies x0 (len n), y0 and λ0 (len m, strictly positive).
// The slices are copied.
func WithStartingPoint(x0, y0, lambda0 []float64) Option {
	return func(o *Options) {
		o.X0 = append([]float64(nil), x0...)
		o.Y0 = append([]float64(nil), y0...)
		o.L0 = append([]float64(nil), lambda0...)
	}
}

// WithLogger routes diagnostics to l.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithVerbose enables per-iteration debug events.
func WithVerbose() Option {
	return func(o *Options) { o.Verbose = true }
}

// validate checks option domains against a problem with n variables and m constraints.
func (o Options) validate(n, m int) error {
	if o.MaxIterations <= 0 {
		return ErrInvalidOption
	}
	if !(o.Epsilon > 0) || math.IsInf(o.Epsilon, 0) {
		return ErrInvalidOption
	}
	if !(o.StepDecrement > 0) || o.StepDecrement > 1 {
		return ErrInvalidOption
	}
	if o.X0 == nil && o.Y0 == nil && o.L0 == nil {
		return nil
	}
	if len(o.X0) != n || len(o.Y0) != m || len(o.L0) != m {
		return ErrInvalidOption
	}
	for i := 0; i < m; i++ {
		if !(o.Y0[i] > 0) || !(o.L0[i] > 0) {
			return ErrInvalidOption
		}
	}
	for _, v := range o.X0 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrInvalidOption
		}
	}

	return nil
}

// start returns copies of the starting point.
func (o Options) start(n, m int) (x, y, l []float64) {
	if o.X0 != nil {
		return append([]float64(nil), o.X0...),
			append([]float64(nil), o.Y0...),
			append([]float64(nil), o.L0...)
	}
	x, y, l = make([]float64, n), make([]float64, m), make([]float64, m)
	for i := range x {
		x[i] = defaultX0
	}
	for i := 0; i < m; i++ {
		y[i], l[i] = defaultY0, defaultLambda0
	}

	return x, y, l
}
