// SPDX-License-Identifier: MIT
package portfolio

import (
	"fmt"
	"math"

	"github.com/katalvlaran/portopt/matrix"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Portfolio holds a ticker universe, its weight bounds and the price history the
// return statistics are drawn from. Weights are empty until set or solved.
//
// Lower bounds are validated and kept for reporting; neither formulation encodes them.
//
// A Portfolio is not safe for concurrent mutation; SolveAll only reads it.
type Portfolio struct {
	tickers []string
	lower   []float64
	upper   []float64
	prices  *matrix.Dense
	returns *matrix.Dense
	weights []float64
}

// New validates the inputs, copies them and precomputes the per-period returns.
//
// prices is T×n with one column per ticker in ticker order, oldest period first.
//
// Errors:
//   - ErrInvalidBounds: len(lower) or len(upper) != len(tickers), no tickers, a bound
//     outside [0,1] or NaN, lower[i] > upper[i].
//   - ErrInvalidPrices: nil prices, T < 3, Cols != n, a price ≤ 0 or non-finite.
func New(tickers []string, lower, upper []float64, prices *matrix.Dense) (*Portfolio, error) {
	n := len(tickers)
	if n == 0 || len(lower) != n || len(upper) != n {
		return nil, portfolioErrorf(opNew, fmt.Errorf("%w: %d tickers, %d lower, %d upper",
			ErrInvalidBounds, n, len(lower), len(upper)))
	}
	for i := 0; i < n; i++ {
		if !inUnit(lower[i]) || !inUnit(upper[i]) || lower[i] > upper[i] {
			return nil, portfolioErrorf(opNew, fmt.Errorf("%w: %s [%g, %g]",
				ErrInvalidBounds, tickers[i], lower[i], upper[i]))
		}
	}
	if prices == nil {
		return nil, portfolioErrorf(opNew, fmt.Errorf("%w: nil matrix", ErrInvalidPrices))
	}
	if prices.Rows() < minPeriods || prices.Cols() != n {
		return nil, portfolioErrorf(opNew, fmt.Errorf("%w: %dx%d for %d tickers",
			ErrInvalidPrices, prices.Rows(), prices.Cols(), n))
	}

	p := &Portfolio{
		tickers: append([]string(nil), tickers...),
		lower:   append([]float64(nil), lower...),
		upper:   append([]float64(nil), upper...),
		prices:  prices.Clone().(*matrix.Dense),
	}
	r, err := simpleReturns(p.prices)
	if err != nil {
		return nil, portfolioErrorf(opNew, err)
	}
	p.returns = r

	return p, nil
}

func inUnit(v float64) bool { return v >= 0 && v <= 1 }

// simpleReturns computes (p_t − p_{t−1}) / p_{t−1} for t = 1..T−1.
func simpleReturns(prices *matrix.Dense) (*matrix.Dense, error) {
	T, n := prices.Shape()
	out, err := matrix.NewZeros(T-1, n)
	if err != nil {
		return nil, err
	}
	prev, _ := prices.Row(0)
	for j, v := range prev {
		if !(v > 0) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: period 0 column %d = %g", ErrInvalidPrices, j, v)
		}
	}
	for t := 1; t < T; t++ {
		cur, _ := prices.Row(t)
		dst, _ := out.Row(t - 1)
		for j := 0; j < n; j++ {
			if !(cur[j] > 0) || math.IsInf(cur[j], 0) {
				return nil, fmt.Errorf("%w: period %d column %d = %g", ErrInvalidPrices, t, j, cur[j])
			}
			dst[j] = (cur[j] - prev[j]) / prev[j]
		}
		prev = cur
	}

	return out, nil
}

// Tickers returns a copy of the ticker list.
func (p *Portfolio) Tickers() []string { return append([]string(nil), p.tickers...) }

// Bounds returns copies of the lower and upper bounds.
func (p *Portfolio) Bounds() (lower, upper []float64) {
	return append([]float64(nil), p.lower...), append([]float64(nil), p.upper...)
}

// Len is the number of assets.
func (p *Portfolio) Len() int { return len(p.tickers) }

// Returns returns a copy of the (T−1)×n per-period simple returns.
func (p *Portfolio) Returns() *matrix.Dense { return p.returns.Clone().(*matrix.Dense) }

// ExpectedReturns returns the mean per-period return of every asset.
func (p *Portfolio) ExpectedReturns() []float64 {
	T, n := p.returns.Shape()
	col := make([]float64, T)
	mu := make([]float64, n)
	for j := 0; j < n; j++ {
		for t := 0; t < T; t++ {
			col[t], _ = p.returns.At(t, j)
		}
		mu[j] = stat.Mean(col, nil)
	}

	return mu
}

// Covariance returns the sample covariance of the returns annualized by TradingDays.
func (p *Portfolio) Covariance() (*matrix.Dense, error) {
	cov, _, err := matrix.Covariance(p.returns)
	if err != nil {
		return nil, err
	}

	return matrix.Scale(cov, TradingDays)
}

// SetWeights replaces the weights with a copy of w.
func (p *Portfolio) SetWeights(w []float64) error {
	if len(w) != len(p.tickers) {
		return portfolioErrorf(opSetWeights, fmt.Errorf("%w: len %d, want %d", ErrInvalidWeights, len(w), len(p.tickers)))
	}
	if err := matrix.ValidateFiniteVec(w); err != nil {
		return portfolioErrorf(opSetWeights, fmt.Errorf("%w: %w", ErrInvalidWeights, err))
	}
	p.weights = append(p.weights[:0], w...)

	return nil
}

// Weights returns a copy of the current weights, or nil before any are set.
func (p *Portfolio) Weights() []float64 {
	if p.weights == nil {
		return nil
	}

	return append([]float64(nil), p.weights...)
}

// PortfolioReturns returns the per-period return of the weighted portfolio.
func (p *Portfolio) PortfolioReturns() ([]float64, error) {
	if p.weights == nil {
		return nil, ErrNoWeights
	}

	return matrix.MatVec(p.returns, p.weights)
}

// Variance returns wᵀΣw with the annualized covariance.
func (p *Portfolio) Variance() (float64, error) {
	if p.weights == nil {
		return 0, portfolioErrorf(opVariance, ErrNoWeights)
	}
	cov, err := p.Covariance()
	if err != nil {
		return 0, portfolioErrorf(opVariance, err)
	}
	sw, err := matrix.MatVec(cov, p.weights)
	if err != nil {
		return 0, portfolioErrorf(opVariance, err)
	}

	return floats.Dot(p.weights, sw), nil
}

// StdDev is the square root of Variance, the portfolio volatility.
func (p *Portfolio) StdDev() (float64, error) {
	v, err := p.Variance()
	if err != nil {
		return 0, err
	}

	return math.Sqrt(math.Max(v, 0)), nil
}

// Stats gathers expected return, variance, volatility and total weight.
func (p *Portfolio) Stats() (Stats, error) {
	pr, err := p.PortfolioReturns()
	if err != nil {
		return Stats{}, err
	}
	v, err := p.Variance()
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		ExpectedReturn: stat.Mean(pr, nil),
		Variance:       v,
		StdDev:         math.Sqrt(math.Max(v, 0)),
		TotalWeight:    floats.Sum(p.weights),
	}, nil
}
