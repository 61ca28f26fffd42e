// SPDX-License-Identifier: MIT
package portfolio

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/portopt/interiorpoint"
	"github.com/katalvlaran/portopt/simplex"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidBounds indicates bound vectors of the wrong length, outside [0,1], or lower > upper.
	ErrInvalidBounds = errors.New("portfolio: invalid bounds")

	// ErrInvalidPrices indicates a price matrix with too few periods, a column count
	// different from the ticker count, or a non-positive or non-finite price.
	ErrInvalidPrices = errors.New("portfolio: invalid prices")

	// ErrNoWeights indicates an operation that needs weights before any were set or solved.
	ErrNoWeights = errors.New("portfolio: no weights")

	// ErrInvalidWeights indicates weights of the wrong length or non-finite values.
	ErrInvalidWeights = errors.New("portfolio: invalid weights")

	// ErrInvalidCapital indicates a negative capital or negative rounding places.
	ErrInvalidCapital = errors.New("portfolio: invalid capital")

	// ErrUnknownMethod indicates a method name other than "lp" or "qp".
	ErrUnknownMethod = errors.New("portfolio: unknown method")
)

const (
	opNew        = "New"
	opSetWeights = "SetWeights"
	opSolveLP    = "SolveLP"
	opSolveQP    = "SolveQP"
	opAllocate   = "Allocate"
	opVariance   = "Variance"
)

// TradingDays annualizes the per-period return covariance.
const TradingDays = 252

// minPeriods is the smallest price history that yields a sample covariance.
const minPeriods = 3

func portfolioErrorf(tag string, err error) error {
	return fmt.Errorf("portfolio.%s: %w", tag, err)
}

// Method names an optimization formulation.
type Method string

const (
	// MethodLP maximizes expected return with the simplex solver.
	MethodLP Method = "lp"
	// MethodQP minimizes variance with the interior-point solver.
	MethodQP Method = "qp"
)

// ParseMethod accepts "lp" or "qp" in any case.
func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(s))) {
	case MethodLP:
		return MethodLP, nil
	case MethodQP:
		return MethodQP, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
}

// Stats summarizes the current weights.
type Stats struct {
	ExpectedReturn float64 // mean per-period portfolio return
	Variance       float64 // wᵀΣw with the annualized covariance
	StdDev         float64
	TotalWeight    float64
}

// Allocation is the monetary share of one ticker.
type Allocation struct {
	Ticker string
	Weight float64
	Amount decimal.Decimal
}

// Outcome collects the results of SolveAll for one portfolio. A nil result means the
// method was not requested; a non-nil Err records why that method failed.
type Outcome struct {
	Index int
	LP    *simplex.Result
	LPErr error
	QP    *interiorpoint.Result
	QPErr error
}
