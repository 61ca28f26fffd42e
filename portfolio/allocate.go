// SPDX-License-Identifier: MIT
package portfolio

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Allocate splits capital across the tickers in proportion to the current weights.
//
// Negative weights count as zero and the rest are normalized to sum to one. Amounts are
// rounded to places decimal digits; the rounding residual goes to the ticker with the
// largest weight (lowest index on ties) so the amounts sum exactly to capital rounded to
// places.
//
// Errors: ErrNoWeights when no weights are set or none is positive, ErrInvalidCapital
// for a negative capital or negative places.
func (p *Portfolio) Allocate(capital decimal.Decimal, places int32) ([]Allocation, error) {
	if capital.IsNegative() || places < 0 {
		return nil, portfolioErrorf(opAllocate, fmt.Errorf("%w: %s at %d places", ErrInvalidCapital, capital, places))
	}
	if p.weights == nil {
		return nil, portfolioErrorf(opAllocate, ErrNoWeights)
	}

	var total float64
	largest := -1
	for i, w := range p.weights {
		if w <= 0 {
			continue
		}
		total += w
		if largest < 0 || w > p.weights[largest] {
			largest = i
		}
	}
	if largest < 0 {
		return nil, portfolioErrorf(opAllocate, fmt.Errorf("%w: no positive weight", ErrNoWeights))
	}

	target := capital.Round(places)
	sum := decimal.Zero
	out := make([]Allocation, len(p.weights))
	for i, w := range p.weights {
		out[i] = Allocation{Ticker: p.tickers[i], Weight: w, Amount: decimal.Zero}
		if w <= 0 {
			continue
		}
		amt := capital.Mul(decimal.NewFromFloat(w / total)).Round(places)
		out[i].Amount = amt
		sum = sum.Add(amt)
	}
	out[largest].Amount = out[largest].Amount.Add(target.Sub(sum))

	return out, nil
}
