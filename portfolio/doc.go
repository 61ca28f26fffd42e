// Package portfolio models a bounded long-only portfolio over a price history and
// connects it to the two solvers.
//
// From a T×n matrix of closing prices it derives simple per-period returns, the mean
// return of each asset and the covariance of returns annualized over 252 trading days.
// SolveLP maximizes expected return with package simplex; SolveQP minimizes variance
// with package interiorpoint. SolveAll fans several portfolios out over an errgroup,
// and Allocate turns weights into exact monetary amounts with shopspring/decimal.
//
//	p, err := portfolio.New(tickers, lower, upper, prices)
//	res, err := p.SolveQP(ctx)
//	stats, err := p.Stats()
//	alloc, err := p.Allocate(decimal.NewFromInt(10000), 2)
package portfolio
