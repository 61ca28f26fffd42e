// Package pricestore caches daily closing prices and solver runs in SQLite
// (modernc.org/sqlite, no cgo).
//
// Prices are keyed by (ticker, date) and can be imported from CSV, written by a
// Fetcher through a Loader, and read back either per ticker or as a dates×tickers
// matrix aligned on the dates every ticker shares. Runs record the method, status,
// weights and objective of each solve under a random UUID.
//
//	s, err := pricestore.Open(ctx, "portopt.db")
//	n, err := s.ImportCSV(ctx, f)
//	prices, dates, err := s.Matrix(ctx, tickers, from, to)
//	id, err := s.SaveRun(ctx, pricestore.Run{Method: "qp", ...})
package pricestore
