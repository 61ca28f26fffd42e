// SPDX-License-Identifier: MIT
package pricestore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/katalvlaran/portopt/matrix"
)

// Point is one daily close.
type Point struct {
	Date  time.Time
	Close float64
}

func day(t time.Time) string { return t.UTC().Format(dateLayout) }

func checkRange(ticker string, from, to time.Time) error {
	if strings.TrimSpace(ticker) == "" {
		return fmt.Errorf("%w: empty ticker", ErrInvalidRange)
	}
	if from.After(to) {
		return fmt.Errorf("%w: %s after %s", ErrInvalidRange, day(from), day(to))
	}

	return nil
}

// PutSeries upserts points for ticker in one transaction. Dates are truncated to the day.
func (s *Store) PutSeries(ctx context.Context, ticker string, pts []Point) error {
	if strings.TrimSpace(ticker) == "" {
		return storeErrorf("PutSeries", fmt.Errorf("%w: empty ticker", ErrInvalidRange))
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErrorf("PutSeries", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO prices (ticker, date, close) VALUES (?, ?, ?)
		 ON CONFLICT(ticker, date) DO UPDATE SET close = excluded.close`)
	if err != nil {
		return storeErrorf("PutSeries", err)
	}
	defer stmt.Close()

	for _, p := range pts {
		if _, err = stmt.ExecContext(ctx, ticker, day(p.Date), p.Close); err != nil {
			return storeErrorf("PutSeries", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return storeErrorf("PutSeries", err)
	}
	s.log.Debug().Str("ticker", ticker).Int("points", len(pts)).Msg("series stored")

	return nil
}

// Series returns the closes of ticker with from ≤ date ≤ to in date order.
// ErrNoData when there are none.
func (s *Store) Series(ctx context.Context, ticker string, from, to time.Time) ([]Point, error) {
	if err := checkRange(ticker, from, to); err != nil {
		return nil, storeErrorf("Series", err)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, close FROM prices WHERE ticker = ? AND date >= ? AND date <= ? ORDER BY date`,
		ticker, day(from), day(to))
	if err != nil {
		return nil, storeErrorf("Series", err)
	}
	defer rows.Close()

	var out []Point
	for rows.Next() {
		var d string
		var p Point
		if err = rows.Scan(&d, &p.Close); err != nil {
			return nil, storeErrorf("Series", err)
		}
		if p.Date, err = time.Parse(dateLayout, d); err != nil {
			return nil, storeErrorf("Series", err)
		}
		out = append(out, p)
	}
	if err = rows.Err(); err != nil {
		return nil, storeErrorf("Series", err)
	}
	if len(out) == 0 {
		return nil, storeErrorf("Series", fmt.Errorf("%w: %s %s..%s", ErrNoData, ticker, day(from), day(to)))
	}

	return out, nil
}

// Matrix returns a dates×tickers price matrix over the dates every ticker has a close
// for, in date order, together with those dates. Columns follow tickers.
//
// ErrNoData when a ticker has no rows in range or the tickers share no date.
func (s *Store) Matrix(ctx context.Context, tickers []string, from, to time.Time) (*matrix.Dense, []time.Time, error) {
	if len(tickers) == 0 {
		return nil, nil, storeErrorf("Matrix", fmt.Errorf("%w: no tickers", ErrInvalidRange))
	}

	series := make([]map[string]float64, len(tickers))
	var common map[string]bool
	var first []Point
	for j, tk := range tickers {
		pts, err := s.Series(ctx, tk, from, to)
		if err != nil {
			return nil, nil, err
		}
		if j == 0 {
			first = pts
		}
		series[j] = make(map[string]float64, len(pts))
		next := make(map[string]bool, len(pts))
		for _, p := range pts {
			k := day(p.Date)
			series[j][k] = p.Close
			if common == nil || common[k] {
				next[k] = true
			}
		}
		common = next
	}

	dates := make([]time.Time, 0, len(common))
	for _, p := range first {
		if common[day(p.Date)] {
			dates = append(dates, p.Date)
		}
	}
	if len(dates) == 0 {
		return nil, nil, storeErrorf("Matrix", fmt.Errorf("%w: no common dates", ErrNoData))
	}

	out, err := matrix.NewZeros(len(dates), len(tickers))
	if err != nil {
		return nil, nil, storeErrorf("Matrix", err)
	}
	for i, d := range dates {
		row, _ := out.Row(i)
		k := day(d)
		for j := range tickers {
			row[j] = series[j][k]
		}
	}

	return out, dates, nil
}
