// SPDX-License-Identifier: MIT
package pricestore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// csvColumns maps accepted header names to the three fields an import needs.
var csvColumns = map[string]string{
	"ticker":         "ticker",
	"symbol":         "ticker",
	"date":           "date",
	"formatted_date": "date",
	"adjclose":       "close",
	"adj_close":      "close",
	"close":          "close",
}

// ImportCSV reads rows of ticker, date (YYYY-MM-DD) and adjusted close from r and stores
// them. The first row is a header naming the columns in any order; other columns are
// ignored. When both "close" and "adjclose" appear, the adjusted close wins.
// Returns the number of rows stored.
func (s *Store) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return 0, storeErrorf("ImportCSV", fmt.Errorf("%w: header: %w", ErrBadCSV, err))
	}
	idx := map[string]int{}
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		field, ok := csvColumns[name]
		if !ok {
			continue
		}
		if _, seen := idx[field]; seen && name == "close" {
			continue
		}
		idx[field] = i
	}
	for _, f := range []string{"ticker", "date", "close"} {
		if _, ok := idx[f]; !ok {
			return 0, storeErrorf("ImportCSV", fmt.Errorf("%w: missing %s column", ErrBadCSV, f))
		}
	}

	byTicker := map[string][]Point{}
	var order []string
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return 0, storeErrorf("ImportCSV", fmt.Errorf("%w: line %d: %w", ErrBadCSV, line, err))
		}
		field := func(name string) (string, error) {
			i := idx[name]
			if i >= len(rec) {
				return "", fmt.Errorf("%w: line %d: short row", ErrBadCSV, line)
			}
			return strings.TrimSpace(rec[i]), nil
		}
		tk, err := field("ticker")
		if err != nil {
			return 0, storeErrorf("ImportCSV", err)
		}
		ds, err := field("date")
		if err != nil {
			return 0, storeErrorf("ImportCSV", err)
		}
		cs, err := field("close")
		if err != nil {
			return 0, storeErrorf("ImportCSV", err)
		}
		if tk == "" || cs == "" {
			continue
		}
		d, err := time.Parse(dateLayout, ds)
		if err != nil {
			return 0, storeErrorf("ImportCSV", fmt.Errorf("%w: line %d: %w", ErrBadCSV, line, err))
		}
		c, err := strconv.ParseFloat(cs, 64)
		if err != nil {
			return 0, storeErrorf("ImportCSV", fmt.Errorf("%w: line %d: %w", ErrBadCSV, line, err))
		}
		if _, ok := byTicker[tk]; !ok {
			order = append(order, tk)
		}
		byTicker[tk] = append(byTicker[tk], Point{Date: d, Close: c})
	}

	n := 0
	for _, tk := range order {
		if err = s.PutSeries(ctx, tk, byTicker[tk]); err != nil {
			return n, storeErrorf("ImportCSV", err)
		}
		n += len(byTicker[tk])
	}
	s.log.Info().Int("rows", n).Int("tickers", len(order)).Msg("csv imported")

	return n, nil
}
