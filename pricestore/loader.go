// SPDX-License-Identifier: MIT
package pricestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/katalvlaran/portopt/matrix"
	"golang.org/x/sync/singleflight"
)

// Fetcher downloads daily closes from a market-data source.
type Fetcher interface {
	Fetch(ctx context.Context, ticker string, from, to time.Time) ([]Point, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, ticker string, from, to time.Time) ([]Point, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, ticker string, from, to time.Time) ([]Point, error) {
	return f(ctx, ticker, from, to)
}

// Loader serves price series from the Store and falls back to a Fetcher on a miss.
// Any stored row in the range counts as a hit. Concurrent misses for the same
// ticker and range share one fetch.
type Loader struct {
	store *Store
	fetch Fetcher
	group singleflight.Group
}

// NewLoader returns a Loader over store. A nil fetcher makes every miss ErrNoData.
func NewLoader(store *Store, fetch Fetcher) *Loader {
	return &Loader{store: store, fetch: fetch}
}

// Load returns the series of ticker in [from, to], fetching and storing it on a miss.
//
// The fetch runs detached from ctx cancellation since other callers may share it;
// ctx values still reach the Fetcher. A cancelled caller returns ctx.Err() at once
// while the shared fetch completes for the others.
func (l *Loader) Load(ctx context.Context, ticker string, from, to time.Time) ([]Point, error) {
	pts, err := l.store.Series(ctx, ticker, from, to)
	if err == nil || !errors.Is(err, ErrNoData) || l.fetch == nil {
		return pts, err
	}

	key := fmt.Sprintf("%s:%s:%s", ticker, day(from), day(to))
	ch := l.group.DoChan(key, func() (interface{}, error) {
		// Shared by every caller of key: one caller's cancellation must not fail the rest.
		return l.fetchAndStore(context.WithoutCancel(ctx), ticker, from, to)
	})
	select {
	case <-ctx.Done():
		return nil, storeErrorf("Load", fmt.Errorf("%s: %w", ticker, ctx.Err()))
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		l.store.log.Debug().Str("ticker", ticker).Bool("shared", r.Shared).Msg("series fetched")

		return r.Val.([]Point), nil
	}
}

func (l *Loader) fetchAndStore(ctx context.Context, ticker string, from, to time.Time) ([]Point, error) {
	pts, err := l.fetch.Fetch(ctx, ticker, from, to)
	if err != nil {
		return nil, storeErrorf("Fetch", fmt.Errorf("%s: %w", ticker, err))
	}
	if err = l.store.PutSeries(ctx, ticker, pts); err != nil {
		return nil, err
	}

	return l.store.Series(ctx, ticker, from, to)
}

// LoadMatrix loads every ticker and returns the aligned price matrix (see Store.Matrix).
func (l *Loader) LoadMatrix(ctx context.Context, tickers []string, from, to time.Time) (*matrix.Dense, []time.Time, error) {
	for _, tk := range tickers {
		if _, err := l.Load(ctx, tk, from, to); err != nil {
			return nil, nil, err
		}
	}

	return l.store.Matrix(ctx, tickers, from, to)
}
