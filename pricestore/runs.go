// SPDX-License-Identifier: MIT
package pricestore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// runTimeLayout is fixed-width so created_at sorts lexically in time order.
const runTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run records one solver execution.
type Run struct {
	ID         uuid.UUID
	CreatedAt  time.Time
	Method     string
	Status     string
	Tickers    []string
	Weights    []float64
	Objective  float64
	Iterations int
}

// SaveRun stores r and returns its ID. A nil ID gets a fresh random one and a zero
// CreatedAt gets the current time.
func (s *Store) SaveRun(ctx context.Context, r Run) (uuid.UUID, error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	tickers, err := json.Marshal(r.Tickers)
	if err != nil {
		return uuid.Nil, storeErrorf("SaveRun", err)
	}
	weights, err := json.Marshal(r.Weights)
	if err != nil {
		return uuid.Nil, storeErrorf("SaveRun", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, method, status, tickers, weights, objective, iterations)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID.String(), r.CreatedAt.UTC().Format(runTimeLayout), r.Method, r.Status,
		string(tickers), string(weights), r.Objective, r.Iterations)
	if err != nil {
		return uuid.Nil, storeErrorf("SaveRun", err)
	}
	s.log.Debug().Str("run", r.ID.String()).Str("method", r.Method).Msg("run saved")

	return r.ID, nil
}

// Runs returns up to limit runs, newest first. limit ≤ 0 returns all.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, method, status, tickers, weights, objective, iterations
		 FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, storeErrorf("Runs", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r                   Run
			id, created, tk, wt string
		)
		if err = rows.Scan(&id, &created, &r.Method, &r.Status, &tk, &wt, &r.Objective, &r.Iterations); err != nil {
			return nil, storeErrorf("Runs", err)
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, storeErrorf("Runs", err)
		}
		if r.CreatedAt, err = time.Parse(runTimeLayout, created); err != nil {
			return nil, storeErrorf("Runs", err)
		}
		if err = json.Unmarshal([]byte(tk), &r.Tickers); err != nil {
			return nil, storeErrorf("Runs", fmt.Errorf("tickers: %w", err))
		}
		if err = json.Unmarshal([]byte(wt), &r.Weights); err != nil {
			return nil, storeErrorf("Runs", fmt.Errorf("weights: %w", err))
		}
		out = append(out, r)
	}
	if err = rows.Err(); err != nil {
		return nil, storeErrorf("Runs", err)
	}

	return out, nil
}
