// SPDX-License-Identifier: MIT

// Command portopt loads price history, solves the bounded maximum-return LP and the
// minimum-variance QP for a configured ticker set, and prints the allocations.
//
// Usage:
//
//	portopt -config portopt.yaml [-db prices.db] [-import prices.csv] [-verbose]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/katalvlaran/portopt/config"
	"github.com/katalvlaran/portopt/portfolio"
	"github.com/katalvlaran/portopt/pricestore"
	"github.com/rs/zerolog"
)

func main() {
	cfgPath := flag.String("config", "portopt.yaml", "YAML run configuration")
	dbPath := flag.String("db", "", "SQLite price store (overrides db_path)")
	importPath := flag.String("import", "", "CSV of ticker,date,adjclose rows to import first")
	verbose := flag.Bool("verbose", false, "log every pivot and interior-point iteration")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, *cfgPath, *dbPath, *importPath, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, "portopt:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfgPath, dbPath, importPath string, verbose bool) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	if verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).With().Timestamp().Logger()

	store, err := pricestore.Open(ctx, cfg.DBPath, pricestore.WithLogger(log))
	if err != nil {
		return err
	}
	defer store.Close()

	if importPath != "" {
		if err = importCSV(ctx, store, importPath); err != nil {
			return err
		}
	}

	from, to, err := cfg.Range()
	if err != nil {
		return err
	}
	prices, dates, err := pricestore.NewLoader(store, nil).LoadMatrix(ctx, cfg.Tickers, from, to)
	if err != nil {
		return err
	}
	log.Info().Int("periods", len(dates)).Strs("tickers", cfg.Tickers).Msg("prices loaded")

	p, err := portfolio.New(cfg.Tickers, cfg.Lower, cfg.Upper, prices)
	if err != nil {
		return err
	}
	methods, err := cfg.ParsedMethods()
	if err != nil {
		return err
	}
	for _, m := range methods {
		if err = solve(ctx, log, cfg, store, p, m, verbose); err != nil {
			return err
		}
	}

	return nil
}

func importCSV(ctx context.Context, store *pricestore.Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = store.ImportCSV(ctx, f)

	return err
}

func solve(ctx context.Context, log zerolog.Logger, cfg *config.Config, store *pricestore.Store,
	p *portfolio.Portfolio, m portfolio.Method, verbose bool) error {
	rec := pricestore.Run{Method: string(m), Tickers: p.Tickers()}

	switch m {
	case portfolio.MethodLP:
		opts, err := cfg.SimplexOptions(log, verbose)
		if err != nil {
			return err
		}
		res, err := p.SolveLP(ctx, opts...)
		if err != nil {
			log.Error().Err(err).Msg("lp failed")
			return nil
		}
		rec.Status, rec.Objective, rec.Iterations = res.Status.String(), res.Objective, res.Iterations
		for _, w := range res.Warnings {
			log.Warn().Str("warning", w.String()).Msg("simplex")
		}
	case portfolio.MethodQP:
		res, err := p.SolveQP(ctx, cfg.InteriorPointOptions(p.Len(), log, verbose)...)
		if err != nil {
			log.Error().Err(err).Msg("qp failed")
			return nil
		}
		rec.Status, rec.Objective, rec.Iterations = res.Status.String(), res.Objective, res.Iterations
	}
	rec.Weights = p.Weights()

	stats, err := p.Stats()
	if err != nil {
		return err
	}
	log.Info().
		Str("method", string(m)).
		Str("status", rec.Status).
		Int("iterations", rec.Iterations).
		Floats64("weights", rec.Weights).
		Float64("expected_return", stats.ExpectedReturn).
		Float64("variance", stats.Variance).
		Float64("std", stats.StdDev).
		Msg("solved")

	capital, err := cfg.CapitalAmount()
	if err != nil {
		return err
	}
	alloc, err := p.Allocate(capital, cfg.Places)
	if err != nil {
		log.Warn().Err(err).Msg("no allocation")
	} else {
		fmt.Printf("%s allocation of %s:\n", m, capital.StringFixed(cfg.Places))
		for _, a := range alloc {
			fmt.Printf("  %-8s %6.2f%%  %s\n", a.Ticker, 100*a.Weight, a.Amount.StringFixed(cfg.Places))
		}
	}

	id, err := store.SaveRun(ctx, rec)
	if err != nil {
		return err
	}
	log.Debug().Str("run", id.String()).Msg("run recorded")

	return nil
}
