// SPDX-License-Identifier: MIT

// Package config loads the YAML run configuration of the portopt command.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/katalvlaran/portopt/interiorpoint"
	"github.com/katalvlaran/portopt/portfolio"
	"github.com/katalvlaran/portopt/simplex"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid")

const dateLayout = "2006-01-02"

// Simplex configures the LP solve.
type Simplex struct {
	PivotRule     string `yaml:"pivot_rule"`
	Seed          int64  `yaml:"seed"`
	MaxIterations int    `yaml:"max_iterations"`
}

// InteriorPoint configures the QP solve. RandomStart with a non-zero Seed draws the
// starting point instead of using the fixed default.
type InteriorPoint struct {
	MaxIterations int     `yaml:"max_iterations"`
	Epsilon       float64 `yaml:"epsilon"`
	StepDecrement float64 `yaml:"step_decrement"`
	RandomStart   bool    `yaml:"random_start"`
	Seed          int64   `yaml:"seed"`
}

// Config is the full run configuration.
type Config struct {
	Tickers       []string      `yaml:"tickers"`
	Lower         []float64     `yaml:"lower"`
	Upper         []float64     `yaml:"upper"`
	From          string        `yaml:"from"`
	To            string        `yaml:"to"`
	DBPath        string        `yaml:"db_path"`
	Capital       string        `yaml:"capital"`
	Places        int32         `yaml:"places"`
	Methods       []string      `yaml:"methods"`
	Simplex       Simplex       `yaml:"simplex"`
	InteriorPoint InteriorPoint `yaml:"interior_point"`
	LogLevel      string        `yaml:"log_level"`
}

// Default returns a Config with the solver defaults and both methods enabled.
// Tickers, bounds and dates have no default.
func Default() *Config {
	return &Config{
		DBPath:  "portopt.db",
		Capital: "10000",
		Places:  2,
		Methods: []string{string(portfolio.MethodLP), string(portfolio.MethodQP)},
		Simplex: Simplex{
			PivotRule:     simplex.Greedy.String(),
			MaxIterations: simplex.DefaultMaxIterations,
		},
		InteriorPoint: InteriorPoint{
			MaxIterations: interiorpoint.DefaultMaxIterations,
			Epsilon:       interiorpoint.DefaultEpsilon,
			StepDecrement: interiorpoint.DefaultStepDecrement,
		},
		LogLevel: zerolog.InfoLevel.String(),
	}
}

// Load reads path over Default and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Default()
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// Validate checks every field the run depends on.
func (c *Config) Validate() error {
	n := len(c.Tickers)
	if n == 0 {
		return invalid("no tickers")
	}
	if len(c.Lower) != n || len(c.Upper) != n {
		return invalid("%d tickers but %d lower and %d upper bounds", n, len(c.Lower), len(c.Upper))
	}
	from, to, err := c.Range()
	if err != nil {
		return err
	}
	if from.After(to) {
		return invalid("from %s is after to %s", c.From, c.To)
	}
	if c.DBPath == "" {
		return invalid("empty db_path")
	}
	capital, err := c.CapitalAmount()
	if err != nil {
		return err
	}
	if capital.IsNegative() || c.Places < 0 {
		return invalid("capital %s at %d places", c.Capital, c.Places)
	}
	if _, err = c.ParsedMethods(); err != nil {
		return invalid("%v", err)
	}
	if _, err = simplex.ParsePivotRule(c.Simplex.PivotRule); err != nil {
		return invalid("%v", err)
	}
	if c.Simplex.MaxIterations <= 0 || c.InteriorPoint.MaxIterations <= 0 {
		return invalid("max_iterations must be positive")
	}
	if !(c.InteriorPoint.Epsilon > 0) {
		return invalid("epsilon %g", c.InteriorPoint.Epsilon)
	}
	if !(c.InteriorPoint.StepDecrement > 0 && c.InteriorPoint.StepDecrement <= 1) {
		return invalid("step_decrement %g", c.InteriorPoint.StepDecrement)
	}
	if _, err = zerolog.ParseLevel(c.LogLevel); err != nil {
		return invalid("log_level: %v", err)
	}

	return nil
}

// Range parses From and To.
func (c *Config) Range() (from, to time.Time, err error) {
	if from, err = time.Parse(dateLayout, c.From); err != nil {
		return from, to, invalid("from: %v", err)
	}
	if to, err = time.Parse(dateLayout, c.To); err != nil {
		return from, to, invalid("to: %v", err)
	}

	return from, to, nil
}

// CapitalAmount parses Capital.
func (c *Config) CapitalAmount() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(c.Capital)
	if err != nil {
		return d, invalid("capital: %v", err)
	}

	return d, nil
}

// ParsedMethods returns the configured methods.
func (c *Config) ParsedMethods() ([]portfolio.Method, error) {
	if len(c.Methods) == 0 {
		return nil, errors.New("no methods")
	}
	out := make([]portfolio.Method, len(c.Methods))
	for i, s := range c.Methods {
		m, err := portfolio.ParseMethod(s)
		if err != nil {
			return nil, err
		}
		out[i] = m
	}

	return out, nil
}

// SimplexOptions converts the simplex section into solver options.
func (c *Config) SimplexOptions(l zerolog.Logger, verbose bool) ([]simplex.Option, error) {
	rule, err := simplex.ParsePivotRule(c.Simplex.PivotRule)
	if err != nil {
		return nil, invalid("%v", err)
	}
	opts := []simplex.Option{
		simplex.WithPivotRule(rule),
		simplex.WithSeed(c.Simplex.Seed),
		simplex.WithMaxIterations(c.Simplex.MaxIterations),
		simplex.WithLogger(l),
	}
	if verbose {
		opts = append(opts, simplex.WithVerbose())
	}

	return opts, nil
}

// InteriorPointOptions converts the interior_point section into solver options for n assets.
func (c *Config) InteriorPointOptions(n int, l zerolog.Logger, verbose bool) []interiorpoint.Option {
	opts := []interiorpoint.Option{
		interiorpoint.WithMaxIterations(c.InteriorPoint.MaxIterations),
		interiorpoint.WithEpsilon(c.InteriorPoint.Epsilon),
		interiorpoint.WithStepDecrement(c.InteriorPoint.StepDecrement),
		interiorpoint.WithLogger(l),
	}
	if c.InteriorPoint.RandomStart {
		opts = append(opts, portfolio.RandomStart(n, c.InteriorPoint.Seed))
	}
	if verbose {
		opts = append(opts, interiorpoint.WithVerbose())
	}

	return opts
}
