// SPDX-License-Identifier: MIT
package portfolio_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/portopt/interiorpoint"
	"github.com/katalvlaran/portopt/portfolio"
	"github.com/katalvlaran/portopt/simplex"
	"github.com/stretchr/testify/require"
)

func TestSolveAll(t *testing.T) {
	ps := []*portfolio.Portfolio{twoAssets(t, 0.7), twoAssets(t, 0.4), twoAssets(t, 1)}
	out, err := portfolio.SolveAll(context.Background(), ps, portfolio.SolveAllOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, out, 3)

	for i, o := range out {
		require.Equal(t, i, o.Index)
		require.NotNil(t, o.LP)
		require.NotNil(t, o.QP)
		require.Nil(t, ps[i].Weights(), "SolveAll must not touch weights")
	}

	require.NoError(t, out[0].LPErr)
	require.InDeltaSlice(t, []float64{0.7, 0.3}, out[0].LP.X, 1e-9)
	require.NoError(t, out[0].QPErr)
	require.Equal(t, interiorpoint.StatusConverged, out[0].QP.Status)

	require.ErrorIs(t, out[1].LPErr, simplex.ErrInfeasible)

	require.NoError(t, out[2].LPErr)
	require.InDeltaSlice(t, []float64{1, 0}, out[2].LP.X, 1e-9)
}

func TestSolveAll_SingleMethod(t *testing.T) {
	ps := []*portfolio.Portfolio{twoAssets(t, 0.7)}
	out, err := portfolio.SolveAll(context.Background(), ps, portfolio.SolveAllOptions{
		Methods: []portfolio.Method{portfolio.MethodLP},
		Simplex: []simplex.Option{simplex.WithPivotRule(simplex.Random), simplex.WithSeed(3)},
	})
	require.NoError(t, err)
	require.NotNil(t, out[0].LP)
	require.Nil(t, out[0].QP)
}

func TestSolveAll_UnknownMethod(t *testing.T) {
	_, err := portfolio.SolveAll(context.Background(), nil, portfolio.SolveAllOptions{
		Methods: []portfolio.Method{"milp"},
	})
	require.ErrorIs(t, err, portfolio.ErrUnknownMethod)
}

func TestSolveAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := portfolio.SolveAll(ctx, []*portfolio.Portfolio{twoAssets(t, 0.7)}, portfolio.SolveAllOptions{})
	require.ErrorIs(t, err, context.Canceled)
}
