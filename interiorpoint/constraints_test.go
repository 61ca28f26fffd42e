// SPDX-License-Identifier: MIT
package interiorpoint_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/portopt/interiorpoint"
	"github.com/stretchr/testify/require"
)

func TestBuildBoundConstraints_Layout(t *testing.T) {
	A, b, c, err := interiorpoint.BuildBoundConstraints([]float64{0.6, 0.4, 1})
	require.NoError(t, err)
	require.Equal(t, 4, A.Rows())
	require.Equal(t, 3, A.Cols())
	require.Equal(t, []float64{-0.6, -0.4, -1, 1}, b)
	require.Equal(t, []float64{0, 0, 0}, c)

	want := [][]float64{
		{-1, 0, 0},
		{0, -1, 0},
		{0, 0, -1},
		{1, 1, 1},
	}
	for i, w := range want {
		row, err := A.Row(i)
		require.NoError(t, err)
		require.Equal(t, w, row)
	}
}

func TestBuildBoundConstraints_Errors(t *testing.T) {
	for name, ub := range map[string][]float64{
		"empty":    nil,
		"above":    {0.5, 1.5},
		"negative": {-0.5},
		"nan":      {math.NaN()},
	} {
		t.Run(name, func(t *testing.T) {
			_, _, _, err := interiorpoint.BuildBoundConstraints(ub)
			require.ErrorIs(t, err, interiorpoint.ErrInvalidProblemShape)
		})
	}
}
