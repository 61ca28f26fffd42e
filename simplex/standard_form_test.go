// SPDX-License-Identifier: MIT
package simplex_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/portopt/simplex"
	"github.com/stretchr/testify/require"
)

func TestBuildStandardForm_Layout(t *testing.T) {
	p, err := simplex.BuildStandardForm([]float64{0.6, 0.3}, []float64{0.05, 0.08})
	require.NoError(t, err)
	require.Equal(t, 3, p.Rows())
	require.Equal(t, 4, p.Cols())
	require.Equal(t, 2, p.Structural)
	require.Equal(t, []float64{0.05, 0.08, 0, 0}, p.C)
	require.Equal(t, []float64{0.6, 0.3, 1}, p.B)

	want := [][]float64{
		{1, 0, 1, 0},
		{0, 1, 0, 1},
		{1, 1, 0, 0},
	}
	for i, row := range want {
		got, err := p.A.Row(i)
		require.NoError(t, err)
		require.Equal(t, row, got)
	}
}

func TestBuildStandardForm_Errors(t *testing.T) {
	cases := []struct {
		name   string
		ub, mu []float64
	}{
		{"empty", nil, nil},
		{"length mismatch", []float64{0.5}, []float64{0.1, 0.2}},
		{"bound above one", []float64{1.2}, []float64{0.1}},
		{"negative bound", []float64{-0.1}, []float64{0.1}},
		{"nan bound", []float64{math.NaN()}, []float64{0.1}},
		{"inf return", []float64{0.5}, []float64{math.Inf(1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := simplex.BuildStandardForm(tc.ub, tc.mu)
			require.ErrorIs(t, err, simplex.ErrInvalidProblemShape)
		})
	}
}

func TestBuildStandardForm_BoundaryBounds(t *testing.T) {
	_, err := simplex.BuildStandardForm([]float64{0, 1}, []float64{0.1, 0.2})
	require.NoError(t, err)
}
