// SPDX-License-Identifier: MIT
package interiorpoint

import (
	"testing"

	"github.com/katalvlaran/portopt/matrix"
	"github.com/stretchr/testify/require"
)

func TestKKTSolveOnceMatchesFactoredSolve(t *testing.T) {
	S, err := matrix.NewFromRows([][]float64{{0.04, 0.01}, {0.01, 0.09}})
	require.NoError(t, err)
	A, b, c, err := BuildBoundConstraints([]float64{0.6, 0.6})
	require.NoError(t, err)
	p, err := Problem{S: S, C: c, A: A, B: b}.validate()
	require.NoError(t, err)

	sys, err := newKKT(p)
	require.NoError(t, err)
	y, l := []float64{0.3, 0.5, 2}, []float64{0.6, 1, 0.1}
	rd, rp, r3 := []float64{0.1, -0.2}, []float64{0.3, 0, -1}, []float64{-0.18, -0.5, -0.2}

	lu := sys.lu.String()
	dx1, dy1, dl1, err := sys.solveOnce(y, l, rd, rp, r3)
	require.NoError(t, err)
	require.Equal(t, lu, sys.lu.String())
	once := append(append(append([]float64(nil), dx1...), dy1...), dl1...)

	require.NoError(t, sys.factor(y, l))
	dx2, dy2, dl2, err := sys.solve(rd, rp, r3)
	require.NoError(t, err)
	require.InDeltaSlice(t, once[:2], dx2, 1e-12)
	require.InDeltaSlice(t, once[2:5], dy2, 1e-12)
	require.InDeltaSlice(t, once[5:], dl2, 1e-12)

	// The assembled system times the solution reproduces the right-hand side.
	back, err := matrix.MatVec(sys.k, once)
	require.NoError(t, err)
	want := []float64{-0.1, 0.2, -0.3, 0, 1, -0.18, -0.5, -0.2}
	require.InDeltaSlice(t, want, back, 1e-12)
}
