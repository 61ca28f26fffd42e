// SPDX-License-Identifier: MIT
package interiorpoint_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/portopt/interiorpoint"
	"github.com/katalvlaran/portopt/matrix"
)

// ExampleSolver_Solve finds the minimum-variance mix of two uncorrelated assets
// when neither may exceed 60% of the portfolio.
func ExampleSolver_Solve() {
	A, b, c, err := interiorpoint.BuildBoundConstraints([]float64{0.6, 0.6})
	if err != nil {
		fmt.Println(err)
		return
	}
	cov, err := matrix.NewFromRows([][]float64{{0.04, 0}, {0, 0.09}})
	if err != nil {
		fmt.Println(err)
		return
	}
	s, err := interiorpoint.NewSolver(interiorpoint.Problem{S: cov, C: c, A: A, B: b})
	if err != nil {
		fmt.Println(err)
		return
	}
	res, err := s.Solve(context.Background())
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(res.Status)
	fmt.Printf("weights: %.3f %.3f\n", res.X[0], res.X[1])
	// Output:
	// converged
	// weights: 0.600 0.400
}
