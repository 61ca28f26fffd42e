// Package matrix_test provides benchmarks for the solver-facing kernels,
// using deterministic random fill for Dense matrices.
package matrix_test

import (
	"fmt"
	"testing"

	"github.com/katalvlaran/portopt/matrix"
)

// benchSizes are the matrix sizes to benchmark.
var benchSizes = []int{32, 64, 128}

// sinks to defeat dead-code elimination
var (
	sinkM *matrix.Dense
	sinkV []float64
)

func BenchmarkMul(b *testing.B) {
	b.ReportAllocs()
	for _, n := range benchSizes {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			A := mustDense(b, n, n)
			B := mustDense(b, n, n)
			fillDenseRand(b, A, 1337)
			fillDenseRand(b, B, 4242)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				m, err := matrix.Mul(A, B)
				if err != nil {
					b.Fatal(err)
				}
				sinkM = m
			}
		})
	}
}

func BenchmarkSolve(b *testing.B) {
	b.ReportAllocs()
	for _, n := range benchSizes {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			A := mustDense(b, n, n)
			fillDenseRand(b, A, 99)
			for k := 0; k < n; k++ {
				v, _ := A.At(k, k)
				_ = A.Set(k, k, v+float64(n))
			}
			rhs := make([]float64, n)
			for k := range rhs {
				rhs[k] = 1
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				x, err := matrix.Solve(A, rhs)
				if err != nil {
					b.Fatal(err)
				}
				sinkV = x
			}
		})
	}
}

func BenchmarkCovariance(b *testing.B) {
	b.ReportAllocs()
	X := mustDense(b, 252, 16)
	fillDenseRand(b, X, 7)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cov, _, err := matrix.Covariance(X)
		if err != nil {
			b.Fatal(err)
		}
		sinkM = cov
	}
}
