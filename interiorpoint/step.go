// SPDX-License-Identifier: MIT
package interiorpoint

// maxStep returns the largest α on the grid 1, 1−dec, 1−2dec, … with
// v_i + α·dv_i ≥ keep·v_i for every i, or 0 when no positive grid point qualifies.
//
// keep = 0 keeps v non-negative (affine step); keep = 1−τ keeps a fraction τ of the
// distance to the boundary (final step). The condition is linear in α and holds at
// α = 0, so the grid search is exact on its grid.
func maxStep(v, dv []float64, keep, dec float64) float64 {
	alpha := 1.0
	for alpha > 0 && violates(v, dv, keep, alpha) {
		alpha -= dec
	}
	if alpha < 0 {
		alpha = 0
	}

	return alpha
}

func violates(v, dv []float64, keep, alpha float64) bool {
	for i := range v {
		if v[i]+alpha*dv[i] < keep*v[i] {
			return true
		}
	}

	return false
}

// complementarity returns (v + α·dv)ᵀ(w + α·dw) / len(v).
func complementarity(v, dv, w, dw []float64, alpha float64) float64 {
	var s float64
	for i := range v {
		s += (v[i] + alpha*dv[i]) * (w[i] + alpha*dw[i])
	}

	return s / float64(len(v))
}
