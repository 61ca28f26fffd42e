// SPDX-License-Identifier: MIT
package simplex

import "math/rand"

// defaultRNGSeed is the fixed stream used when callers pass seed==0.
const defaultRNGSeed int64 = 1

// rngFromSeed returns a deterministic *rand.Rand.
// Policy: seed==0 ⇒ use defaultRNGSeed; otherwise use the provided seed verbatim.
func rngFromSeed(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultRNGSeed
	}

	return rand.New(rand.NewSource(seed))
}

// Ordering is the seeded column permutation behind the RoundRobin and Random rules,
// together with the cursor and random stream those rules advance.
//
// An Ordering is mutable state: give each Solver its own.
type Ordering struct {
	perm   []int
	cursor int
	rng    *rand.Rand
}

// NewOrdering returns a permutation of 0..n-1 drawn by Fisher–Yates from seed.
// The same (n, seed) always yields the same permutation and the same later draws.
func NewOrdering(n int, seed int64) (*Ordering, error) {
	if n <= 0 {
		return nil, simplexErrorf(opNewOrdering, ErrInvalidOption)
	}
	rng := rngFromSeed(seed)
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	var i, j int
	for i = n - 1; i > 0; i-- {
		j = rng.Intn(i + 1)
		p[i], p[j] = p[j], p[i]
	}

	return &Ordering{perm: p, rng: rng}, nil
}

// Len returns the permutation length.
func (o *Ordering) Len() int { return len(o.perm) }

// Perm returns a copy of the permutation.
func (o *Ordering) Perm() []int {
	out := make([]int, len(o.perm))
	copy(out, o.perm)

	return out
}

// nextEligible scans from the cursor and returns the first eligible column,
// moving the cursor just past it. Returns -1 when nothing is eligible.
func (o *Ordering) nextEligible(eligible []bool) int {
	n := len(o.perm)
	var s, pos, j int
	for s = 0; s < n; s++ {
		pos = (o.cursor + s) % n
		j = o.perm[pos]
		if eligible[j] {
			o.cursor = (pos + 1) % n
			return j
		}
	}

	return -1
}

// drawEligible picks uniformly among eligible columns taken in permutation order.
// buf is scratch space of capacity ≥ n. Returns -1 when nothing is eligible.
func (o *Ordering) drawEligible(eligible []bool, buf []int) int {
	cand := buf[:0]
	for _, j := range o.perm {
		if eligible[j] {
			cand = append(cand, j)
		}
	}
	if len(cand) == 0 {
		return -1
	}

	return cand[o.rng.Intn(len(cand))]
}
