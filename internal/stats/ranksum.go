// Package stats implements the two statistical primitives of the selection
// pipeline: the two-sided Mann-Whitney/Wilcoxon rank-sum test and
// multiple-testing corrections over a family of p-values.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// RankSumResult holds the outcome of a two-sample rank-sum test
type RankSumResult struct {
	U          float64 // Mann-Whitney U statistic for the first sample
	Z          float64 // tie-corrected normal approximation statistic
	P          float64 // two-sided p-value
	N1         int
	N2         int
	Degenerate bool // true when the test preconditions failed and P fell back to 1.0
}

// RankSum compares the distributions of x and y with a two-sided
// Mann-Whitney/Wilcoxon rank-sum test. Ties receive mid-ranks and the normal
// approximation is tie-corrected with a continuity correction.
//
// Degenerate inputs never fail: an empty group, or a combined sample with
// zero rank variance (every value tied, e.g. a constant column), yields a
// defined non-significant result with P = 1.0.
func RankSum(x, y []float64) RankSumResult {
	n1, n2 := len(x), len(y)
	res := RankSumResult{N1: n1, N2: n2, P: 1.0}
	if n1 == 0 || n2 == 0 {
		res.Degenerate = true
		return res
	}

	n := n1 + n2
	combined := make([]float64, 0, n)
	combined = append(combined, x...)
	combined = append(combined, y...)
	ranks, tieTerm := midRanks(combined)

	// Rank sum of the first sample -> U statistic
	r1 := 0.0
	for i := 0; i < n1; i++ {
		r1 += ranks[i]
	}
	u1 := r1 - float64(n1)*float64(n1+1)/2
	res.U = u1

	// Tie-corrected variance of U under H0
	nn := float64(n)
	mu := float64(n1) * float64(n2) / 2
	variance := float64(n1) * float64(n2) / 12 * ((nn + 1) - tieTerm/(nn*(nn-1)))
	if variance <= 0 {
		// Every value tied: the test carries no information.
		res.Degenerate = true
		return res
	}

	// Continuity correction toward the mean
	diff := u1 - mu
	switch {
	case diff > 0:
		diff -= 0.5
	case diff < 0:
		diff += 0.5
	}
	z := diff / math.Sqrt(variance)
	res.Z = z

	p := 2 * distuv.UnitNormal.Survival(math.Abs(z))
	if p > 1 {
		p = 1
	}
	res.P = p
	return res
}

// midRanks assigns ranks to values with ties sharing the average rank of
// their block. It also returns the tie-correction term sum(t^3 - t) over all
// tie blocks, needed for the variance of the rank-sum statistic.
func midRanks(values []float64) (ranks []float64, tieTerm float64) {
	n := len(values)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	ranks = make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && values[idx[j+1]] == values[idx[i]] {
			j++
		}
		// Positions i..j share the mid-rank
		mid := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = mid
		}
		t := float64(j - i + 1)
		tieTerm += t*t*t - t
		i = j + 1
	}
	return ranks, tieTerm
}
