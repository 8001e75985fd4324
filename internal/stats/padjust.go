package stats

import (
	"fmt"
	"sort"

	"featurespace/domain/core"
)

// Correction names a multiple-testing correction method
type Correction string

const (
	CorrectionFDR        Correction = "fdr" // Benjamini-Hochberg, the default
	CorrectionBH         Correction = "BH"  // alias of fdr
	CorrectionBY         Correction = "BY"  // Benjamini-Yekutieli
	CorrectionHolm       Correction = "holm"
	CorrectionHochberg   Correction = "hochberg"
	CorrectionBonferroni Correction = "bonferroni"
	CorrectionNone       Correction = "none"
)

// ValidCorrection reports whether method names a supported correction
func ValidCorrection(method Correction) bool {
	switch method {
	case CorrectionFDR, CorrectionBH, CorrectionBY,
		CorrectionHolm, CorrectionHochberg, CorrectionBonferroni, CorrectionNone:
		return true
	}
	return false
}

// AdjustPValues applies the named multiple-testing correction across the
// family of p-values. The family size is len(p): the denominator is the
// number of tested components, never a larger universe. Adjusted values are
// returned in the input order, each clamped to at most 1.
func AdjustPValues(p []float64, method Correction) ([]float64, error) {
	if !ValidCorrection(method) {
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownCorrection, method)
	}
	m := len(p)
	if m == 0 {
		return []float64{}, nil
	}

	adjusted := make([]float64, m)
	switch method {
	case CorrectionNone:
		copy(adjusted, p)

	case CorrectionBonferroni:
		for i, v := range p {
			adjusted[i] = clamp1(v * float64(m))
		}

	case CorrectionHolm:
		// Step-down: running maximum of (m-rank+1)*p over ascending ranks.
		order := ascendingOrder(p)
		running := 0.0
		for rank, i := range order {
			v := clamp1(p[i] * float64(m-rank))
			if v < running {
				v = running
			}
			running = v
			adjusted[i] = v
		}

	case CorrectionHochberg:
		// Step-up: running minimum of (m-rank+1)*p over descending ranks.
		order := ascendingOrder(p)
		running := 1.0
		for rank := m - 1; rank >= 0; rank-- {
			i := order[rank]
			v := clamp1(p[i] * float64(m-rank))
			if v > running {
				v = running
			}
			running = v
			adjusted[i] = v
		}

	case CorrectionFDR, CorrectionBH, CorrectionBY:
		scale := 1.0
		if method == CorrectionBY {
			scale = 0
			for i := 1; i <= m; i++ {
				scale += 1 / float64(i)
			}
		}
		order := ascendingOrder(p)
		running := 1.0
		for rank := m - 1; rank >= 0; rank-- {
			i := order[rank]
			v := clamp1(p[i] * scale * float64(m) / float64(rank+1))
			if v > running {
				v = running
			}
			running = v
			adjusted[i] = v
		}
	}

	return adjusted, nil
}

// ascendingOrder returns the index permutation that sorts p ascending.
// The sort is stable so that equal p-values keep their input order.
func ascendingOrder(p []float64) []int {
	order := make([]int, len(p))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return p[order[a]] < p[order[b]] })
	return order
}

func clamp1(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
