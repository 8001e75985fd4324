package embedding

import (
	"fmt"

	"featurespace/domain/core"
)

// ExplainedVariance maps each component of the full embedding to the fraction
// of total variance it explains. Component order is preserved because the
// downstream ranking stage breaks p-value ties by original column order.
type ExplainedVariance struct {
	Components []core.ComponentKey
	Fractions  map[core.ComponentKey]float64
}

// NewExplainedVariance builds an ordered variance vector. One fraction per
// component, each in [0,1].
func NewExplainedVariance(components []core.ComponentKey, fractions []float64) (ExplainedVariance, error) {
	if len(components) != len(fractions) {
		return ExplainedVariance{}, core.NewDataShapeError(
			fmt.Sprintf("%d components for %d variance fractions", len(components), len(fractions)))
	}
	ev := ExplainedVariance{
		Components: make([]core.ComponentKey, len(components)),
		Fractions:  make(map[core.ComponentKey]float64, len(components)),
	}
	copy(ev.Components, components)
	for i, key := range components {
		f := fractions[i]
		if f < 0 || f > 1 {
			return ExplainedVariance{}, core.NewDataShapeError(
				fmt.Sprintf("variance fraction for %q out of [0,1]: %g", key, f))
		}
		if _, dup := ev.Fractions[key]; dup {
			return ExplainedVariance{}, core.NewDataShapeError(fmt.Sprintf("duplicate component %q", key))
		}
		ev.Fractions[key] = f
	}
	return ev, nil
}

// Fraction looks up the explained-variance fraction for a component
func (ev ExplainedVariance) Fraction(key core.ComponentKey) (float64, bool) {
	f, ok := ev.Fractions[key]
	return f, ok
}

// Len returns the number of components covered
func (ev ExplainedVariance) Len() int {
	return len(ev.Components)
}

// IsEmpty reports whether no variance information is present
func (ev ExplainedVariance) IsEmpty() bool {
	return len(ev.Components) == 0
}

// Subset returns the variance vector restricted to the given keys,
// preserving the receiver's component order.
func (ev ExplainedVariance) Subset(keys []core.ComponentKey) ExplainedVariance {
	wanted := make(map[core.ComponentKey]struct{}, len(keys))
	for _, k := range keys {
		wanted[k] = struct{}{}
	}
	out := ExplainedVariance{Fractions: make(map[core.ComponentKey]float64, len(keys))}
	for _, key := range ev.Components {
		if _, ok := wanted[key]; !ok {
			continue
		}
		out.Components = append(out.Components, key)
		out.Fractions[key] = ev.Fractions[key]
	}
	return out
}

// FilterByVariance retains only the components whose explained-variance
// fraction strictly exceeds threshold. It returns the filtered embedding and
// the matching subset of the variance vector. An absent variance vector is a
// configuration error: the embedding source provides no variance
// decomposition, which must be surfaced rather than silently defaulted.
func FilterByVariance(emb *Embedding, ev ExplainedVariance, threshold float64) (*Embedding, ExplainedVariance, error) {
	if ev.IsEmpty() {
		return nil, ExplainedVariance{}, core.ErrNoVarianceInfo
	}

	var retained []core.ComponentKey
	for _, key := range emb.Components {
		f, ok := ev.Fraction(key)
		if !ok {
			return nil, ExplainedVariance{}, core.NewConfigurationError(
				fmt.Sprintf("component %q has no explained-variance entry", key))
		}
		if f > threshold {
			retained = append(retained, key)
		}
	}

	filtered, err := emb.Select(retained)
	if err != nil {
		return nil, ExplainedVariance{}, err
	}
	return filtered, ev.Subset(retained), nil
}
