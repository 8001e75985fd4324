// Package feature defines the output artifacts of informative-component
// selection: per-class result tables and the feature space that bundles them.
package feature

import (
	"featurespace/domain/core"
	"featurespace/domain/embedding"
)

// Feature is one significant component for one class.
// INVARIANTS:
// - PValue is the raw two-sided rank-sum p-value in (0,1)
// - PValueAdj < the significance threshold used to build the table
// - ExpVar is copied from the full explained-variance vector
// - CumExpVar is the running total of ExpVar in table order
type Feature struct {
	Component core.ComponentKey `json:"component"`
	PValue    float64           `json:"p_value"`
	PValueAdj float64           `json:"p_value_adj"`
	ExpVar    float64           `json:"exp_var"`
	CumExpVar float64           `json:"cum_exp_var"`
}

// Table is an ordered per-class result table: rows ascend by adjusted
// p-value, ties resolved by the filtered embedding's column order.
type Table []Feature

// Components returns the component keys in table order
func (t Table) Components() []core.ComponentKey {
	keys := make([]core.ComponentKey, len(t))
	for i, f := range t {
		keys[i] = f.Component
	}
	return keys
}

// TotalExpVar returns the cumulative explained variance of the whole table
func (t Table) TotalExpVar() float64 {
	if len(t) == 0 {
		return 0
	}
	return t[len(t)-1].CumExpVar
}

// Space is the feature-space artifact consumed by downstream training:
// the per-class tables, the variance vector actually used for testing, and
// the (possibly sanitized) label field the classes came from. Classes whose
// table ended up empty are never retained; their names are recorded in
// Dropped instead.
type Space struct {
	ID                core.SpaceID                `json:"id"`
	Tables            map[core.ClassName]Table    `json:"tables"`
	ExplainedVariance embedding.ExplainedVariance `json:"explained_variance"`
	LabelField        string                      `json:"label_field"`
	Dropped           []core.ClassName            `json:"dropped,omitempty"`
}

// Classes returns the class names present in the space, in level order as
// recorded at construction (the Tables map itself is unordered).
func (s *Space) Classes(levelOrder []core.ClassName) []core.ClassName {
	var out []core.ClassName
	for _, c := range levelOrder {
		if _, ok := s.Tables[c]; ok {
			out = append(out, c)
		}
	}
	return out
}
