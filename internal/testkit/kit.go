// Package testkit generates deterministic synthetic embeddings and labelings
// for tests: columns that cleanly separate one class from the rest, and
// columns that carry no signal at all.
package testkit

import (
	"fmt"
	"math/rand"

	"featurespace/domain/core"
	"featurespace/domain/embedding"
)

// Kit produces synthetic fixtures from a seeded generator
type Kit struct {
	rng *rand.Rand
}

// NewKit creates a kit with a fixed seed for reproducible fixtures
func NewKit(seed int64) *Kit {
	return &Kit{rng: rand.New(rand.NewSource(seed))}
}

// CellIDs returns n sequential cell identifiers
func CellIDs(n int) []core.CellID {
	ids := make([]core.CellID, n)
	for i := range ids {
		ids[i] = core.CellID(fmt.Sprintf("cell-%d", i+1))
	}
	return ids
}

// Labels returns perClass repetitions of each class, in class order
func Labels(classes []string, perClass int) []string {
	out := make([]string, 0, len(classes)*perClass)
	for _, c := range classes {
		for i := 0; i < perClass; i++ {
			out = append(out, c)
		}
	}
	return out
}

// SeparatedColumn returns one value per label: standard normal noise shifted
// by shift wherever the label equals positive. Large shifts make the column
// cleanly separable.
func (k *Kit) SeparatedColumn(labels []string, positive string, shift float64) []float64 {
	col := make([]float64, len(labels))
	for i, l := range labels {
		col[i] = k.rng.NormFloat64()
		if l == positive {
			col[i] += shift
		}
	}
	return col
}

// NoiseColumn returns standard normal noise carrying no class signal
func (k *Kit) NoiseColumn(n int) []float64 {
	col := make([]float64, n)
	for i := range col {
		col[i] = k.rng.NormFloat64()
	}
	return col
}

// ConstantColumn returns a degenerate column where every cell has the same
// value
func ConstantColumn(n int, value float64) []float64 {
	col := make([]float64, n)
	for i := range col {
		col[i] = value
	}
	return col
}

// BuildEmbedding assembles an embedding from named columns, preserving order
func BuildEmbedding(cellIDs []core.CellID, names []string, columns [][]float64) (*embedding.Embedding, error) {
	emb := embedding.New(cellIDs)
	for i, name := range names {
		if err := emb.AddColumn(core.ComponentKey(name), columns[i]); err != nil {
			return nil, err
		}
	}
	return emb, nil
}
