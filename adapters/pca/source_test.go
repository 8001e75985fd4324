package pca

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"featurespace/domain/core"
	"featurespace/internal/testkit"
)

func TestSource_FitProducesNamedComponents(t *testing.T) {
	vectors := [][]float64{
		{0, 0, 0},
		{1, 0.1, 0},
		{2, 0, 0.1},
		{3, 0.1, 0.1},
		{4, 0, 0},
	}
	src := NewSource(testkit.CellIDs(5), vectors, 2)

	emb, err := src.Embedding(context.Background())
	require.NoError(t, err)
	require.NoError(t, emb.Validate())
	assert.Equal(t, 5, emb.RowCount())
	assert.Equal(t, []core.ComponentKey{"PC1", "PC2"}, emb.Components)

	ev, err := src.ExplainedVariance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []core.ComponentKey{"PC1", "PC2"}, ev.Components)

	f1, ok := ev.Fraction("PC1")
	require.True(t, ok)
	f2, ok := ev.Fraction("PC2")
	require.True(t, ok)

	// Almost all variance lies along the first axis.
	assert.Greater(t, f1, f2)
	assert.Greater(t, f1, 0.9)
	assert.LessOrEqual(t, f1+f2, 1.0+1e-9)
}

func TestSource_PerfectLineConcentratesVariance(t *testing.T) {
	vectors := [][]float64{{0, 0}, {1, 2}, {2, 4}, {3, 6}}
	src := NewSource(testkit.CellIDs(4), vectors, 2)

	ev, err := src.ExplainedVariance(context.Background())
	require.NoError(t, err)

	f1, _ := ev.Fraction("PC1")
	f2, _ := ev.Fraction("PC2")
	assert.InDelta(t, 1.0, f1, 1e-9)
	assert.InDelta(t, 0.0, f2, 1e-9)
}

func TestSource_InvalidInputs(t *testing.T) {
	t.Run("no vectors", func(t *testing.T) {
		src := NewSource(nil, nil, 1)
		_, err := src.Embedding(context.Background())
		assert.Error(t, err)
	})

	t.Run("component count exceeds dimensions", func(t *testing.T) {
		src := NewSource(testkit.CellIDs(3), [][]float64{{1, 2}, {3, 4}, {5, 6}}, 5)
		_, err := src.Embedding(context.Background())
		assert.Error(t, err)
	})

	t.Run("cell id count mismatch", func(t *testing.T) {
		src := NewSource(testkit.CellIDs(2), [][]float64{{1, 2}, {3, 4}, {5, 6}}, 1)
		_, err := src.Embedding(context.Background())
		assert.Error(t, err)
	})

	t.Run("ragged vectors", func(t *testing.T) {
		src := NewSource(testkit.CellIDs(2), [][]float64{{1, 2}, {3}}, 1)
		_, err := src.Embedding(context.Background())
		assert.Error(t, err)
	})
}

func TestSource_FitIsCached(t *testing.T) {
	vectors := [][]float64{{0, 0}, {1, 1}, {2, 0}, {0, 2}}
	src := NewSource(testkit.CellIDs(4), vectors, 2)

	first, err := src.Embedding(context.Background())
	require.NoError(t, err)
	second, err := src.Embedding(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
}
