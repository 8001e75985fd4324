package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"featurespace/domain/core"
)

func buildEmbedding(t *testing.T, names []string, cols [][]float64) *Embedding {
	t.Helper()
	n := len(cols[0])
	ids := make([]core.CellID, n)
	for i := range ids {
		ids[i] = core.CellID(string(rune('a' + i)))
	}
	emb := New(ids)
	for i, name := range names {
		require.NoError(t, emb.AddColumn(core.ComponentKey(name), cols[i]))
	}
	return emb
}

func TestNewExplainedVariance_Validation(t *testing.T) {
	_, err := NewExplainedVariance([]core.ComponentKey{"PC1"}, []float64{0.4, 0.2})
	assert.ErrorIs(t, err, core.ErrDataShape)

	_, err = NewExplainedVariance([]core.ComponentKey{"PC1"}, []float64{1.4})
	assert.ErrorIs(t, err, core.ErrDataShape)

	_, err = NewExplainedVariance([]core.ComponentKey{"PC1", "PC1"}, []float64{0.4, 0.2})
	assert.ErrorIs(t, err, core.ErrDataShape)
}

func TestFilterByVariance_StrictThreshold(t *testing.T) {
	emb := buildEmbedding(t, []string{"PC1", "PC2", "PC3"}, [][]float64{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	})
	ev, err := NewExplainedVariance(
		[]core.ComponentKey{"PC1", "PC2", "PC3"},
		[]float64{0.4, 0.01, 0.005},
	)
	require.NoError(t, err)

	filtered, filteredEV, err := FilterByVariance(emb, ev, 0.01)
	require.NoError(t, err)

	// Strictly greater than the threshold: 0.01 itself is excluded.
	assert.Equal(t, []core.ComponentKey{"PC1"}, filtered.Components)
	assert.Equal(t, []core.ComponentKey{"PC1"}, filteredEV.Components)
	col, ok := filtered.Column("PC1")
	require.True(t, ok)
	assert.Equal(t, []float64{1, 4, 7}, col)
}

func TestFilterByVariance_NoVarianceInfo(t *testing.T) {
	emb := buildEmbedding(t, []string{"PC1"}, [][]float64{{1, 2}})

	_, _, err := FilterByVariance(emb, ExplainedVariance{}, 0.01)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNoVarianceInfo)
	assert.ErrorIs(t, err, core.ErrConfiguration)
}

func TestFilterByVariance_MissingComponentEntry(t *testing.T) {
	emb := buildEmbedding(t, []string{"PC1", "PC2"}, [][]float64{{1, 2}, {3, 4}})
	ev, err := NewExplainedVariance([]core.ComponentKey{"PC1"}, []float64{0.4})
	require.NoError(t, err)

	_, _, err = FilterByVariance(emb, ev, 0.01)
	assert.ErrorIs(t, err, core.ErrConfiguration)
}

func TestSubset_PreservesOrder(t *testing.T) {
	ev, err := NewExplainedVariance(
		[]core.ComponentKey{"PC1", "PC2", "PC3"},
		[]float64{0.5, 0.3, 0.1},
	)
	require.NoError(t, err)

	sub := ev.Subset([]core.ComponentKey{"PC3", "PC1"})
	assert.Equal(t, []core.ComponentKey{"PC1", "PC3"}, sub.Components)
	f, ok := sub.Fraction("PC3")
	require.True(t, ok)
	assert.Equal(t, 0.1, f)
}

func TestEmbedding_Validate(t *testing.T) {
	emb := buildEmbedding(t, []string{"PC1", "PC2"}, [][]float64{{1, 2}, {3, 4}})
	require.NoError(t, emb.Validate())

	// Ragged row
	emb.Data[1] = emb.Data[1][:1]
	assert.ErrorIs(t, emb.Validate(), core.ErrRaggedMatrix)
}

func TestEmbedding_ValidateDuplicateComponent(t *testing.T) {
	emb := New(CellIDs(2))
	require.NoError(t, emb.AddColumn("PC1", []float64{1, 2}))
	emb.Components = append(emb.Components, "PC1")
	emb.Data[0] = append(emb.Data[0], 0)
	emb.Data[1] = append(emb.Data[1], 0)
	assert.ErrorIs(t, emb.Validate(), core.ErrDataShape)
}

func TestEmbedding_AddColumnLengthMismatch(t *testing.T) {
	emb := New(CellIDs(3))
	err := emb.AddColumn("PC1", []float64{1, 2})
	assert.ErrorIs(t, err, core.ErrDataShape)
}

func TestEmbedding_SelectKeepsColumnOrder(t *testing.T) {
	emb := buildEmbedding(t, []string{"PC1", "PC2", "PC3"}, [][]float64{
		{1, 2}, {3, 4}, {5, 6},
	})

	sel, err := emb.Select([]core.ComponentKey{"PC3", "PC1"})
	require.NoError(t, err)
	assert.Equal(t, []core.ComponentKey{"PC1", "PC3"}, sel.Components)
	assert.Equal(t, 2, sel.RowCount())
}

// CellIDs builds short row identifiers for tests in this package
func CellIDs(n int) []core.CellID {
	ids := make([]core.CellID, n)
	for i := range ids {
		ids[i] = core.CellID(string(rune('a' + i)))
	}
	return ids
}
