package excel

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"featurespace/domain/core"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "scores"))
	scoreRows := [][]interface{}{
		{"cell", "PC1", "PC2"},
		{"cell-1", 1.0, 0.5},
		{"cell-2", 2.0, 0.25},
		{"cell-3", 3.5, 0.75},
	}
	for i, row := range scoreRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("scores", cell, &row))
	}

	_, err := f.NewSheet("variance")
	require.NoError(t, err)
	varianceRows := [][]interface{}{
		{"PC1", 0.4},
		{"PC2", 0.2},
	}
	for i, row := range varianceRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("variance", cell, &row))
	}

	path := filepath.Join(t.TempDir(), "embedding.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestSource_ReadsWorkbook(t *testing.T) {
	src := NewSource(Config{FilePath: writeWorkbook(t)})
	ctx := context.Background()

	emb, err := src.Embedding(ctx)
	require.NoError(t, err)
	require.NoError(t, emb.Validate())

	assert.Equal(t, 3, emb.RowCount())
	assert.Equal(t, []core.ComponentKey{"PC1", "PC2"}, emb.Components)
	assert.Equal(t, core.CellID("cell-2"), emb.CellIDs[1])

	col, ok := emb.Column("PC1")
	require.True(t, ok)
	assert.Equal(t, []float64{1, 2, 3.5}, col)

	ev, err := src.ExplainedVariance(ctx)
	require.NoError(t, err)
	f1, ok := ev.Fraction("PC1")
	require.True(t, ok)
	assert.Equal(t, 0.4, f1)
}

func TestSource_MissingFile(t *testing.T) {
	src := NewSource(Config{FilePath: filepath.Join(t.TempDir(), "absent.xlsx")})
	_, err := src.Embedding(context.Background())
	assert.Error(t, err)
}
