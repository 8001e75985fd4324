package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"featurespace/domain/core"
	"featurespace/domain/embedding"
	"featurespace/domain/feature"
)

func sampleSpace(t *testing.T) *feature.Space {
	t.Helper()
	ev, err := embedding.NewExplainedVariance(
		[]core.ComponentKey{"PC1", "PC2"}, []float64{0.4, 0.2})
	require.NoError(t, err)

	return &feature.Space{
		ID: core.SpaceID("space-1"),
		Tables: map[core.ClassName]feature.Table{
			"B": {
				{Component: "PC1", PValue: 0.001, PValueAdj: 0.002, ExpVar: 0.4, CumExpVar: 0.4},
				{Component: "PC2", PValue: 0.01, PValueAdj: 0.02, ExpVar: 0.2, CumExpVar: 0.6},
			},
			"A": {
				{Component: "PC2", PValue: 0.004, PValueAdj: 0.008, ExpVar: 0.2, CumExpVar: 0.2},
			},
		},
		ExplainedVariance: ev,
		LabelField:        "cell_type",
		Dropped:           []core.ClassName{"C"},
	}
}

func TestMarkdown_ContainsTablesAndDiagnostics(t *testing.T) {
	md := Markdown(sampleSpace(t))

	assert.Contains(t, md, "## A")
	assert.Contains(t, md, "## B")
	assert.Contains(t, md, "| PC1 |")
	assert.Contains(t, md, "`cell_type`")
	assert.Contains(t, md, "## Dropped classes")
	assert.Contains(t, md, "- C")

	// Classes render in lexicographic order for deterministic output.
	assert.Less(t, strings.Index(md, "## A"), strings.Index(md, "## B"))
}

func TestMarkdown_Deterministic(t *testing.T) {
	space := sampleSpace(t)
	assert.Equal(t, Markdown(space), Markdown(space))
}

func TestHTML_RendersTables(t *testing.T) {
	out := string(HTML(sampleSpace(t)))
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "PC1")
	assert.Contains(t, out, "<h2")
}
