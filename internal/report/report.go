// Package report renders a computed feature space as a human-readable
// summary, the diagnostic surface of the pipeline. Markdown is the canonical
// format; HTML is derived from it for embedding in dashboards.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	mstats "github.com/montanaflynn/stats"

	"featurespace/domain/core"
	"featurespace/domain/feature"
)

// Markdown renders the feature space as a Markdown document. Classes are
// listed in lexicographic order so the output is deterministic.
func Markdown(space *feature.Space) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Feature space %s\n\n", space.ID)
	fmt.Fprintf(&b, "Label field: `%s`\n\n", space.LabelField)
	fmt.Fprintf(&b, "Components tested: %d\n\n", space.ExplainedVariance.Len())

	classes := make([]core.ClassName, 0, len(space.Tables))
	for c := range space.Tables {
		classes = append(classes, c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })

	for _, class := range classes {
		table := space.Tables[class]
		fmt.Fprintf(&b, "## %s\n\n", class)
		writeSummary(&b, table)
		b.WriteString("| component | pValue | pValueAdj | expVar | cumExpVar |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, f := range table {
			fmt.Fprintf(&b, "| %s | %.4g | %.4g | %.4f | %.4f |\n",
				f.Component, f.PValue, f.PValueAdj, f.ExpVar, f.CumExpVar)
		}
		b.WriteString("\n")
	}

	if len(space.Dropped) > 0 {
		b.WriteString("## Dropped classes\n\n")
		b.WriteString("No significant components were found for:\n\n")
		for _, class := range space.Dropped {
			fmt.Fprintf(&b, "- %s\n", class)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// writeSummary emits a one-line summary of the table's adjusted p-values and
// captured variance
func writeSummary(b *strings.Builder, table feature.Table) {
	adj := make([]float64, len(table))
	for i, f := range table {
		adj[i] = f.PValueAdj
	}
	medianAdj, err := mstats.Median(adj)
	if err != nil {
		medianAdj = 0
	}
	fmt.Fprintf(b, "%d significant component(s), median adjusted p-value %.4g, cumulative explained variance %.4f.\n\n",
		len(table), medianAdj, table.TotalExpVar())
}

// HTML renders the feature space as an HTML fragment
func HTML(space *feature.Space) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	doc := p.Parse([]byte(Markdown(space)))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, renderer)
}
