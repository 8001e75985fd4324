package ports

import (
	"context"

	"featurespace/domain/embedding"
)

// EmbeddingSource is the upstream collaborator that produced the
// low-dimensional embedding. The core never branches on the concrete source;
// every container convention gets its own adapter behind this interface.
type EmbeddingSource interface {
	// Embedding returns the cells-by-components score matrix
	Embedding(ctx context.Context) (*embedding.Embedding, error)

	// ExplainedVariance returns the per-component variance fractions for the
	// full embedding, in component order
	ExplainedVariance(ctx context.Context) (embedding.ExplainedVariance, error)
}
