// Package memory provides in-memory adapters for the embedding and metadata
// collaborators. They are the simplest production sources and the primary
// test doubles.
package memory

import (
	"context"
	"sync"

	"featurespace/domain/embedding"
	"featurespace/internal/errors"
	"featurespace/ports"
)

// Source serves an embedding and its variance vector that are already in
// memory
type Source struct {
	emb *embedding.Embedding
	ev  embedding.ExplainedVariance
}

// NewSource creates an in-memory embedding source
func NewSource(emb *embedding.Embedding, ev embedding.ExplainedVariance) ports.EmbeddingSource {
	return &Source{emb: emb, ev: ev}
}

// Embedding returns the held score matrix
func (s *Source) Embedding(ctx context.Context) (*embedding.Embedding, error) {
	return s.emb, nil
}

// ExplainedVariance returns the held variance vector
func (s *Source) ExplainedVariance(ctx context.Context) (embedding.ExplainedVariance, error) {
	return s.ev, nil
}

// MetadataStore is a threadsafe in-memory per-cell metadata table
type MetadataStore struct {
	mu      sync.RWMutex
	columns map[string][]string
}

// NewMetadataStore creates an empty in-memory metadata store
func NewMetadataStore() *MetadataStore {
	return &MetadataStore{columns: make(map[string][]string)}
}

// Column returns one metadata field
func (m *MetadataStore) Column(ctx context.Context, field string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	values, ok := m.columns[field]
	if !ok {
		return nil, errors.NotFound("metadata field " + field)
	}
	out := make([]string, len(values))
	copy(out, values)
	return out, nil
}

// SetColumn creates or replaces a metadata field
func (m *MetadataStore) SetColumn(ctx context.Context, field string, values []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]string, len(values))
	copy(stored, values)
	m.columns[field] = stored
	return nil
}
