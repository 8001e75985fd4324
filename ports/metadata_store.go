package ports

import (
	"context"
)

// MetadataStore is the labeling collaborator: a tabular per-cell metadata
// store addressed by field name. The selection service reads the label field
// from it and, when sanitization rewrites the labeling, writes the repaired
// labels back under "<field>.valid".
type MetadataStore interface {
	// Column returns one metadata field as strings, one value per cell
	Column(ctx context.Context, field string) ([]string, error)

	// SetColumn creates or replaces a metadata field
	SetColumn(ctx context.Context, field string, values []string) error
}
