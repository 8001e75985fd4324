// Package postgres implements the labeling collaborator over a cell-metadata
// table. Only the MetadataStore port is served here; the embedding itself
// and any wider object model stay with their own collaborators.
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver

	"featurespace/internal/errors"
	"featurespace/ports"
)

// Connect opens a postgres connection pool for the metadata store
func Connect(databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to postgres")
	}
	return db, nil
}

// metadataStore implements ports.MetadataStore over one table holding
// (field, cell_index, value) triples.
type metadataStore struct {
	db    *sqlx.DB
	table string
}

// NewMetadataStore creates a metadata store over the given table
func NewMetadataStore(db *sqlx.DB, table string) ports.MetadataStore {
	if table == "" {
		table = "cell_metadata"
	}
	return &metadataStore{db: db, table: table}
}

// Column returns one metadata field ordered by cell index
func (s *metadataStore) Column(ctx context.Context, field string) ([]string, error) {
	query := fmt.Sprintf(
		`SELECT value FROM %s WHERE field = $1 ORDER BY cell_index`, s.table)

	var values []string
	if err := s.db.SelectContext(ctx, &values, query, field); err != nil {
		return nil, errors.Wrapf(err, "failed to read metadata field %q", field)
	}
	if len(values) == 0 {
		return nil, errors.NotFound(fmt.Sprintf("metadata field %q", field))
	}
	return values, nil
}

// SetColumn replaces one metadata field atomically
func (s *metadataStore) SetColumn(ctx context.Context, field string, values []string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin metadata transaction")
	}
	defer tx.Rollback()

	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE field = $1`, s.table)
	if _, err := tx.ExecContext(ctx, deleteQuery, field); err != nil {
		return errors.Wrapf(err, "failed to clear metadata field %q", field)
	}

	insertQuery := fmt.Sprintf(
		`INSERT INTO %s (field, cell_index, value) VALUES ($1, $2, $3)`, s.table)
	for i, v := range values {
		if _, err := tx.ExecContext(ctx, insertQuery, field, i, v); err != nil {
			return errors.Wrapf(err, "failed to write metadata field %q row %d", field, i)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit metadata transaction")
	}
	return nil
}
