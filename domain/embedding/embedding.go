package embedding

import (
	"fmt"

	"featurespace/domain/core"
)

// Embedding is the canonical input for feature selection: a dense matrix of
// low-dimensional coordinates with rows = cells and columns = named components.
type Embedding struct {
	Data       [][]float64         // rows=cells, cols=components
	CellIDs    []core.CellID       // row identifiers
	Components []core.ComponentKey // column keys, unique
}

// New creates an empty embedding ready for AddColumn
func New(cellIDs []core.CellID) *Embedding {
	data := make([][]float64, len(cellIDs))
	for i := range data {
		data[i] = make([]float64, 0, 4)
	}
	return &Embedding{
		Data:    data,
		CellIDs: cellIDs,
	}
}

// AddColumn appends a component column to the embedding
func (e *Embedding) AddColumn(key core.ComponentKey, values []float64) error {
	if len(values) != len(e.Data) {
		return core.NewDataShapeError(
			fmt.Sprintf("column %q has %d values, embedding has %d rows", key, len(values), len(e.Data)))
	}
	for i, v := range values {
		e.Data[i] = append(e.Data[i], v)
	}
	e.Components = append(e.Components, key)
	return nil
}

// Validate ensures the embedding is internally consistent
func (e *Embedding) Validate() error {
	if len(e.Data) == 0 {
		return core.ErrEmptyMatrix
	}
	if len(e.CellIDs) != len(e.Data) {
		return core.NewDataShapeError(
			fmt.Sprintf("%d cell IDs for %d rows", len(e.CellIDs), len(e.Data)))
	}
	cols := len(e.Components)
	for i, row := range e.Data {
		if len(row) != cols {
			return fmt.Errorf("%w: row %d has %d columns, expected %d", core.ErrRaggedMatrix, i, len(row), cols)
		}
	}
	seen := make(map[core.ComponentKey]struct{}, cols)
	for _, key := range e.Components {
		if _, dup := seen[key]; dup {
			return core.NewDataShapeError(fmt.Sprintf("duplicate component %q", key))
		}
		seen[key] = struct{}{}
	}
	return nil
}

// ColumnIndex returns the column position for a component key
func (e *Embedding) ColumnIndex(key core.ComponentKey) (int, bool) {
	for i, k := range e.Components {
		if k == key {
			return i, true
		}
	}
	return -1, false
}

// Column returns a copy of one component's values across all cells
func (e *Embedding) Column(key core.ComponentKey) ([]float64, bool) {
	idx, ok := e.ColumnIndex(key)
	if !ok {
		return nil, false
	}
	values := make([]float64, len(e.Data))
	for i, row := range e.Data {
		values[i] = row[idx]
	}
	return values, true
}

// Select returns a new embedding restricted to the given components,
// preserving the receiver's column order for the keys that exist.
func (e *Embedding) Select(keys []core.ComponentKey) (*Embedding, error) {
	wanted := make(map[core.ComponentKey]struct{}, len(keys))
	for _, k := range keys {
		wanted[k] = struct{}{}
	}

	out := New(e.CellIDs)
	for _, key := range e.Components {
		if _, ok := wanted[key]; !ok {
			continue
		}
		col, _ := e.Column(key)
		if err := out.AddColumn(key, col); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// RowCount returns the number of cells (rows)
func (e *Embedding) RowCount() int {
	return len(e.Data)
}

// ComponentCount returns the number of components (columns)
func (e *Embedding) ComponentCount() int {
	return len(e.Components)
}
