package core

import (
	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Use UUID v7 for time-ordered, sortable IDs
	// Falls back to v4 if v7 is not available (for compatibility)
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	// CellID identifies one observation (a cell) in the embedding
	CellID ID
	// ComponentKey names one embedding component, e.g. "PC1"
	ComponentKey ID
	// ClassName names one level of the categorical labeling
	ClassName ID
	// SpaceID identifies one computed feature space
	SpaceID ID
)

func (id CellID) String() string       { return ID(id).String() }
func (id ComponentKey) String() string { return ID(id).String() }
func (id ClassName) String() string    { return ID(id).String() }
func (id SpaceID) String() string      { return ID(id).String() }
