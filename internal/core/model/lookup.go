package model

import "github.com/agenthands/dtpr/internal/dataset"

// Lookup is a row of one of the reference tables (Purpose, Data Type, Data
// Process, Access, Technology Type).
type Lookup struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func NewLookup(r dataset.Record) Lookup {
	return Lookup{
		ID:          r.ID(),
		Name:        r.String(FieldName),
		Description: r.String(FieldDescription),
	}
}

// StorageEntry is a Storage row; PropertyType tells storage and retention
// answers apart.
type StorageEntry struct {
	Lookup
	PropertyType string `json:"property_type"`
}

func NewStorageEntry(r dataset.Record) StorageEntry {
	return StorageEntry{
		Lookup:       NewLookup(r),
		PropertyType: r.String(FieldPropertyType),
	}
}
