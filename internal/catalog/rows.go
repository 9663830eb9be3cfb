// Row structs returned by the catalog tables. These are storage-level
// entities; conversion to and from pkg/properties values happens in the
// callers, keeping the catalog free of interchange logic.
package catalog

import "time"

// PropertyTypeRow is a stored property-type definition. Definition holds the
// full interchange record (id, name, type, and the kind-specific fields) as
// produced by the type's variant encoding, so a catalog can be rebuilt into
// a registry without consulting the other columns.
type PropertyTypeRow struct {
	ID         int
	Name       string
	Kind       string
	Definition map[string]any
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ObjectTypeRow is a stored object type: a named bundle of default
// properties, keyed by name. Properties holds exported property records
// (name, type, value, and optionally propertyType).
type ObjectTypeRow struct {
	Name       string
	Color      string
	Properties []any
}

// Revision is one entry in the catalog's change history. Snapshot holds the
// definition as of the action, or the last definition for deletes.
type Revision struct {
	RevisionID string
	Entity     string
	Ref        string
	Action     string
	Snapshot   map[string]any
	CreatedAt  time.Time
}
