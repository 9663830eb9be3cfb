// JSON record structures for the JSONL data files. These mirror the on-disk
// line format; timestamps stay RFC 3339 strings and nested values stay
// untyped so unknown fields from other generations round-trip safely.
package catalog

// propertyTypeJSONL represents one line of property_types.jsonl.
type propertyTypeJSONL struct {
	ID         int            `json:"id"`
	Name       string         `json:"name"`
	Kind       string         `json:"kind"`
	Definition map[string]any `json:"definition"`
	CreatedAt  string         `json:"created_at"`
	UpdatedAt  string         `json:"updated_at"`
}

// objectTypeJSONL represents one line of object_types.jsonl.
type objectTypeJSONL struct {
	Name       string `json:"name"`
	Color      string `json:"color,omitempty"`
	Properties []any  `json:"properties"`
}

// revisionJSONL represents one line of revisions.jsonl.
type revisionJSONL struct {
	RevisionID string         `json:"revision_id"`
	Entity     string         `json:"entity"`
	Ref        string         `json:"ref"`
	Action     string         `json:"action"`
	Snapshot   map[string]any `json:"snapshot,omitempty"`
	CreatedAt  string         `json:"created_at"`
}
