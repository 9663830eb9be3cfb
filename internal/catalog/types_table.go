// Table accessor for stored property-type definitions.
package catalog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"time"
)

var _ Table = (*propertyTypesTable)(nil)

type propertyTypesTable struct {
	backend *Backend
}

// parseTypeID converts a table ID string into the numeric property-type id.
func parseTypeID(id string) (int, error) {
	n, err := strconv.Atoi(id)
	if err != nil || n <= 0 {
		return 0, ErrInvalidID
	}
	return n, nil
}

// Get retrieves a property-type row by its numeric id.
func (t *propertyTypesTable) Get(id string) (any, error) {
	n, err := parseTypeID(id)
	if err != nil {
		return nil, err
	}

	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	if !t.backend.attached {
		return nil, ErrCatalogDetached
	}

	row := t.backend.db.QueryRow(
		"SELECT id, name, kind, definition, created_at, updated_at FROM property_types WHERE id = ?",
		n,
	)
	pt, err := hydratePropertyType(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting property type %d: %w", n, err)
	}
	return pt, nil
}

// Set creates or updates a property-type definition. When id is empty the
// row's own ID is used; ids come from the registry, never from the catalog.
// Writes a create or update revision in the same transaction.
func (t *propertyTypesTable) Set(id string, data any) (string, error) {
	row, ok := data.(*PropertyTypeRow)
	if !ok {
		return "", ErrInvalidData
	}
	if row.Name == "" {
		return "", ErrInvalidName
	}
	if len(row.Definition) == 0 {
		return "", ErrInvalidData
	}

	n := row.ID
	if id != "" {
		parsed, err := parseTypeID(id)
		if err != nil {
			return "", err
		}
		n = parsed
	}
	if n <= 0 {
		return "", ErrInvalidID
	}

	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()
	if !t.backend.attached {
		return "", ErrCatalogDetached
	}

	defJSON, err := json.Marshal(row.Definition)
	if err != nil {
		return "", fmt.Errorf("encoding definition: %w", err)
	}

	var createdAt string
	err = t.backend.db.QueryRow(
		"SELECT created_at FROM property_types WHERE id = ?", n,
	).Scan(&createdAt)
	exists := err == nil
	if err != nil && err != sql.ErrNoRows {
		return "", fmt.Errorf("checking property type existence: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	action := ActionCreate
	if exists {
		action = ActionUpdate
	} else {
		createdAt = now
	}

	tx, err := t.backend.db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if exists {
		_, err = tx.Exec(
			"UPDATE property_types SET name = ?, kind = ?, definition = ?, updated_at = ? WHERE id = ?",
			row.Name, row.Kind, string(defJSON), now, n,
		)
	} else {
		_, err = tx.Exec(
			"INSERT INTO property_types (id, name, kind, definition, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
			n, row.Name, row.Kind, string(defJSON), createdAt, now,
		)
	}
	if err != nil {
		return "", fmt.Errorf("persisting property type: %w", err)
	}

	if _, err := insertRevisionTx(tx, EntityPropertyType, row.Name, action, row.Definition, now); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing property type: %w", err)
	}

	if err := persistPropertyTypesJSONL(t.backend); err != nil {
		return "", fmt.Errorf("persisting property_types.jsonl: %w", err)
	}
	if err := persistRevisionsJSONL(t.backend); err != nil {
		return "", fmt.Errorf("persisting revisions.jsonl: %w", err)
	}

	t.backend.log.Debug().
		Int("id", n).
		Str("name", row.Name).
		Str("action", action).
		Msg("property type stored")
	return strconv.Itoa(n), nil
}

// Delete removes a property-type definition and records a delete revision
// holding the last definition.
func (t *propertyTypesTable) Delete(id string) error {
	n, err := parseTypeID(id)
	if err != nil {
		return err
	}

	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()
	if !t.backend.attached {
		return ErrCatalogDetached
	}

	row := t.backend.db.QueryRow(
		"SELECT id, name, kind, definition, created_at, updated_at FROM property_types WHERE id = ?",
		n,
	)
	existing, err := hydratePropertyType(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("getting property type %d: %w", n, err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	tx, err := t.backend.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM property_types WHERE id = ?", n); err != nil {
		return fmt.Errorf("deleting property type: %w", err)
	}
	if _, err := insertRevisionTx(tx, EntityPropertyType, existing.Name, ActionDelete, existing.Definition, now); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing property type deletion: %w", err)
	}

	if err := persistPropertyTypesJSONL(t.backend); err != nil {
		return fmt.Errorf("persisting property_types.jsonl: %w", err)
	}
	if err := persistRevisionsJSONL(t.backend); err != nil {
		return fmt.Errorf("persisting revisions.jsonl: %w", err)
	}

	t.backend.log.Debug().
		Int("id", n).
		Str("name", existing.Name).
		Msg("property type deleted")
	return nil
}

// Fetch queries property types, ordered by id ascending so a rebuilt
// registry sees definitions in their original insertion order. Supported
// filter keys: name, kind.
func (t *propertyTypesTable) Fetch(filter map[string]any) ([]any, error) {
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	if !t.backend.attached {
		return nil, ErrCatalogDetached
	}

	query := "SELECT id, name, kind, definition, created_at, updated_at FROM property_types"
	var conditions []string
	var args []any
	for _, key := range []string{"name", "kind"} {
		v, ok := filter[key]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return nil, ErrInvalidData
		}
		conditions = append(conditions, key+" = ?")
		args = append(args, s)
	}
	query += whereClause(conditions) + " ORDER BY id ASC"

	rows, err := t.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying property types: %w", err)
	}
	defer rows.Close()

	var out []any
	for rows.Next() {
		pt, err := hydratePropertyType(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning property type: %w", err)
		}
		out = append(out, pt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating property types: %w", err)
	}
	return out, nil
}

// whereClause joins filter conditions into a WHERE clause, or returns the
// empty string for an unfiltered query.
func whereClause(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	clause := " WHERE " + conditions[0]
	for _, c := range conditions[1:] {
		clause += " AND " + c
	}
	return clause
}

// hydratePropertyType scans one property_types row into a *PropertyTypeRow.
// The scan argument abstracts over sql.Row and sql.Rows.
func hydratePropertyType(scan func(dest ...any) error) (*PropertyTypeRow, error) {
	var pt PropertyTypeRow
	var definition, createdAt, updatedAt string
	if err := scan(&pt.ID, &pt.Name, &pt.Kind, &definition, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(definition), &pt.Definition); err != nil {
		return nil, fmt.Errorf("decoding definition: %w", err)
	}
	var err error
	pt.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	pt.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &pt, nil
}

// persistPropertyTypesJSONL reads all property types from SQLite and writes
// them to property_types.jsonl atomically. The caller must hold the backend
// lock.
func persistPropertyTypesJSONL(b *Backend) error {
	rows, err := b.db.Query(
		"SELECT id, name, kind, definition, created_at, updated_at FROM property_types ORDER BY id ASC",
	)
	if err != nil {
		return fmt.Errorf("querying property types for JSONL: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var rec propertyTypeJSONL
		var definition string
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Kind, &definition, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return fmt.Errorf("scanning property type for JSONL: %w", err)
		}
		if err := json.Unmarshal([]byte(definition), &rec.Definition); err != nil {
			return fmt.Errorf("decoding definition for JSONL: %w", err)
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling property type for JSONL: %w", err)
		}
		records = append(records, data)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating property types for JSONL: %w", err)
	}

	return writeJSONL(jsonlPath(b, "property_types.jsonl"), records)
}

// jsonlPath resolves a data file name inside the attached data directory.
func jsonlPath(b *Backend, name string) string {
	return filepath.Join(b.config.DataDir, name)
}
