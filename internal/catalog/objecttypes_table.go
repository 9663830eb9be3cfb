// Table accessor for stored object types, keyed by name.
package catalog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

var _ Table = (*objectTypesTable)(nil)

type objectTypesTable struct {
	backend *Backend
}

// Get retrieves an object type by name.
func (t *objectTypesTable) Get(id string) (any, error) {
	if id == "" {
		return nil, ErrInvalidID
	}

	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	if !t.backend.attached {
		return nil, ErrCatalogDetached
	}

	row := t.backend.db.QueryRow(
		"SELECT name, color, properties FROM object_types WHERE name = ?", id,
	)
	ot, err := hydrateObjectType(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting object type %s: %w", id, err)
	}
	return ot, nil
}

// Set creates or updates an object type. When id is empty the row's name is
// the key; providing a different id renames that entry to the row's name.
func (t *objectTypesTable) Set(id string, data any) (string, error) {
	row, ok := data.(*ObjectTypeRow)
	if !ok {
		return "", ErrInvalidData
	}
	if row.Name == "" {
		return "", ErrInvalidName
	}
	key := id
	if key == "" {
		key = row.Name
	}

	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()
	if !t.backend.attached {
		return "", ErrCatalogDetached
	}

	props := row.Properties
	if props == nil {
		props = []any{}
	}
	propsJSON, err := json.Marshal(props)
	if err != nil {
		return "", fmt.Errorf("encoding properties: %w", err)
	}

	var one int
	err = t.backend.db.QueryRow(
		"SELECT 1 FROM object_types WHERE name = ?", key,
	).Scan(&one)
	if err != nil && err != sql.ErrNoRows {
		return "", fmt.Errorf("checking object type existence: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	action := ActionCreate
	if err == nil {
		action = ActionUpdate
	}

	tx, err := t.backend.db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if action == ActionUpdate {
		_, err = tx.Exec(
			"UPDATE object_types SET name = ?, color = ?, properties = ? WHERE name = ?",
			row.Name, row.Color, string(propsJSON), key,
		)
	} else {
		_, err = tx.Exec(
			"INSERT INTO object_types (name, color, properties) VALUES (?, ?, ?)",
			row.Name, row.Color, string(propsJSON),
		)
	}
	if err != nil {
		return "", fmt.Errorf("persisting object type: %w", err)
	}

	snapshot := map[string]any{
		"name":       row.Name,
		"color":      row.Color,
		"properties": props,
	}
	if _, err := insertRevisionTx(tx, EntityObjectType, row.Name, action, snapshot, now); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing object type: %w", err)
	}

	if err := persistObjectTypesJSONL(t.backend); err != nil {
		return "", fmt.Errorf("persisting object_types.jsonl: %w", err)
	}
	if err := persistRevisionsJSONL(t.backend); err != nil {
		return "", fmt.Errorf("persisting revisions.jsonl: %w", err)
	}

	t.backend.log.Debug().
		Str("name", row.Name).
		Str("action", action).
		Msg("object type stored")
	return row.Name, nil
}

// Delete removes an object type and records a delete revision holding the
// last definition.
func (t *objectTypesTable) Delete(id string) error {
	if id == "" {
		return ErrInvalidID
	}

	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()
	if !t.backend.attached {
		return ErrCatalogDetached
	}

	row := t.backend.db.QueryRow(
		"SELECT name, color, properties FROM object_types WHERE name = ?", id,
	)
	existing, err := hydrateObjectType(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("getting object type %s: %w", id, err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	tx, err := t.backend.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM object_types WHERE name = ?", id); err != nil {
		return fmt.Errorf("deleting object type: %w", err)
	}
	snapshot := map[string]any{
		"name":       existing.Name,
		"color":      existing.Color,
		"properties": existing.Properties,
	}
	if _, err := insertRevisionTx(tx, EntityObjectType, existing.Name, ActionDelete, snapshot, now); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing object type deletion: %w", err)
	}

	if err := persistObjectTypesJSONL(t.backend); err != nil {
		return fmt.Errorf("persisting object_types.jsonl: %w", err)
	}
	if err := persistRevisionsJSONL(t.backend); err != nil {
		return fmt.Errorf("persisting revisions.jsonl: %w", err)
	}

	t.backend.log.Debug().Str("name", existing.Name).Msg("object type deleted")
	return nil
}

// Fetch queries object types ordered by name. Supported filter key: name.
func (t *objectTypesTable) Fetch(filter map[string]any) ([]any, error) {
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	if !t.backend.attached {
		return nil, ErrCatalogDetached
	}

	query := "SELECT name, color, properties FROM object_types"
	var args []any
	if v, ok := filter["name"]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, ErrInvalidData
		}
		query += " WHERE name = ?"
		args = append(args, s)
	}
	query += " ORDER BY name ASC"

	rows, err := t.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying object types: %w", err)
	}
	defer rows.Close()

	var out []any
	for rows.Next() {
		ot, err := hydrateObjectType(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning object type: %w", err)
		}
		out = append(out, ot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating object types: %w", err)
	}
	return out, nil
}

// hydrateObjectType scans one object_types row into an *ObjectTypeRow.
func hydrateObjectType(scan func(dest ...any) error) (*ObjectTypeRow, error) {
	var ot ObjectTypeRow
	var color sql.NullString
	var properties string
	if err := scan(&ot.Name, &color, &properties); err != nil {
		return nil, err
	}
	if color.Valid {
		ot.Color = color.String
	}
	if err := json.Unmarshal([]byte(properties), &ot.Properties); err != nil {
		return nil, fmt.Errorf("decoding properties: %w", err)
	}
	return &ot, nil
}

// persistObjectTypesJSONL reads all object types from SQLite and writes them
// to object_types.jsonl atomically. The caller must hold the backend lock.
func persistObjectTypesJSONL(b *Backend) error {
	rows, err := b.db.Query("SELECT name, color, properties FROM object_types ORDER BY name ASC")
	if err != nil {
		return fmt.Errorf("querying object types for JSONL: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		ot, err := hydrateObjectType(rows.Scan)
		if err != nil {
			return fmt.Errorf("scanning object type for JSONL: %w", err)
		}
		rec := objectTypeJSONL{
			Name:       ot.Name,
			Color:      ot.Color,
			Properties: ot.Properties,
		}
		if rec.Properties == nil {
			rec.Properties = []any{}
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling object type for JSONL: %w", err)
		}
		records = append(records, data)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating object types for JSONL: %w", err)
	}

	return writeJSONL(jsonlPath(b, "object_types.jsonl"), records)
}
