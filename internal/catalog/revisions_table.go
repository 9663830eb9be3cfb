// Table accessor for the catalog change history. Revision rows are written
// by the other tables inside their own transactions; this accessor mostly
// serves reads.
package catalog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

var _ Table = (*revisionsTable)(nil)

type revisionsTable struct {
	backend *Backend
}

// insertRevisionTx appends a revision row inside an existing transaction and
// returns the generated revision id.
func insertRevisionTx(tx *sql.Tx, entity, ref, action string, snapshot map[string]any, now string) (string, error) {
	revID := newUUID()
	var snapJSON any
	if snapshot != nil {
		b, err := json.Marshal(snapshot)
		if err != nil {
			return "", fmt.Errorf("encoding revision snapshot: %w", err)
		}
		snapJSON = string(b)
	}
	_, err := tx.Exec(
		"INSERT INTO revisions (revision_id, entity, ref, action, snapshot, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		revID, entity, ref, action, snapJSON, now,
	)
	if err != nil {
		return "", fmt.Errorf("recording revision: %w", err)
	}
	return revID, nil
}

// Get retrieves a revision by its id.
func (t *revisionsTable) Get(id string) (any, error) {
	if id == "" {
		return nil, ErrInvalidID
	}

	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	if !t.backend.attached {
		return nil, ErrCatalogDetached
	}

	row := t.backend.db.QueryRow(
		"SELECT revision_id, entity, ref, action, snapshot, created_at FROM revisions WHERE revision_id = ?",
		id,
	)
	rev, err := hydrateRevision(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting revision %s: %w", id, err)
	}
	return rev, nil
}

// Set appends a revision. When id is empty a UUID v7 is generated.
// Revisions written through the other tables never pass through here.
func (t *revisionsTable) Set(id string, data any) (string, error) {
	rev, ok := data.(*Revision)
	if !ok {
		return "", ErrInvalidData
	}
	if rev.Entity == "" || rev.Action == "" {
		return "", ErrInvalidData
	}
	if id == "" {
		id = newUUID()
	}

	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()
	if !t.backend.attached {
		return "", ErrCatalogDetached
	}

	createdAt := rev.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	tx, err := t.backend.db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var snapJSON any
	if rev.Snapshot != nil {
		b, err := json.Marshal(rev.Snapshot)
		if err != nil {
			return "", fmt.Errorf("encoding revision snapshot: %w", err)
		}
		snapJSON = string(b)
	}
	_, err = tx.Exec(
		"INSERT OR REPLACE INTO revisions (revision_id, entity, ref, action, snapshot, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		id, rev.Entity, rev.Ref, rev.Action, snapJSON, createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("persisting revision: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing revision: %w", err)
	}

	if err := persistRevisionsJSONL(t.backend); err != nil {
		return "", fmt.Errorf("persisting revisions.jsonl: %w", err)
	}
	return id, nil
}

// Delete removes a revision by id. History is normally append-only; this
// exists to satisfy the Table interface and for cleanup tooling.
func (t *revisionsTable) Delete(id string) error {
	if id == "" {
		return ErrInvalidID
	}

	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()
	if !t.backend.attached {
		return ErrCatalogDetached
	}

	res, err := t.backend.db.Exec("DELETE FROM revisions WHERE revision_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting revision: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking revision deletion: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	if err := persistRevisionsJSONL(t.backend); err != nil {
		return fmt.Errorf("persisting revisions.jsonl: %w", err)
	}
	return nil
}

// Fetch queries revisions newest first. Supported filter keys: entity, ref,
// action.
func (t *revisionsTable) Fetch(filter map[string]any) ([]any, error) {
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	if !t.backend.attached {
		return nil, ErrCatalogDetached
	}

	query := "SELECT revision_id, entity, ref, action, snapshot, created_at FROM revisions"
	var conditions []string
	var args []any
	for _, key := range []string{"entity", "ref", "action"} {
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
	// UUID v7 ids are time-ordered, so they break created_at ties.
	query += whereClause(conditions) + " ORDER BY created_at DESC, revision_id DESC"

	rows, err := t.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying revisions: %w", err)
	}
	defer rows.Close()

	var out []any
	for rows.Next() {
		rev, err := hydrateRevision(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning revision: %w", err)
		}
		out = append(out, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating revisions: %w", err)
	}
	return out, nil
}

// hydrateRevision scans one revisions row into a *Revision.
func hydrateRevision(scan func(dest ...any) error) (*Revision, error) {
	var rev Revision
	var snapshot sql.NullString
	var createdAt string
	if err := scan(&rev.RevisionID, &rev.Entity, &rev.Ref, &rev.Action, &snapshot, &createdAt); err != nil {
		return nil, err
	}
	if snapshot.Valid {
		if err := json.Unmarshal([]byte(snapshot.String), &rev.Snapshot); err != nil {
			return nil, fmt.Errorf("decoding revision snapshot: %w", err)
		}
	}
	var err error
	rev.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &rev, nil
}

// persistRevisionsJSONL reads all revisions from SQLite and writes them to
// revisions.jsonl atomically, oldest first so the file appends naturally.
// The caller must hold the backend lock.
func persistRevisionsJSONL(b *Backend) error {
	rows, err := b.db.Query(
		"SELECT revision_id, entity, ref, action, snapshot, created_at FROM revisions ORDER BY created_at ASC, revision_id ASC",
	)
	if err != nil {
		return fmt.Errorf("querying revisions for JSONL: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		rev, err := hydrateRevision(rows.Scan)
		if err != nil {
			return fmt.Errorf("scanning revision for JSONL: %w", err)
		}
		rec := revisionJSONL{
			RevisionID: rev.RevisionID,
			Entity:     rev.Entity,
			Ref:        rev.Ref,
			Action:     rev.Action,
			Snapshot:   rev.Snapshot,
			CreatedAt:  rev.CreatedAt.UTC().Format(time.RFC3339),
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling revision for JSONL: %w", err)
		}
		records = append(records, data)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating revisions for JSONL: %w", err)
	}

	return writeJSONL(jsonlPath(b, "revisions.jsonl"), records)
}
