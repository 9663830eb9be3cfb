// Unit tests for the property_types table accessor: CRUD, filters, revision
// records, and the JSONL write-through.
package catalog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyTypeSetGet(t *testing.T) {
	b := setupBackend(t)
	table, err := b.GetTable(TablePropertyTypes)
	require.NoError(t, err)

	id, err := table.Set("", &PropertyTypeRow{
		ID:         3,
		Name:       "Element",
		Kind:       "enum",
		Definition: sampleEnumDefinition(3, "Element", "Fire", "Water"),
	})
	require.NoError(t, err)
	assert.Equal(t, "3", id)

	entity, err := table.Get("3")
	require.NoError(t, err)
	row := entity.(*PropertyTypeRow)
	assert.Equal(t, 3, row.ID)
	assert.Equal(t, "Element", row.Name)
	assert.Equal(t, "enum", row.Kind)
	assert.Equal(t, []any{"Fire", "Water"}, row.Definition["values"])
	assert.False(t, row.CreatedAt.IsZero())
	assert.False(t, row.UpdatedAt.IsZero())
}

func TestPropertyTypeUpdatePreservesCreatedAt(t *testing.T) {
	b := setupBackend(t)
	table, err := b.GetTable(TablePropertyTypes)
	require.NoError(t, err)

	_, err = table.Set("", &PropertyTypeRow{
		ID:         1,
		Name:       "Element",
		Kind:       "enum",
		Definition: sampleEnumDefinition(1, "Element", "Fire"),
	})
	require.NoError(t, err)
	entity, err := table.Get("1")
	require.NoError(t, err)
	created := entity.(*PropertyTypeRow).CreatedAt

	_, err = table.Set("", &PropertyTypeRow{
		ID:         1,
		Name:       "Element",
		Kind:       "enum",
		Definition: sampleEnumDefinition(1, "Element", "Fire", "Water", "Earth"),
	})
	require.NoError(t, err)

	entity, err = table.Get("1")
	require.NoError(t, err)
	row := entity.(*PropertyTypeRow)
	assert.Equal(t, created, row.CreatedAt)
	assert.Len(t, row.Definition["values"], 3)
}

func TestPropertyTypeValidation(t *testing.T) {
	b := setupBackend(t)
	table, err := b.GetTable(TablePropertyTypes)
	require.NoError(t, err)

	_, err = table.Set("", "not a row")
	assert.ErrorIs(t, err, ErrInvalidData)

	_, err = table.Set("", &PropertyTypeRow{ID: 1, Kind: "enum", Definition: sampleEnumDefinition(1, "")})
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = table.Set("", &PropertyTypeRow{ID: 1, Name: "X", Kind: "enum"})
	assert.ErrorIs(t, err, ErrInvalidData, "definition is required")

	_, err = table.Set("", &PropertyTypeRow{Name: "X", Kind: "enum", Definition: sampleEnumDefinition(0, "X")})
	assert.ErrorIs(t, err, ErrInvalidID, "ids come from the registry, not the catalog")

	_, err = table.Set("abc", &PropertyTypeRow{ID: 1, Name: "X", Kind: "enum", Definition: sampleEnumDefinition(1, "X")})
	assert.ErrorIs(t, err, ErrInvalidID)

	for _, bad := range []string{"", "abc", "-1", "0"} {
		_, err = table.Get(bad)
		assert.ErrorIs(t, err, ErrInvalidID, "Get(%q)", bad)
		assert.ErrorIs(t, table.Delete(bad), ErrInvalidID, "Delete(%q)", bad)
	}

	_, err = table.Get("42")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPropertyTypeDelete(t *testing.T) {
	b := setupBackend(t)
	table, err := b.GetTable(TablePropertyTypes)
	require.NoError(t, err)

	_, err = table.Set("", &PropertyTypeRow{
		ID:         1,
		Name:       "Element",
		Kind:       "enum",
		Definition: sampleEnumDefinition(1, "Element", "Fire"),
	})
	require.NoError(t, err)

	require.NoError(t, table.Delete("1"))
	_, err = table.Get("1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, table.Delete("1"), ErrNotFound)
}

func TestPropertyTypeFetchFilters(t *testing.T) {
	b := setupBackend(t)
	table, err := b.GetTable(TablePropertyTypes)
	require.NoError(t, err)

	defs := []*PropertyTypeRow{
		{ID: 1, Name: "Element", Kind: "enum", Definition: sampleEnumDefinition(1, "Element", "Fire")},
		{ID: 2, Name: "Monster", Kind: "class", Definition: map[string]any{
			"id": 2, "name": "Monster", "type": "class", "members": []any{},
		}},
		{ID: 3, Name: "Fruit", Kind: "enum", Definition: sampleEnumDefinition(3, "Fruit", "Apple")},
	}
	for _, def := range defs {
		_, err := table.Set("", def)
		require.NoError(t, err)
	}

	all, err := table.Fetch(nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Element", all[0].(*PropertyTypeRow).Name, "ordered by id")
	assert.Equal(t, "Fruit", all[2].(*PropertyTypeRow).Name)

	enums, err := table.Fetch(map[string]any{"kind": "enum"})
	require.NoError(t, err)
	assert.Len(t, enums, 2)

	named, err := table.Fetch(map[string]any{"name": "Monster"})
	require.NoError(t, err)
	require.Len(t, named, 1)
	assert.Equal(t, "class", named[0].(*PropertyTypeRow).Kind)

	_, err = table.Fetch(map[string]any{"kind": 7})
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestPropertyTypeRevisions(t *testing.T) {
	b := setupBackend(t)
	table, err := b.GetTable(TablePropertyTypes)
	require.NoError(t, err)

	row := &PropertyTypeRow{
		ID:         1,
		Name:       "Element",
		Kind:       "enum",
		Definition: sampleEnumDefinition(1, "Element", "Fire"),
	}
	_, err = table.Set("", row)
	require.NoError(t, err)

	row.Definition = sampleEnumDefinition(1, "Element", "Fire", "Water")
	_, err = table.Set("", row)
	require.NoError(t, err)

	require.NoError(t, table.Delete("1"))

	revisions, err := b.GetTable(TableRevisions)
	require.NoError(t, err)
	revs, err := revisions.Fetch(map[string]any{
		"entity": EntityPropertyType,
		"ref":    "Element",
	})
	require.NoError(t, err)
	require.Len(t, revs, 3)

	actions := make([]string, len(revs))
	for i, r := range revs {
		actions[i] = r.(*Revision).Action
	}
	assert.Equal(t, []string{ActionDelete, ActionUpdate, ActionCreate}, actions, "newest first")

	deleted := revs[0].(*Revision)
	require.NotNil(t, deleted.Snapshot, "delete revisions keep the last definition")
	assert.Len(t, deleted.Snapshot["values"], 2)
}

func TestPropertyTypesJSONLWriteThrough(t *testing.T) {
	dataDir := t.TempDir()
	b := NewBackend()
	require.NoError(t, b.Attach(Config{Backend: BackendSQLite, DataDir: dataDir}))
	t.Cleanup(func() { b.Detach() })

	table, err := b.GetTable(TablePropertyTypes)
	require.NoError(t, err)
	_, err = table.Set("", &PropertyTypeRow{
		ID:         1,
		Name:       "Element",
		Kind:       "enum",
		Definition: sampleEnumDefinition(1, "Element", "Fire"),
	})
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(dataDir, "property_types.jsonl"))
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	require.True(t, scanner.Scan(), "one line written")
	var rec map[string]any
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
	assert.EqualValues(t, 1, rec["id"])
	def, ok := rec["definition"].(map[string]any)
	require.True(t, ok, "definition persists as a JSON object, not a string")
	assert.Equal(t, "Element", def["name"])
	assert.False(t, scanner.Scan(), "exactly one line")
}
