// Unit tests for the revisions table accessor.
package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevisionAppendAndGet(t *testing.T) {
	b := setupBackend(t)
	table, err := b.GetTable(TableRevisions)
	require.NoError(t, err)

	id, err := table.Set("", &Revision{
		Entity:   EntityPropertyType,
		Ref:      "Element",
		Action:   ActionCreate,
		Snapshot: map[string]any{"name": "Element"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, id, "empty id generates a UUID")

	entity, err := table.Get(id)
	require.NoError(t, err)
	rev := entity.(*Revision)
	assert.Equal(t, id, rev.RevisionID)
	assert.Equal(t, EntityPropertyType, rev.Entity)
	assert.Equal(t, "Element", rev.Ref)
	assert.Equal(t, "Element", rev.Snapshot["name"])
	assert.False(t, rev.CreatedAt.IsZero())

	// Snapshots are optional; deletes of unknown history are fine without.
	id2, err := table.Set("", &Revision{Entity: EntityObjectType, Ref: "Crate", Action: ActionDelete})
	require.NoError(t, err)
	entity, err = table.Get(id2)
	require.NoError(t, err)
	assert.Nil(t, entity.(*Revision).Snapshot)
}

func TestRevisionValidation(t *testing.T) {
	b := setupBackend(t)
	table, err := b.GetTable(TableRevisions)
	require.NoError(t, err)

	_, err = table.Set("", "not a revision")
	assert.ErrorIs(t, err, ErrInvalidData)
	_, err = table.Set("", &Revision{Ref: "x"})
	assert.ErrorIs(t, err, ErrInvalidData, "entity and action are required")
	_, err = table.Get("")
	assert.ErrorIs(t, err, ErrInvalidID)
	_, err = table.Get("no-such-revision")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRevisionFetchFiltersAndOrder(t *testing.T) {
	b := setupBackend(t)
	table, err := b.GetTable(TableRevisions)
	require.NoError(t, err)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	seed := []*Revision{
		{Entity: EntityPropertyType, Ref: "Element", Action: ActionCreate, CreatedAt: base},
		{Entity: EntityPropertyType, Ref: "Element", Action: ActionUpdate, CreatedAt: base.Add(time.Minute)},
		{Entity: EntityObjectType, Ref: "Crate", Action: ActionCreate, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, rev := range seed {
		_, err := table.Set("", rev)
		require.NoError(t, err)
	}

	all, err := table.Fetch(nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, EntityObjectType, all[0].(*Revision).Entity, "newest first")
	assert.Equal(t, ActionCreate, all[2].(*Revision).Action)

	elements, err := table.Fetch(map[string]any{"ref": "Element"})
	require.NoError(t, err)
	assert.Len(t, elements, 2)

	creates, err := table.Fetch(map[string]any{"entity": EntityPropertyType, "action": ActionCreate})
	require.NoError(t, err)
	assert.Len(t, creates, 1)

	_, err = table.Fetch(map[string]any{"entity": 9})
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestRevisionDelete(t *testing.T) {
	b := setupBackend(t)
	table, err := b.GetTable(TableRevisions)
	require.NoError(t, err)

	id, err := table.Set("", &Revision{Entity: EntityPropertyType, Ref: "Element", Action: ActionCreate})
	require.NoError(t, err)

	require.NoError(t, table.Delete(id))
	_, err = table.Get(id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, table.Delete(id), ErrNotFound)
	assert.ErrorIs(t, table.Delete(""), ErrInvalidID)
}
