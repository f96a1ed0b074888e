// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tablestore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/derivindex/internal/lookup"
	"github.com/pdiddy/derivindex/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(types.StoreConfig{
		TablesDir:  t.TempDir(),
		MaxResults: 20,
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func saveTable(t *testing.T, store *Store, op types.Operator, order, natoms int) types.TableMeta {
	t.Helper()
	table, err := lookup.Generate(op, order, natoms)
	require.NoError(t, err)
	meta, err := store.Save(context.Background(), table)
	require.NoError(t, err)
	return meta
}

func TestSaveAndGet(t *testing.T) {
	store := testStore(t)
	meta := saveTable(t, store, types.OpOverlap, 2, 0)

	require.NotEmpty(t, meta.RunID)
	assert.Equal(t, types.OpOverlap, meta.Operator)
	assert.Equal(t, 21, meta.Size)
	assert.False(t, meta.CreatedAt.IsZero())

	got, err := store.Get(context.Background(), meta.RunID)
	require.NoError(t, err)
	assert.Equal(t, meta.RunID, got.RunID)
	assert.Equal(t, meta.Size, got.Size)

	_, err = store.Get(context.Background(), "no-such-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestFind(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	found, err := store.Find(ctx, types.OpKinetic, 1, 0)
	require.NoError(t, err)
	assert.Nil(t, found)

	meta := saveTable(t, store, types.OpKinetic, 1, 0)

	found, err = store.Find(ctx, types.OpKinetic, 1, 0)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, meta.RunID, found.RunID)

	// A different order does not match.
	found, err = store.Find(ctx, types.OpKinetic, 2, 0)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestResolve(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	meta := saveTable(t, store, types.OpOverlap, 2, 0)

	// (2,5) is entry 14 in the 6-component order-2 table.
	idx, err := store.Resolve(ctx, meta.RunID, []int{2, 5})
	require.NoError(t, err)
	assert.Equal(t, 14, idx)

	// Resolve normalizes the multi-index before lookup.
	idx, err = store.Resolve(ctx, meta.RunID, []int{5, 2})
	require.NoError(t, err)
	assert.Equal(t, 14, idx)

	_, err = store.Resolve(ctx, meta.RunID, []int{0, 9})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no entry")
}

func TestEntriesRoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	table, err := lookup.Generate(types.OpOverlap, 1, 0)
	require.NoError(t, err)
	meta, err := store.Save(ctx, table)
	require.NoError(t, err)

	entries, err := store.Entries(ctx, meta.RunID)
	require.NoError(t, err)
	assert.Equal(t, table.Entries, entries)
}

func TestList(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	saveTable(t, store, types.OpOverlap, 1, 0)
	saveTable(t, store, types.OpERI, 1, 0)

	metas, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, metas, 2)

	seen := map[types.Operator]bool{}
	for _, m := range metas {
		seen[m.Operator] = true
	}
	assert.True(t, seen[types.OpOverlap])
	assert.True(t, seen[types.OpERI])
}

func TestExportFormats(t *testing.T) {
	tablesDir := t.TempDir()
	store, err := NewStore(types.StoreConfig{TablesDir: tablesDir})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	meta := saveTable(t, store, types.OpOverlap, 1, 0)

	yamlPath, err := store.ExportYAML(ctx, meta.RunID)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tablesDir, indexDir, "export.yaml"), yamlPath)

	data, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	var fromYAML Export
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	assert.Equal(t, meta.RunID, fromYAML.Meta.RunID)
	assert.Len(t, fromYAML.Entries, 6)

	jsonPath, err := store.ExportJSON(ctx, meta.RunID)
	require.NoError(t, err)

	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	var fromJSON Export
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Equal(t, fromYAML.Meta.RunID, fromJSON.Meta.RunID)
	assert.Equal(t, fromYAML.Entries, fromJSON.Entries)
}
