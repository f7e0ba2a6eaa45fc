package localfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"familytree-backend/application/store/snapshot"
)

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "family-tree-storage.json")
	store := NewSnapshotStore(path)

	snap := &snapshot.Snapshot{
		Nodes: []snapshot.Node{
			{ID: "p1", Name: "Alice", Gender: "FEMALE", Position: snapshot.Position{X: 1, Y: 2}},
		},
		Edges: []snapshot.Edge{
			{ID: "e-p1-p1", Source: "p1", Target: "p1", SourceHandle: "bottom", TargetHandle: "top"},
		},
		SelectedNodeID: "p1",
	}
	require.NoError(t, store.Save(snap))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, snap.Nodes, loaded.Nodes)
	assert.Equal(t, snap.Edges, loaded.Edges)
	assert.Equal(t, "p1", loaded.SelectedNodeID)
}

func TestLoadMissingFileReturnsNil(t *testing.T) {
	store := NewSnapshotStore(filepath.Join(t.TempDir(), "absent.json"))

	loaded, err := store.Load()
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewSnapshotStore(path)

	require.NoError(t, store.Save(&snapshot.Snapshot{SelectedNodeID: "first"}))
	require.NoError(t, store.Save(&snapshot.Snapshot{SelectedNodeID: "second"}))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "second", loaded.SelectedNodeID)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewSnapshotStore(filepath.Join(dir, "state.json"))

	require.NoError(t, store.Save(&snapshot.Snapshot{}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "state.json", entries[0].Name())
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewSnapshotStore(path)
	_, err := store.Load()
	assert.Error(t, err)
}
