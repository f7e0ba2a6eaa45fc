// Package localfile persists the whole editor state as one JSON document
// under a fixed path, overwritten on every mutation and restored on
// startup.
package localfile

import (
	"encoding/json"
	"os"
	"path/filepath"

	"familytree-backend/application/store/snapshot"
	pkgerrors "familytree-backend/pkg/errors"
)

// SnapshotStore is a file-backed snapshot store. Writes go through a
// temporary file and a rename so a crash mid-write never leaves a
// truncated snapshot behind.
type SnapshotStore struct {
	path string
}

// NewSnapshotStore creates a store writing to the given path
func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

// Save overwrites the stored snapshot
func (s *SnapshotStore) Save(snap *snapshot.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return pkgerrors.NewInternalError("failed to encode snapshot").WithCause(err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return pkgerrors.NewInternalError("failed to create snapshot file").WithCause(err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return pkgerrors.NewInternalError("failed to write snapshot").WithCause(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return pkgerrors.NewInternalError("failed to write snapshot").WithCause(err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return pkgerrors.NewInternalError("failed to replace snapshot").WithCause(err)
	}
	return nil
}

// Load reads the stored snapshot, returning (nil, nil) when none exists
func (s *SnapshotStore) Load() (*snapshot.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, pkgerrors.NewInternalError("failed to read snapshot").WithCause(err)
	}

	var snap snapshot.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, pkgerrors.NewInternalError("stored snapshot is corrupt").WithCause(err)
	}
	return &snap, nil
}
