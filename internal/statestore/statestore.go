// Package statestore keeps rigid body snapshots in a LevelDB database so a cached state
// survives restarts.
package statestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"meshworld/internal/rigidbody"
)

const snapshotPrefix = "snapshot/"

// ErrNotFound is returned by Snapshot when no snapshot is stored under the id.
var ErrNotFound = errors.New("statestore: not found")

// Store is a LevelDB database of snapshots keyed by rigid body id.
type Store struct {
	db *leveldb.DB
}

// Open opens or creates the database directory at path.
func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("statestore: open %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func key(id string) []byte {
	return []byte(snapshotPrefix + id)
}

// SaveSnapshots writes every snapshot in one batch, replacing what was stored before.
func (s *Store) SaveSnapshots(snaps map[string]rigidbody.Snapshot) error {
	batch := new(leveldb.Batch)
	iter := s.db.NewIterator(util.BytesPrefix([]byte(snapshotPrefix)), nil)
	for iter.Next() {
		batch.Delete(append([]byte(nil), iter.Key()...))
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return fmt.Errorf("statestore: %w", err)
	}
	for id, snap := range snaps {
		data, err := json.Marshal(snap)
		if err != nil {
			return fmt.Errorf("statestore: %s: %w", id, err)
		}
		batch.Put(key(id), data)
	}
	if err := s.db.Write(batch, nil); err != nil {
		return fmt.Errorf("statestore: %w", err)
	}
	return nil
}

// Snapshot returns the snapshot stored under id.
func (s *Store) Snapshot(id string) (rigidbody.Snapshot, error) {
	var snap rigidbody.Snapshot
	data, err := s.db.Get(key(id), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return snap, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return snap, fmt.Errorf("statestore: %w", err)
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("statestore: %s: %w", id, err)
	}
	return snap, nil
}

// LoadSnapshots returns every stored snapshot by id.
func (s *Store) LoadSnapshots() (map[string]rigidbody.Snapshot, error) {
	out := make(map[string]rigidbody.Snapshot)
	iter := s.db.NewIterator(util.BytesPrefix([]byte(snapshotPrefix)), nil)
	defer iter.Release()
	for iter.Next() {
		id := strings.TrimPrefix(string(iter.Key()), snapshotPrefix)
		var snap rigidbody.Snapshot
		if err := json.Unmarshal(iter.Value(), &snap); err != nil {
			return nil, fmt.Errorf("statestore: %s: %w", id, err)
		}
		out[id] = snap
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("statestore: %w", err)
	}
	return out, nil
}
