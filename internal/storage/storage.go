package storage

import (
	"encoding/json"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyEngineOptions = "engine_options"
)

// EngineOptions stores the persisted UCI option values that should survive
// process restarts (set via "setoption" and reloaded the next time the
// engine starts).
type EngineOptions struct {
	HashMB     int  `json:"hash_mb"`
	MultiPV    int  `json:"multi_pv"`
	UseOwnBook bool `json:"use_own_book"`
}

// DefaultEngineOptions returns the UCI-specified default option values.
func DefaultEngineOptions() *EngineOptions {
	return &EngineOptions{
		HashMB:     16,
		MultiPV:    1,
		UseOwnBook: false,
	}
}

// Storage wraps BadgerDB for persistent storage of engine options.
type Storage struct {
	db *badger.DB
}

// NewStorage opens (creating if necessary) the on-disk option store.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = nil // Badger's own logger would write to stdout/stderr, breaking UCI framing.

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Storage{db: db}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveEngineOptions persists the current UCI option values.
func (s *Storage) SaveEngineOptions(opts *EngineOptions) error {
	data, err := json.Marshal(opts)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyEngineOptions), data)
	})
}

// LoadEngineOptions loads the persisted UCI option values, returning the
// UCI defaults if nothing has been saved yet.
func (s *Storage) LoadEngineOptions() (*EngineOptions, error) {
	opts := DefaultEngineOptions()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyEngineOptions))
		if err == badger.ErrKeyNotFound {
			return nil // Use defaults
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, opts)
		})
	})

	return opts, err
}
