package storage

import (
	"os"
	"testing"

	"github.com/dgraph-io/badger/v4"
)

func openTestStorage(t *testing.T) *Storage {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "luna-storage-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	opts := badger.DefaultOptions(tmpDir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("Failed to open badger db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return &Storage{db: db}
}

func TestDefaultEngineOptions(t *testing.T) {
	opts := DefaultEngineOptions()
	if opts.HashMB != 16 {
		t.Errorf("expected default hash 16 MB, got %d", opts.HashMB)
	}
	if opts.MultiPV != 1 {
		t.Errorf("expected default MultiPV 1, got %d", opts.MultiPV)
	}
	if opts.UseOwnBook {
		t.Errorf("expected UseOwnBook false by default")
	}
}

func TestEngineOptionsLoadWithoutSave(t *testing.T) {
	s := openTestStorage(t)

	opts, err := s.LoadEngineOptions()
	if err != nil {
		t.Fatalf("LoadEngineOptions failed: %v", err)
	}
	if opts.HashMB != 16 || opts.MultiPV != 1 || opts.UseOwnBook {
		t.Errorf("expected defaults when nothing saved, got %+v", opts)
	}
}

func TestEngineOptionsSaveAndLoad(t *testing.T) {
	s := openTestStorage(t)

	saved := &EngineOptions{HashMB: 256, MultiPV: 4, UseOwnBook: true}
	if err := s.SaveEngineOptions(saved); err != nil {
		t.Fatalf("SaveEngineOptions failed: %v", err)
	}

	loaded, err := s.LoadEngineOptions()
	if err != nil {
		t.Fatalf("LoadEngineOptions failed: %v", err)
	}
	if *loaded != *saved {
		t.Errorf("expected %+v, got %+v", saved, loaded)
	}
}

func TestGetDataDir(t *testing.T) {
	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Error("GetDataDir returned empty path")
	}

	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("Data directory was not created: %s", dataDir)
	}
}
