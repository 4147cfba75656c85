package sqlite

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/habitgrid/internal/storage"
	"github.com/julianstephens/habitgrid/internal/storage/storagetest"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "habitgrid.db"))
	if err := s.Init(); err != nil {
		t.Fatalf("failed to init sqlite store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Provider {
		return setupTestStore(t)
	})
}

func TestStoreReopen(t *testing.T) {
	s := setupTestStore(t)
	if err := s.Set("habit-tracker-categories", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := NewStore(s.GetConfigPath())
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get("habit-tracker-categories")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `[{"id":"1"}]` {
		t.Errorf("unexpected value %s", got)
	}

	pending, err := reopened.PendingMigrations()
	if err != nil {
		t.Fatalf("PendingMigrations failed: %v", err)
	}
	if pending != 0 {
		t.Errorf("expected no pending migrations, got %d", pending)
	}
}

func TestLoadUninitialized(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := s.Load(); !errors.Is(err, storage.ErrNotInitialized) {
		t.Errorf("Load() error = %v, want ErrNotInitialized", err)
	}
	if _, err := os.Stat(s.GetConfigPath()); !os.IsNotExist(err) {
		t.Error("Load must not create the database file")
	}
}
