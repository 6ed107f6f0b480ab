package bstore

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/ValentinKolb/hKV/lib/kv"
	"github.com/ValentinKolb/hKV/lib/store"
	storetesting "github.com/ValentinKolb/hKV/lib/store/testing"
)

// tempFactory returns a factory that creates a new database file per call
func tempFactory(tb testing.TB, pageSize int) store.Factory {
	dir := tb.TempDir()
	counter := 0
	return func() (store.Storage, error) {
		counter++
		opts := DefaultOptions(filepath.Join(dir, fmt.Sprintf("db-%d.bolt", counter)))
		opts.PageSize = pageSize
		opts.NoSync = true
		return NewBoltStore(opts)
	}
}

func TestBoltStore(t *testing.T) {
	storetesting.RunStorageTests(t, "bstore", tempFactory(t, 0))
}

func TestBoltStoreSmallPages(t *testing.T) {
	storetesting.RunStorageTests(t, "bstore-page-2", tempFactory(t, 2))
}

func BenchmarkBoltStore(b *testing.B) {
	storetesting.RunStorageBenchmarks(b, "bstore", tempFactory(b, 0))
}

func TestBoltStoreIterPaging(t *testing.T) {
	s, err := tempFactory(t, 3)()
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	for i := 0; i < 10; i++ {
		if _, _, err := s.Set("t", fmt.Sprintf("k%02d", i), kv.NewInteger(int64(i))); err != nil {
			t.Fatalf("Failed to set: %v", err)
		}
	}
	// a neighbouring table must not leak into the pages
	if _, _, err := s.Set("tt", "k00", kv.NewInteger(100)); err != nil {
		t.Fatalf("Failed to set: %v", err)
	}

	pairs, err := s.GetIter("t")
	if err != nil {
		t.Fatalf("Failed to get iterator: %v", err)
	}

	i := 0
	for pair, err := range pairs {
		if err != nil {
			t.Fatalf("Iteration failed: %v", err)
		}
		if expected := fmt.Sprintf("k%02d", i); pair.Key != expected {
			t.Errorf("Expected key %s, got %s", expected, pair.Key)
		}
		// writes between pages must not deadlock
		if _, _, err := s.Set("other", pair.Key, pair.Value); err != nil {
			t.Fatalf("Failed to write during iteration: %v", err)
		}
		i++
	}
	if i != 10 {
		t.Errorf("Expected 10 pairs, got %d", i)
	}
}

func TestBoltStorePersists(t *testing.T) {
	opts := DefaultOptions(filepath.Join(t.TempDir(), "db.bolt"))

	s, err := NewBoltStore(opts)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	if _, _, err := s.Set("score", "u1", kv.None()); err != nil {
		t.Fatalf("Failed to set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Failed to close: %v", err)
	}

	s, err = NewBoltStore(opts)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer s.Close()

	// None is stored as an empty value and must still exist
	if ok, err := s.Contains("score", "u1"); err != nil || !ok {
		t.Errorf("Expected persisted key, got ok=%v err=%v", ok, err)
	}
}

func TestBoltStoreClosed(t *testing.T) {
	s, err := tempFactory(t, 0)()
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Failed to close: %v", err)
	}

	if _, _, err := s.Set("t", "k", kv.NewInteger(1)); kv.KindOf(err) != kv.ErrKindStorage {
		t.Errorf("Expected StorageError after close, got %v", err)
	}
}
