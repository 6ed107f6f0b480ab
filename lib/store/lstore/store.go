package lstore

import (
	"iter"
	"sort"

	"github.com/ValentinKolb/hKV/lib/kv"
	"github.com/ValentinKolb/hKV/lib/store"
	"github.com/puzpuzpuz/xsync/v3"
)

// table is a single key space
type table = xsync.MapOf[string, kv.Value]

type storeImpl struct {
	tables *xsync.MapOf[string, *table]
}

// NewLocalStore creates a new in-memory store instance.
// This store implementation is not persisted and only works in a single process.
func NewLocalStore() store.Storage {
	return &storeImpl{
		tables: xsync.NewMapOf[string, *table](),
	}
}

// Factory returns a store.Factory that creates a new in-memory store.
func Factory() store.Factory {
	return func() (store.Storage, error) {
		return NewLocalStore(), nil
	}
}

// getTable returns the table or nil if it was never written.
//
// Thread-safety: xsync.MapOf reads are lock free.
func (s *storeImpl) getTable(name string) *table {
	t, _ := s.tables.Load(name)
	return t
}

// getOrCreateTable returns the table and creates it if it does not exist.
// Concurrent creators of the same table always receive the same instance.
func (s *storeImpl) getOrCreateTable(name string) *table {
	t, _ := s.tables.LoadOrCompute(name, func() *table {
		return xsync.NewMapOf[string, kv.Value]()
	})
	return t
}

// sortedKeys returns a snapshot of all keys of a table in ascending order.
func sortedKeys(t *table) []string {
	keys := make([]string, 0, t.Size())
	t.Range(func(key string, _ kv.Value) bool {
		keys = append(keys, key)
		return true
	})
	sort.Strings(keys)
	return keys
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Get(table, key string) (kv.Value, bool, error) {
	t := s.getTable(table)
	if t == nil {
		return kv.None(), false, nil
	}
	value, ok := t.Load(key)
	return value, ok, nil
}

func (s *storeImpl) Set(table, key string, value kv.Value) (kv.Value, bool, error) {
	old, loaded := s.getOrCreateTable(table).LoadAndStore(key, value)
	if !loaded {
		return kv.None(), false, nil
	}
	return old, true, nil
}

func (s *storeImpl) Contains(table, key string) (bool, error) {
	t := s.getTable(table)
	if t == nil {
		return false, nil
	}
	_, ok := t.Load(key)
	return ok, nil
}

func (s *storeImpl) Del(table, key string) (kv.Value, bool, error) {
	t := s.getTable(table)
	if t == nil {
		return kv.None(), false, nil
	}
	old, loaded := t.LoadAndDelete(key)
	if !loaded {
		return kv.None(), false, nil
	}
	return old, true, nil
}

func (s *storeImpl) GetAll(table string) ([]kv.Kvpair, error) {
	t := s.getTable(table)
	if t == nil {
		return []kv.Kvpair{}, nil
	}

	pairs := make([]kv.Kvpair, 0, t.Size())
	t.Range(func(key string, value kv.Value) bool {
		pairs = append(pairs, kv.NewKvpair(key, value))
		return true
	})
	kv.SortPairs(pairs)
	return pairs, nil
}

func (s *storeImpl) GetIter(table string) (iter.Seq2[kv.Kvpair, error], error) {
	t := s.getTable(table)
	if t == nil {
		return func(func(kv.Kvpair, error) bool) {}, nil
	}

	// only the keys are snapshotted, values are loaded when they are consumed
	keys := sortedKeys(t)
	return func(yield func(kv.Kvpair, error) bool) {
		for _, key := range keys {
			value, ok := t.Load(key)
			if !ok {
				continue // deleted after the snapshot
			}
			if !yield(kv.NewKvpair(key, value), nil) {
				return
			}
		}
	}, nil
}

func (s *storeImpl) Close() error {
	s.tables.Clear()
	return nil
}
