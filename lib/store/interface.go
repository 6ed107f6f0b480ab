package store

//go:generate mockgen -source=$GOFILE -destination=mocks/storage.go -package=mocks

import (
	"fmt"
	"iter"

	"github.com/ValentinKolb/hKV/lib/kv"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// Factory is a function type that creates a new storage backend.
// This is used to abstract the creation of the backend from its users (server, tests, benchmarks).
type Factory func() (Storage, error)

// Storage is the generic interface for interacting with a table based key–value store.
// A table is a named, independent key space. Tables are created lazily by the first Set
// and are never removed, even if their last key is deleted.
//
// Every method returns a non-nil error only if the backend itself failed (kv.ErrKindStorage)
// or if stored data could not be decoded (kv.ErrKindDecode). A missing key or table is never an error.
type Storage interface {
	// Get returns the value for a key. The boolean return value indicates whether a value for the key was found.
	Get(table, key string) (value kv.Value, loaded bool, err error)
	// Set inserts or replaces the value of a key atomically and returns the previous value (if any).
	Set(table, key string, value kv.Value) (old kv.Value, loaded bool, err error)
	// Contains returns whether a key exists in a table.
	Contains(table, key string) (loaded bool, err error)
	// Del removes a key and returns the removed value (if any). Deleting a missing key is not an error.
	Del(table, key string) (old kv.Value, loaded bool, err error)
	// GetAll returns all pairs of a table sorted by key. An unknown table yields an empty result.
	GetAll(table string) (pairs []kv.Kvpair, err error)
	// GetIter returns a lazy, single-pass sequence over the pairs of a table sorted by key.
	// It is backed by the same data as GetAll but does not materialize the whole table, so
	// breaking out of the loop early only pays for what was consumed.
	GetIter(table string) (pairs iter.Seq2[kv.Kvpair, error], err error)
	// Close releases the resources held by the backend. The storage must not be used afterward.
	Close() (err error)
}

// --------------------------------------------------------------------------
// Backends
// --------------------------------------------------------------------------

// Backend names a storage implementation.
type Backend string

const (
	BackendMemory Backend = "memory" // in-memory (lstore)
	BackendPebble Backend = "pebble" // durable, ordered keyspace on pebble (pstore)
	BackendBolt   Backend = "bolt"   // durable, ordered keyspace on bbolt (bstore)
)

// ParseBackend converts a configuration string to a Backend.
func ParseBackend(s string) (Backend, error) {
	switch Backend(s) {
	case BackendMemory, BackendPebble, BackendBolt:
		return Backend(s), nil
	default:
		return "", fmt.Errorf("invalid storage backend %q (expected one of: memory, pebble, bolt)", s)
	}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// Collect drains a sequence returned by GetIter into a slice.
// It stops at the first error.
func Collect(pairs iter.Seq2[kv.Kvpair, error]) ([]kv.Kvpair, error) {
	result := make([]kv.Kvpair, 0)
	for pair, err := range pairs {
		if err != nil {
			return nil, err
		}
		result = append(result, pair)
	}
	return result, nil
}
