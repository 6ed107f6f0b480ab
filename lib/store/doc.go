// Package store provides the storage abstraction of hKV: a capability interface
// for table based key-value operations that every backend implements, so the
// same command semantics run against memory or against a durable, ordered keyspace.
//
// The package focuses on:
//   - A unified interface (Storage) for table operations across different backends
//   - Pluggable storage backend architecture through the Factory pattern
//
// Key Components:
//
//   - Storage Interface: get, set, contains, del, get_all and get_iter on named
//     tables. Set and Del return the previous value, which lets callers tell
//     inserts from overwrites. GetIter returns an iter.Seq2 that can be ranged
//     over and abandoned early.
//
//   - Error System: Backends only fail with *kv.Error values of kind StorageError
//     (the backend could not complete the operation) or DecodeError (stored
//     bytes are corrupted). A missing key is reported through the loaded flag.
//
//   - Factory: A function type that abstracts the creation of a backend,
//     used by the server and by the conformance suite in store/testing.
//
// Implementations:
//
//	- Local Store (lstore): in-memory table-of-tables built on xsync maps.
//	  Reads never block, a write only locks the bucket of the key it changes.
//	  Available in the "github.com/ValentinKolb/hKV/lib/store/lstore" package.
//
//	- Pebble Store (pstore): durable backend on a single ordered pebble keyspace.
//	  Available in the "github.com/ValentinKolb/hKV/lib/store/pstore" package.
//
//	- Bolt Store (bstore): durable backend on a single bbolt bucket with the
//	  same key layout. Available in the "github.com/ValentinKolb/hKV/lib/store/bstore" package.
//
// Key Layout of the durable backends:
//
//	Both durable backends share one keyspace between all tables. The stored key is
//
//	    uvarint(len(table)) ++ table ++ key
//
//	Length prefixing means no table name can be confused with another table's
//	prefix (table "ab" key "c" and table "a" key "bc" are different keys) and
//	all keys of a table are contiguous, so get_all is a bounded range scan.
package store
