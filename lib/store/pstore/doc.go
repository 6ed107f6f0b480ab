// Package pstore implements a durable key-value store on top of pebble
// (github.com/cockroachdb/pebble) based on the store.Storage interface.
//
// All tables share a single ordered pebble keyspace. The stored key of
// (table, key) is uvarint(len(table)) ++ table ++ key, the stored value is the
// protobuf encoding of the kv.Value. GetAll and GetIter are bounded range
// scans over the table prefix and therefore return pairs in key order.
//
// Set and Del have to return the previous value. The read and the write of one
// key are serialized by a striped lock (FNV-1a hash of the stored key), so
// writers of different keys almost never wait for each other. If the previous
// value can not be decoded, the write is not performed and a DecodeError is
// returned.
//
// Writes are synced to the WAL by default (pebble.Sync). Reads never take a
// lock.
package pstore
