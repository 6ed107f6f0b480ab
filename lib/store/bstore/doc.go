// Package bstore implements a durable key-value store on top of bbolt
// (go.etcd.io/bbolt) based on the store.Storage interface.
//
// All tables live in one bucket and use the same key layout as pstore, so a
// table is a contiguous range of the bucket's B+tree. Set and Del run the read
// of the previous value and the write in a single read-write transaction,
// which makes the returned previous value exact.
//
// GetIter pages through a table: every page is read in its own short read
// transaction and the consumer only runs between pages. A long running
// consumer therefore never holds a transaction open (bbolt can not grow the
// file while read transactions are open).
package bstore
