// Package lstore implements a local, in-memory key-value store based on the
// store.Storage interface. Data is stored entirely in memory and is not
// persisted between process restarts.
//
// Key Features:
//   - Pure in-memory storage without persistence
//   - Tables are created lazily by the first write and are never removed
//   - Get and Contains never block, not even while other goroutines write
//   - Writes only lock the bucket of the key they change
//
// Implementation Details:
//
//   - Table of Tables: The store is an xsync.MapOf from table name to a second
//     xsync.MapOf from key to kv.Value. Creating a table uses LoadOrCompute, so
//     concurrent first writers of the same table always end up in one instance.
//
//   - Previous Values: Set uses LoadAndStore and Del uses LoadAndDelete. Both
//     run inside the critical section of the key's bucket, so the returned
//     previous value is exactly the one that was replaced.
//
//   - Ordering: xsync maps are unordered. GetAll collects and sorts, GetIter
//     sorts a snapshot of the keys and loads every value only when it is
//     consumed. Keys deleted after the snapshot are skipped.
//
// Usage Example:
//
//	s := lstore.NewLocalStore()
//	old, loaded, err := s.Set("score", "u1", kv.NewInteger(10))
//	value, ok, err := s.Get("score", "u1")
//
// Suitable Use Cases:
//
//	The local store is ideal for:
//	- Ephemeral data that doesn't need to survive process restarts
//	- Testing and development environments
package lstore
