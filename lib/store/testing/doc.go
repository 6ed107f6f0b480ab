// Package testing provides standardised tests and benchmarks for storage
// backends that satisfy the store.Storage interface.
//
// The package contains:
//   - testing: A conformance suite for the Storage contract (previous values,
//     ordering of GetAll/GetIter, table isolation, concurrent writers)
//   - benchmark: Performance tests for measuring throughput of common operations
//
// Example usage:
//
//	// Creating a factory function for your implementation
//	factory := func() (store.Storage, error) {
//		return NewMyStorage()
//	}
//
//	// Running the standard test suite
//	storetesting.RunStorageTests(t, "MyStorage", factory)
//
//	// Running performance benchmarks
//	storetesting.RunStorageBenchmarks(b, "MyStorage", factory)
package testing
