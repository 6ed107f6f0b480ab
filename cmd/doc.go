// Package cmd implements the command-line interface of hKV. It provides a
// hierarchical command structure with operations for running the server and
// interacting with it as a client.
//
// The package is organized into several subpackages:
//
//   - serve: Starts the hKV server
//   - kv: Client commands (hget, hgetall, hset, hdel, hexist) and the perf load generator
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Every flag can also be set as environment variable with the prefix HKV_
// (e.g. HKV_TRANSPORT_ENDPOINTS), .env and .env.local are loaded on startup.
//
// See hkv -help for a list of all commands.
package cmd
