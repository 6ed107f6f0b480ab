// Package rpc contains the network layer of hKV: everything needed to run the
// store as a server and to talk to it as a client.
//
// The package is organized into several subpackages:
//
//   - common: Configuration structures and the logger setup shared by client and server.
//
//   - transport: Network communication abstractions with pluggable implementations
//     (TCP, Unix sockets, HTTP).
//
//   - serializer: Encoding of command.Request and command.Response with multiple
//     format options (Binary, JSON, GOB).
//
//   - client: The RPC client with typed helpers for every command.
//
//   - server: Opens the storage backend and serves a service.Service over a transport.
package rpc
