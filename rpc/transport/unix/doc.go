// Package unix implements a transport layer for the hKV RPC system using
// Unix domain sockets, for clients running on the same machine as the server.
//
// Key Components:
//
//   - clientConnector: Establishes connections using Unix domain sockets
//
//   - serverConnector: Creates Unix socket listeners. An existing file at the
//     socket path is removed before listening.
//
// The default buffer size is 64 KB.
package unix
