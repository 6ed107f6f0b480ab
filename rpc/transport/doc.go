// Package transport defines the interfaces for moving serialized requests and
// responses between client and server. Implementations live in the sub
// packages: tcp and unix (length prefixed frames, see base) and http.
//
// Key Components:
//
//   - IRPCClientTransport: connection management and request sending.
//
//   - IRPCServerTransport: receives requests and passes them to the registered
//     ServerHandleFunc until the Listen context is cancelled.
//
//   - RetryBackoff: the retry schedule shared by the client transports.
package transport
