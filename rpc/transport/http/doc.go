// Package http implements an HTTP-based transport layer for the hKV RPC system.
// Every serialized request is the body of a POST to /v1/command and the
// serialized response is the body of the reply.
//
// Key Components:
//
//   - httpClientTransport: Implements IRPCClientTransport. Endpoints are selected
//     round robin, transport failures are retried with jittered exponential
//     backoff. Endpoints without a scheme get http://.
//
//   - httpServerTransport: Implements IRPCServerTransport on a net/http server.
//     Request bodies above the max frame size are answered with 413, a request
//     rejected by the handler with 400. The server shuts down gracefully when
//     the Listen context is cancelled.
//
// Thread Safety:
//
//	The client transport is thread-safe and can be used concurrently, the
//	round-robin counter is atomic.
package http
