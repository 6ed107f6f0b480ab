// Package base provides the stream transport shared by the tcp and unix
// transports. It implements framing, the server accept loop and the pooled
// client independent of the network protocol, which is supplied by an
// IClientConnector or IServerConnector.
//
// Frame format:
//
//	+----------------------+-------------------+
//	| length (uint32, BE)  | payload (length)  |
//	+----------------------+-------------------+
//
// Frames larger than the configured max frame size (default 64 MiB) are a
// protocol error and close the connection. Zero length frames are legal.
//
// Key Components:
//
//   - serverTransport: Accepts connections and serves each in its own goroutine.
//     Requests of one connection are handled strictly one after another: the
//     server reads a frame, calls the handler and writes the response before it
//     reads the next frame. Read buffers come from a sync.Pool. Every connection
//     gets an xid used in the log lines.
//
//   - clientTransport: Holds ConnectionsPerEndpoint connections per endpoint and
//     selects them round robin. A request holds its connection exclusively for
//     the write and the read of the response, so there is no request id on the
//     wire. A failed connection is closed and redialed on its next use, failed
//     requests are retried on the next connection with jittered exponential backoff.
//
// Thread Safety:
//
//	All public methods are thread-safe.
package base
