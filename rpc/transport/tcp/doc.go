// Package tcp implements TCP socket-based transport for the hKV RPC system.
// It provides implementations of the base package's connector interfaces.
//
// The framing, connection pooling and retry logic live in the base package.
// This package only creates the sockets and applies the TCP options
// (no delay, keep-alive, linger, buffer sizes) to every connection.
//
// The default server buffer size is set to 512 KB, larger requests use a
// temporary buffer.
package tcp
