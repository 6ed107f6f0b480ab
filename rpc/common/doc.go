// Package common provides the configuration structures and logging utilities
// shared by the client and server side of the hKV RPC system.
//
// Key Components:
//
//   - ServerConfig: Configuration of a server node: storage backend, transport
//     endpoint and socket options, timeouts, frame limit, metrics endpoint and
//     log level. String() renders it for the startup log.
//
//   - ClientConfig: Configuration of a client: endpoints, timeout, retries and
//     connections per endpoint.
//
//   - Logger: A zerolog based implementation of the dragonboat logger interface.
//     InitLoggers installs it as logger factory and sets the level of all hKV
//     loggers, so every package keeps using logger.GetLogger.
package common
