// Package server implements the RPC server of hKV. It opens the configured
// storage backend, builds a service.Service with the log and metrics hooks and
// registers a handler on the transport that decodes every request, runs it
// through the service and sends the encoded response.
//
// Key Components:
//
//   - NewRPCServer: Factory function creating a server with the specified
//     transport and serializer.
//
//   - OpenStorage: Opens the memory (lstore), pebble (pstore) or bolt (bstore)
//     backend. The durable backends keep their files below the data directory.
//
//   - Metrics: The server owns a VictoriaMetrics set with the request and
//     response counters of service.MetricsHook and the histogram
//     hkv_request_duration_seconds. If a metrics endpoint is configured it is
//     exported on /metrics in the prometheus text format.
//
// Usage Example:
//
//	config := common.ServerConfig{
//	  TimeoutSecond: 5,
//	  Storage:       common.ServerStorageConfig{Backend: "pebble", DataDir: "./data"},
//	  Transport:     common.ServerTransportConfig{Endpoint: "0.0.0.0:8080"},
//	  LogLevel:      "info",
//	}
//
//	s := server.NewRPCServer(
//	  config,
//	  tcp.NewTCPDefaultServerTransport(),
//	  serializer.NewBinarySerializer(),
//	)
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	if err := s.Serve(ctx); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//
// A request that can not be decoded is a protocol error: the transport closes
// the connection of that request, other connections are not affected. All
// other failures are answered with an error status.
//
// Thread Safety:
//
//	Requests of all connections are handled concurrently. Serve should be called only once.
package server
