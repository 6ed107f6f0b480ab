// Package client implements the RPC client of hKV. A Client serializes
// commands, sends them with the configured transport and decodes the response.
//
// Key Components:
//
//   - NewRPCClient: Connects the transport and returns a Client.
//
//   - Execute: Sends any command.Request and returns the raw response,
//     including error statuses.
//
//   - Hget, Hgetall, Hset, Hdel, Hexist: Typed helpers. Responses with a
//     status other than 200 are returned as *StatusError, IsNotFound reports a 404.
//
// Usage Example:
//
//	config := common.ClientConfig{
//	  TimeoutSecond: 5,
//	  Transport: common.ClientTransportConfig{
//	    Endpoints:              []string{"localhost:8080"},
//	    RetryCount:             3,
//	    ConnectionsPerEndpoint: 1,
//	  },
//	}
//
//	c, err := client.NewRPCClient(config, tcp.NewTCPClientTransport(), serializer.NewBinarySerializer())
//	if err != nil {
//	  return err
//	}
//	defer c.Close()
//
//	old, err := c.Hset("score", "u1", kv.NewInteger(10))
//	value, err := c.Hget("score", "u1")
//
// Performance Considerations:
//
//   - A connection serves one request at a time. Increase ConnectionsPerEndpoint
//     for concurrent callers.
//
//   - The binary serializer provides the best performance and smallest payload size.
//
// Thread Safety:
//
//	A Client is safe for concurrent use from multiple goroutines.
package client
