package client

import (
	"fmt"

	"github.com/ValentinKolb/hKV/lib/command"
	"github.com/ValentinKolb/hKV/lib/kv"
	"github.com/ValentinKolb/hKV/rpc/common"
	"github.com/ValentinKolb/hKV/rpc/serializer"
	"github.com/ValentinKolb/hKV/rpc/transport"
)

// Client sends commands to a hKV server
type Client struct {
	config     common.ClientConfig
	transport  transport.IRPCClientTransport
	serializer serializer.IRPCSerializer
}

// NewRPCClient connects the transport and returns a client using it
// The function takes a config, a transport and a serializer as parameters
func NewRPCClient(
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (*Client, error) {
	if err := transport.Connect(config); err != nil {
		return nil, err
	}

	return &Client{
		config:     config,
		transport:  transport,
		serializer: serializer,
	}, nil
}

// Execute sends req and returns the response of the server. Responses with an
// error status are returned as well, only transport and encoding failures are errors.
func (c *Client) Execute(req *command.Request) (*command.Response, error) {
	reqBytes, err := c.serializer.SerializeRequest(req)
	if err != nil {
		return nil, err
	}

	respBytes, err := c.transport.Send(reqBytes)
	if err != nil {
		return nil, err
	}

	resp := &command.Response{}
	if err := c.serializer.DeserializeResponse(respBytes, resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp, nil
}

// Close closes the transport
func (c *Client) Close() error {
	return c.transport.Close()
}

// --------------------------------------------------------------------------
// Commands
// --------------------------------------------------------------------------

// Hget returns the value of key in table. A missing key is a StatusError with
// status 404 (see IsNotFound).
func (c *Client) Hget(table, key string) (kv.Value, error) {
	return c.single(command.NewHget(table, key))
}

// Hgetall returns all pairs of table sorted by key
func (c *Client) Hgetall(table string) ([]kv.Kvpair, error) {
	resp, err := c.execute(command.NewHgetall(table))
	if err != nil {
		return nil, err
	}
	if resp.Pairs == nil {
		return []kv.Kvpair{}, nil
	}
	return resp.Pairs, nil
}

// Hset sets key in table to value and returns the previous value (None for a new key)
func (c *Client) Hset(table, key string, value kv.Value) (kv.Value, error) {
	return c.single(command.NewHset(table, key, value))
}

// Hdel removes key from table and returns the removed value (None if it was absent)
func (c *Client) Hdel(table, key string) (kv.Value, error) {
	return c.single(command.NewHdel(table, key))
}

// Hexist reports whether key exists in table
func (c *Client) Hexist(table, key string) (bool, error) {
	v, err := c.single(command.NewHexist(table, key))
	if err != nil {
		return false, err
	}
	found, ok := v.AsBool()
	if !ok {
		return false, fmt.Errorf("unexpected hexist result %s", v)
	}
	return found, nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// execute sends req and converts error statuses
func (c *Client) execute(req *command.Request) (*command.Response, error) {
	resp, err := c.Execute(req)
	if err != nil {
		return nil, err
	}
	if err := checkResponse(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// single executes a command answered with exactly one value
func (c *Client) single(req *command.Request) (kv.Value, error) {
	resp, err := c.execute(req)
	if err != nil {
		return kv.None(), err
	}
	if len(resp.Values) != 1 {
		return kv.None(), fmt.Errorf("unexpected response to %s: %d values", req.Name(), len(resp.Values))
	}
	return resp.Values[0], nil
}
