package base

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/hKV/rpc/common"
	"github.com/ValentinKolb/hKV/rpc/transport"
	"github.com/rs/xid"
)

// ErrClosed is returned by Send after the transport was closed
var ErrClosed = errors.New("transport is closed")

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IClientConnector defines the interface for transport-specific connection operations
type IClientConnector interface {
	// Connect establishes a single connection to the endpoint
	Connect(endpoint string) (net.Conn, error)

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string

	// UpgradeConnection applies protocol-specific settings to an established connection
	UpgradeConnection(conn net.Conn, config common.ClientConfig) error
}

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// clientConnection represents a single net connection. A request holds mu
// for its write and the read of the matching response.
type clientConnection struct {
	mu       sync.Mutex
	connMu   sync.Mutex // guards conn
	id       string
	conn     net.Conn // nil until (re)connected
	endpoint string
	parent   *clientTransport
}

// clientTransport implements the core client transport functionality
// independent of the specific transport medium (unix, tcp, etc.)
type clientTransport struct {
	connector     IClientConnector
	config        common.ClientConfig
	connections   []*clientConnection
	connectionsMu sync.RWMutex
	nextConnIndex atomic.Uint64 // Round Robin counter
	stopping      atomic.Bool
}

// -----------------------------------------------------------
// Transport Factory Method (used for tcp, unix, etc.)
// -----------------------------------------------------------

// NewBaseClientTransport creates a new base client transport with the specified connector
func NewBaseClientTransport(connector IClientConnector) transport.IRPCClientTransport {
	return &clientTransport{connector: connector}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCClientTransport)
// --------------------------------------------------------------------------

func (t *clientTransport) Connect(config common.ClientConfig) error {
	if len(config.Transport.Endpoints) == 0 {
		return fmt.Errorf("no endpoints provided")
	}

	// Close all existing connections
	t.closeConnections()
	t.config = config
	t.stopping.Store(false)

	// Set default value for ConnectionsPerEndpoint
	connectionsPerEP := max(1, config.Transport.ConnectionsPerEndpoint)

	connections := make([]*clientConnection, 0, len(config.Transport.Endpoints)*connectionsPerEP)
	connected := 0

	for _, endpoint := range config.Transport.Endpoints {
		// Create multiple connections per endpoint
		for i := 0; i < connectionsPerEP; i++ {
			c := &clientConnection{
				id:       xid.New().String(),
				endpoint: endpoint,
				parent:   t,
			}
			connections = append(connections, c)

			// Failed connections stay in the pool and are retried on use
			if err := c.reconnect(); err != nil {
				Logger.Warningf("Failed to connect to %s (connection %d/%d): %v", endpoint, i+1, connectionsPerEP, err)
				continue
			}
			connected++
		}
	}

	// Check if we have at least one connection
	if connected == 0 {
		for _, c := range connections {
			c.close()
		}
		return fmt.Errorf("failed to connect to any endpoint")
	}

	t.connectionsMu.Lock()
	t.connections = connections
	t.connectionsMu.Unlock()

	Logger.Infof("Connected %d out of %d connections to %d endpoints using %s transport",
		connected, len(connections), len(config.Transport.Endpoints), t.connector.GetName())

	return nil
}

func (t *clientTransport) Send(req []byte) ([]byte, error) {
	var lastErr error

	// We always try at least once, and up to RetryCount times
	attempts := transport.Attempts(t.config.Transport.RetryCount)

	for i := 0; i < attempts; i++ {
		if t.stopping.Load() {
			return nil, ErrClosed
		}

		conn := t.getNextConnection()
		if conn == nil {
			return nil, fmt.Errorf("no connections available")
		}

		// Try with this connection
		data, err := conn.roundTrip(req)
		if err == nil {
			return data, nil
		}

		// Oversize requests fail on every connection
		if errors.Is(err, ErrFrameTooLarge) {
			return nil, err
		}

		lastErr = err
		Logger.Debugf("[%s] Request attempt %d/%d failed: %v", conn.id, i+1, attempts, err)

		if i+1 < attempts {
			time.Sleep(transport.RetryBackoff(i))
		}
	}

	// All attempts failed
	return nil, fmt.Errorf("failed to send request after %d attempts: %w", attempts, lastErr)
}

func (t *clientTransport) Close() error {
	t.stopping.Store(true)
	t.closeConnections()
	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// getNextConnection selects the next connection via Round Robin
func (t *clientTransport) getNextConnection() *clientConnection {
	t.connectionsMu.RLock()
	defer t.connectionsMu.RUnlock()

	switch len(t.connections) {
	case 0:
		return nil
	case 1:
		return t.connections[0]
	}
	index := t.nextConnIndex.Add(1) % uint64(len(t.connections))
	return t.connections[index]
}

// closeConnections closes all connections and empties the pool
func (t *clientTransport) closeConnections() {
	t.connectionsMu.Lock()
	connections := t.connections
	t.connections = nil
	t.connectionsMu.Unlock()

	for _, c := range connections {
		c.close()
	}
}

// roundTrip writes one request frame and reads the response frame.
// Any failure drops the connection so the next use reconnects.
func (c *clientConnection) roundTrip(req []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	maxSize := c.parent.config.MaxFrameSize()
	if uint64(len(req)) > uint64(maxSize) {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrFrameTooLarge, len(req), maxSize)
	}

	conn := c.current()
	if conn == nil {
		if c.parent.stopping.Load() {
			return nil, ErrClosed
		}
		if err := c.dial(); err != nil {
			return nil, err
		}
		conn = c.current()
	}

	if c.parent.config.TimeoutSecond > 0 {
		timeout := time.Duration(c.parent.config.TimeoutSecond) * time.Second
		if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
			c.drop(conn)
			return nil, err
		}
	}

	if err := WriteFrame(conn, req); err != nil {
		c.drop(conn)
		return nil, fmt.Errorf("failed to write request: %w", err)
	}

	data, err := ReadFrame(conn, nil, maxSize)
	if err != nil {
		c.drop(conn)
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return data, nil
}

// reconnect establishes or restores the connection to the endpoint
func (c *clientConnection) reconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drop(c.current())
	return c.dial()
}

// dial opens the connection, c.mu must be held
func (c *clientConnection) dial() error {
	conn, err := c.parent.connector.Connect(c.endpoint)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.endpoint, err)
	}

	// Upgrade the connection with protocol-specific settings
	if err := c.parent.connector.UpgradeConnection(conn, c.parent.config); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to upgrade connection to %s: %w", c.endpoint, err)
	}

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()
	Logger.Debugf("[%s] Connected to %s", c.id, c.endpoint)
	return nil
}

// current returns the open connection or nil
func (c *clientConnection) current() net.Conn {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	return c.conn
}

// drop closes conn if it is still the current connection
func (c *clientConnection) drop(conn net.Conn) {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	if conn != nil && c.conn == conn {
		_ = c.conn.Close()
		c.conn = nil
	}
}

// close closes the socket without waiting for a request in flight, which fails
func (c *clientConnection) close() {
	c.drop(c.current())
}
