package base

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/ValentinKolb/hKV/rpc/common"
	"github.com/ValentinKolb/hKV/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/xid"
)

var Logger = logger.GetLogger("transport")

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IServerConnector defines the interface for transport-specific server operations
type IServerConnector interface {
	// Listen creates a listener and returns it
	Listen(config common.ServerConfig) (net.Listener, error)

	// UpgradeConnection applies socket options to an accepted connection
	UpgradeConnection(conn net.Conn, config common.ServerConfig) error

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string
}

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// serverTransport implements the core server transport functionality
type serverTransport struct {
	connector  IServerConnector
	handler    transport.ServerHandleFunc
	config     common.ServerConfig
	bufferPool *sync.Pool
	conns      *xsync.MapOf[string, net.Conn]
	wg         sync.WaitGroup
}

// -----------------------------------------------------------
// Transport Factory Method (used for tcp, unix, etc.)
// -----------------------------------------------------------

// NewBaseServerTransport creates a new base server transport. bufferSize is
// the size of the pooled read buffers, larger requests use a temporary buffer.
func NewBaseServerTransport(connector IServerConnector, bufferSize int) transport.IRPCServerTransport {
	return &serverTransport{
		connector: connector,
		conns:     xsync.NewMapOf[string, net.Conn](),
		bufferPool: &sync.Pool{
			New: func() any {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCServerTransport)
// --------------------------------------------------------------------------

func (t *serverTransport) RegisterHandler(handler transport.ServerHandleFunc) {
	t.handler = handler
}

func (t *serverTransport) Listen(ctx context.Context, config common.ServerConfig) error {
	if t.handler == nil {
		return errors.New("no handler registered")
	}
	t.config = config

	// Create listener using the connector
	listener, err := t.connector.Listen(config)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	Logger.Infof("Starting %s server on %s", t.connector.GetName(), config.Transport.Endpoint)

	// Closing the listener ends the accept loop, closing the connections ends their read loops
	stop := context.AfterFunc(ctx, func() {
		_ = listener.Close()
		t.conns.Range(func(_ string, conn net.Conn) bool {
			_ = conn.Close()
			return true
		})
	})
	defer stop()

	// Accept connections
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				Logger.Warningf("Accept error: %v", err)
				continue
			}
			_ = listener.Close()
			t.wg.Wait()
			return fmt.Errorf("accept failed: %w", err)
		}

		if err := t.connector.UpgradeConnection(conn, config); err != nil {
			Logger.Warningf("Failed to apply socket options: %v", err)
		}

		// Handle the connection in a goroutine
		id := xid.New().String()
		t.conns.Store(id, conn)
		if ctx.Err() != nil {
			_ = conn.Close()
		}
		t.wg.Add(1)
		go func() {
			defer t.wg.Done()
			defer t.conns.Delete(id)
			t.handleConnection(id, conn)
		}()
	}

	t.wg.Wait()
	Logger.Infof("Stopped %s server on %s", t.connector.GetName(), config.Transport.Endpoint)
	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// handleConnection serves the requests of one connection one after another
func (t *serverTransport) handleConnection(id string, conn net.Conn) {
	defer conn.Close()
	Logger.Debugf("[%s] Accepted connection from %s", id, conn.RemoteAddr())

	// Timeout in seconds
	timeout := time.Duration(t.config.TimeoutSecond) * time.Second
	maxSize := t.config.MaxFrameSize()

	reply := func(resp []byte) error {
		if timeout > 0 {
			if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
				return fmt.Errorf("failed to set write deadline: %w", err)
			}
		}
		return WriteFrame(conn, resp)
	}

	// Function to handle one request
	handleRequest := func() error {
		if timeout > 0 {
			if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
				return fmt.Errorf("failed to set read deadline: %w", err)
			}
		}

		// Get a buffer from the pool
		buf := t.bufferPool.Get().(*[]byte)
		defer t.bufferPool.Put(buf)

		data, err := ReadFrame(conn, *buf, maxSize)
		if err != nil {
			return err
		}

		start := time.Now()
		if err := t.handler(data, reply); err != nil {
			return err
		}
		Logger.Debugf("[%s] Processed request of %d bytes in %s", id, len(data), time.Since(start))
		return nil
	}

	// Handle requests in a loop
	for {
		err := handleRequest()

		// Case EOF: Connection closed by client
		if errors.Is(err, io.EOF) {
			Logger.Debugf("[%s] Connection closed by client", id)
			return
		}

		// Case closed: Server shutting down
		if errors.Is(err, net.ErrClosed) {
			Logger.Debugf("[%s] Connection closed by server", id)
			return
		}

		// Case error: log and close connection
		if err != nil {
			Logger.Warningf("[%s] Closing connection: %v", id, err)
			return
		}
	}
}
