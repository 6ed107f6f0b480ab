package transport

import (
	"context"
	"math/rand"
	"time"

	"github.com/ValentinKolb/hKV/rpc/common"
)

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// ServerHandleFunc is a function type that handles incoming requests.
// It is called by a server transport for every received request and must
// call reply with the serialized response. req is only valid until the
// handler returns. A returned error is a protocol error: the transport logs
// it and closes the connection of the request.
type ServerHandleFunc func(req []byte, reply func(resp []byte) error) error

// IRPCServerTransport is the interface for the server side of the RPC transport layer
type IRPCServerTransport interface {
	// RegisterHandler registers the handler for all received requests
	RegisterHandler(handler ServerHandleFunc)
	// Listen starts the transport layer and serves requests until ctx is
	// cancelled (returns nil) or the listener fails (returns the error)
	Listen(ctx context.Context, config common.ServerConfig) error
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IRPCClientTransport is the interface for the RPC client transport
type IRPCClientTransport interface {
	// Connect initializes the transport with the given configuration
	Connect(config common.ClientConfig) error
	// Send sends a request to the server and returns the response
	Send(req []byte) (resp []byte, err error)
	// Close closes the transport connection
	Close() error
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// RetryBackoff returns the time to wait before retry attempt (starting at 0):
// exponential backoff from 50ms with a random jitter of +-10%.
func RetryBackoff(attempt int) time.Duration {
	backoffMs := 50 << min(attempt, 10)
	jitter := float64(backoffMs) * (0.9 + 0.2*rand.Float64())
	return time.Duration(jitter) * time.Millisecond
}

// Attempts returns the number of attempts for a configured retry count (at least one)
func Attempts(retryCount int) int {
	if retryCount < 1 {
		return 1
	}
	return retryCount
}
