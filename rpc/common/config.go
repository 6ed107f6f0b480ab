package common

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultMaxFrameSize is the largest frame accepted by the stream transports (64 MiB)
const DefaultMaxFrameSize uint32 = 64 << 20

// --------------------------------------------------------------------------
// Shared transport configuration
// --------------------------------------------------------------------------

// SocketConf holds the socket buffer sizes (in bytes, 0 keeps the OS default)
type SocketConf struct {
	WriteBufferSize int
	ReadBufferSize  int
}

// TCPConf holds the TCP specific socket options
type TCPConf struct {
	TCPNoDelay      bool
	TCPKeepAliveSec int
	TCPLingerSec    int // 0 or negative keeps the OS default
}

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

// ServerStorageConfig selects and configures the storage backend
type ServerStorageConfig struct {
	// Backend is one of memory, pebble, bolt
	Backend string
	// DataDir is the directory of the durable backends
	DataDir string
	// NoSync disables syncing every write of the durable backends
	NoSync bool
}

// ServerTransportConfig configures the listener of the server
type ServerTransportConfig struct {
	// Endpoint is the listen address (host:port or socket path)
	Endpoint string
	// MaxFrameSize is the largest accepted request frame
	MaxFrameSize uint32
	SocketConf
	TCPConf
}

// ServerConfig holds all configuration parameters of the server
type ServerConfig struct {
	// Timeout in seconds for reading a request and writing its response (0 disables deadlines)
	TimeoutSecond int64

	Storage   ServerStorageConfig
	Transport ServerTransportConfig

	// MetricsEndpoint is the listen address of the metrics http server (empty disables it)
	MetricsEndpoint string

	// Logging configuration
	LogLevel string
}

// MaxFrameSize returns the configured frame limit or the default
func (c *ServerConfig) MaxFrameSize() uint32 {
	if c.Transport.MaxFrameSize == 0 {
		return DefaultMaxFrameSize
	}
	return c.Transport.MaxFrameSize
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// RPC settings
	addSection("RPC Server")
	addField("Endpoint", c.Transport.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Max Frame Size", fmt.Sprintf("%d bytes", c.MaxFrameSize()))
	addField("TCP No Delay", strconv.FormatBool(c.Transport.TCPNoDelay))
	addField("TCP Keep Alive", fmt.Sprintf("%d sec", c.Transport.TCPKeepAliveSec))

	// Storage
	addSection("Storage")
	addField("Backend", c.Storage.Backend)
	if c.Storage.Backend != "memory" {
		addField("Data Directory", c.Storage.DataDir)
		addField("Sync Writes", strconv.FormatBool(!c.Storage.NoSync))
	}

	// Metrics
	addSection("Metrics")
	if c.MetricsEndpoint == "" {
		addField("Endpoint", "disabled")
	} else {
		addField("Endpoint", c.MetricsEndpoint)
	}

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

// ClientTransportConfig configures the connections of a client
type ClientTransportConfig struct {
	Endpoints              []string
	RetryCount             int
	ConnectionsPerEndpoint int
	MaxFrameSize           uint32
	SocketConf
	TCPConf
}

// ClientConfig holds all configuration parameters of the client
type ClientConfig struct {
	TimeoutSecond int
	Transport     ClientTransportConfig
}

// MaxFrameSize returns the configured frame limit or the default
func (c *ClientConfig) MaxFrameSize() uint32 {
	if c.Transport.MaxFrameSize == 0 {
		return DefaultMaxFrameSize
	}
	return c.Transport.MaxFrameSize
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// General Client Settings
	addSection("Client Configuration")
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Retry Count", strconv.Itoa(c.Transport.RetryCount))
	addField("Connections Per Endpoint", strconv.Itoa(int(math.Max(1, float64(c.Transport.ConnectionsPerEndpoint)))))

	// Endpoints
	addSection("Endpoints")
	for i, endpoint := range c.Transport.Endpoints {
		addField(strconv.Itoa(i), endpoint)
	}

	return sb.String()
}
