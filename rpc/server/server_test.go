package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ValentinKolb/hKV/lib/kv"
	"github.com/ValentinKolb/hKV/lib/store"
	"github.com/ValentinKolb/hKV/rpc/client"
	"github.com/ValentinKolb/hKV/rpc/common"
	"github.com/ValentinKolb/hKV/rpc/serializer"
	"github.com/ValentinKolb/hKV/rpc/transport"
	"github.com/ValentinKolb/hKV/rpc/transport/tcp"
	"github.com/ValentinKolb/hKV/rpc/transport/unix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freeEndpoint(t *testing.T) string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().String()
}

// runServer serves config until the test ends, the returned channel yields the Serve result
func runServer(t *testing.T, config common.ServerConfig, tr transport.IRPCServerTransport) (*RPCServer, context.CancelFunc, <-chan error) {
	s := NewRPCServer(config, tr, serializer.NewBinarySerializer())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()
	t.Cleanup(cancel)
	return s, cancel, done
}

// dial connects a client, retrying until the server is listening
func dial(t *testing.T, endpoint string, tr transport.IRPCClientTransport) *client.Client {
	config := common.ClientConfig{
		TimeoutSecond: 5,
		Transport: common.ClientTransportConfig{
			Endpoints:              []string{endpoint},
			RetryCount:             3,
			ConnectionsPerEndpoint: 2,
			TCPConf:                common.TCPConf{TCPNoDelay: true, TCPLingerSec: -1},
		},
	}

	var c *client.Client
	require.Eventually(t, func() bool {
		var err error
		c, err = client.NewRPCClient(config, tr, serializer.NewBinarySerializer())
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func checkExampleFlow(t *testing.T, c *client.Client) {
	for _, step := range []struct {
		key   string
		value int64
	}{{"k1", 10}, {"k2", 5}, {"k3", 6}, {"k1", 9}} {
		_, err := c.Hset("t1", step.key, kv.NewInteger(step.value))
		require.NoError(t, err)
	}

	pairs, err := c.Hgetall("t1")
	require.NoError(t, err)
	assert.Equal(t, []kv.Kvpair{
		kv.NewKvpair("k1", kv.NewInteger(9)),
		kv.NewKvpair("k2", kv.NewInteger(5)),
		kv.NewKvpair("k3", kv.NewInteger(6)),
	}, pairs)

	_, err = c.Hget("score", "u1")
	var statusErr *client.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.EqualValues(t, 404, statusErr.Status)
	assert.Contains(t, statusErr.Message, "Not found for table: score, key: u1")
}

func TestServeTCPMemory(t *testing.T) {
	endpoint := freeEndpoint(t)
	metricsEndpoint := freeEndpoint(t)

	_, cancel, done := runServer(t, common.ServerConfig{
		TimeoutSecond:   5,
		Storage:         common.ServerStorageConfig{Backend: "memory"},
		Transport:       common.ServerTransportConfig{Endpoint: endpoint, TCPConf: common.TCPConf{TCPNoDelay: true, TCPLingerSec: -1}},
		MetricsEndpoint: metricsEndpoint,
		LogLevel:        "info",
	}, tcp.NewTCPDefaultServerTransport())

	c := dial(t, endpoint, tcp.NewTCPClientTransport())
	checkExampleFlow(t, c)

	var body []byte
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + metricsEndpoint + MetricsPath)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, err = io.ReadAll(resp.Body)
		return err == nil && resp.StatusCode == http.StatusOK
	}, 5*time.Second, 10*time.Millisecond)
	assert.Contains(t, string(body), `hkv_requests_total{command="hset"} 4`)
	assert.Contains(t, string(body), `hkv_responses_total{status="404"} 1`)
	assert.Contains(t, string(body), `hkv_request_duration_seconds`)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServeUnixBoltPersists(t *testing.T) {
	dir, err := os.MkdirTemp("", "hkv")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	socket := filepath.Join(dir, "hkv.sock")

	config := common.ServerConfig{
		TimeoutSecond: 5,
		Storage:       common.ServerStorageConfig{Backend: "bolt", DataDir: filepath.Join(dir, "data"), NoSync: true},
		Transport:     common.ServerTransportConfig{Endpoint: socket},
	}

	// first run writes, the storage is closed on shutdown
	_, cancel, done := runServer(t, config, unix.NewUnixDefaultServerTransport())
	c := dial(t, socket, unix.NewUnixClientTransport())
	_, err = c.Hset("t1", "k1", kv.NewString("kept"))
	require.NoError(t, err)
	require.NoError(t, c.Close())
	cancel()
	require.NoError(t, <-done)

	// second run reads
	runServer(t, config, unix.NewUnixDefaultServerTransport())
	c = dial(t, socket, unix.NewUnixClientTransport())
	v, err := c.Hget("t1", "k1")
	require.NoError(t, err)
	assert.Equal(t, kv.NewString("kept"), v)
}

func TestProtocolErrorOnlyClosesConnection(t *testing.T) {
	endpoint := freeEndpoint(t)
	runServer(t, common.ServerConfig{
		TimeoutSecond: 5,
		Storage:       common.ServerStorageConfig{Backend: "memory"},
		Transport:     common.ServerTransportConfig{Endpoint: endpoint},
	}, tcp.NewTCPDefaultServerTransport())

	c := dial(t, endpoint, tcp.NewTCPClientTransport())
	_, err := c.Hset("t", "k", kv.NewBool(true))
	require.NoError(t, err)

	// a raw connection sending garbage is dropped by the server
	raw, err := net.Dial("tcp", endpoint)
	require.NoError(t, err)
	defer raw.Close()
	_, err = raw.Write([]byte{0, 0, 0, 2, 0x0a, 0x7f})
	require.NoError(t, err)
	require.NoError(t, raw.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, err = raw.Read(make([]byte, 1))
	assert.ErrorIs(t, err, io.EOF)

	// other clients are not affected
	found, err := c.Hexist("t", "k")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestOpenStorage(t *testing.T) {
	for _, backend := range []string{"memory", "pebble", "bolt"} {
		t.Run(backend, func(t *testing.T) {
			s, err := OpenStorage(common.ServerStorageConfig{Backend: backend, DataDir: t.TempDir(), NoSync: true})
			require.NoError(t, err)
			defer s.Close()

			_, _, err = s.Set("t", "k", kv.NewInteger(1))
			require.NoError(t, err)
			pairs, err := s.GetAll("t")
			require.NoError(t, err)
			assert.Len(t, pairs, 1)
		})
	}

	_, err := OpenStorage(common.ServerStorageConfig{Backend: "redis"})
	assert.Error(t, err)

	_, err = OpenStorage(common.ServerStorageConfig{Backend: string(store.BackendPebble)})
	assert.Error(t, err, "durable backends need a data directory")
}
