package unix

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ValentinKolb/hKV/rpc/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnixSendReceive(t *testing.T) {
	// socket paths are limited to ~100 bytes, t.TempDir can be longer
	dir, err := os.MkdirTemp("", "hkv")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	socket := filepath.Join(dir, "hkv.sock")

	// a stale socket file is replaced
	require.NoError(t, os.WriteFile(socket, nil, 0o600))

	srv := NewUnixDefaultServerTransport()
	srv.RegisterHandler(func(req []byte, reply func([]byte) error) error {
		return reply(append(req, '!'))
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Listen(ctx, common.ServerConfig{Transport: common.ServerTransportConfig{Endpoint: socket}})
	}()

	client := NewUnixClientTransport()
	clientConf := common.ClientConfig{
		TimeoutSecond: 5,
		Transport:     common.ClientTransportConfig{Endpoints: []string{socket}, RetryCount: 3},
	}
	require.Eventually(t, func() bool { return client.Connect(clientConf) == nil }, 5*time.Second, 10*time.Millisecond)
	defer client.Close()

	resp, err := client.Send([]byte("hi"))
	require.NoError(t, err)
	assert.Equal(t, "hi!", string(resp))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
