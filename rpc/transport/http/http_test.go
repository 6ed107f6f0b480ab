package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/ValentinKolb/hKV/rpc/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHTTP(t *testing.T) (string, context.CancelFunc, <-chan error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	endpoint := l.Addr().String()
	require.NoError(t, l.Close())

	srv := NewHttpServerTransport()
	srv.RegisterHandler(func(req []byte, reply func([]byte) error) error {
		if string(req) == "fail" {
			return errors.New("rejected")
		}
		return reply(append([]byte("echo:"), req...))
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Listen(ctx, common.ServerConfig{
			TimeoutSecond: 5,
			LogLevel:      "debug",
			Transport:     common.ServerTransportConfig{Endpoint: endpoint, MaxFrameSize: 16},
		})
	}()
	t.Cleanup(cancel)

	require.Eventually(t, func() bool {
		c, err := net.Dial("tcp", endpoint)
		if err == nil {
			_ = c.Close()
		}
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)
	return endpoint, cancel, done
}

func TestHTTPSendReceive(t *testing.T) {
	endpoint, cancel, done := startHTTP(t)

	client := NewHttpClientTransport()
	require.NoError(t, client.Connect(common.ClientConfig{
		TimeoutSecond: 5,
		Transport:     common.ClientTransportConfig{Endpoints: []string{endpoint}, RetryCount: 2},
	}))
	defer client.Close()

	resp, err := client.Send([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, "echo:hello", string(resp))

	// rejected by the handler
	_, err = client.Send([]byte("fail"))
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.Code)

	// above the max frame size
	_, err = client.Send(make([]byte, 17))
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusRequestEntityTooLarge, statusErr.Code)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestHTTPOnlyPost(t *testing.T) {
	endpoint, _, _ := startHTTP(t)

	resp, err := http.Get("http://" + endpoint + CommandPath)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
