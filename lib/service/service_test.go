package service

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/ValentinKolb/hKV/lib/command"
	"github.com/ValentinKolb/hKV/lib/kv"
	"github.com/ValentinKolb/hKV/lib/store/lstore"
	"github.com/ValentinKolb/hKV/lib/store/mocks"
	"github.com/VictoriaMetrics/metrics"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteHookOrder(t *testing.T) {
	var events []string
	record := func(name string) { events = append(events, name) }

	svc := New(lstore.NewLocalStore()).
		OnReceived(ReceivedFunc(func(*command.Request) { record("received-1") })).
		OnReceived(ReceivedFunc(func(*command.Request) { record("received-2") })).
		OnExecuted(ExecutedFunc(func(*command.Request, *command.Response) { record("executed") })).
		OnBeforeSend(BeforeSendFunc(func(*command.Response) { record("before-send") })).
		OnAfterSend(AfterSendFunc(func() { record("after-send") })).
		Build()

	resp := svc.Execute(command.NewHget("t", "k"))
	assert.Equal(t, command.StatusNotFound, resp.Status)
	assert.Equal(t, []string{"received-1", "received-2", "executed", "before-send", "after-send"}, events)
}

func TestBeforeSendHooksMutateInOrder(t *testing.T) {
	svc := New(lstore.NewLocalStore()).
		OnBeforeSend(
			BeforeSendFunc(func(resp *command.Response) { resp.Status = 201 }),
			BeforeSendFunc(func(resp *command.Response) { resp.Status++ }),
		).
		Build()

	for _, req := range []*command.Request{
		command.NewHset("t", "k", kv.NewInteger(1)),
		command.NewHget("t", "k"),
		command.NewHget("t", "missing"),
	} {
		assert.Equal(t, uint32(202), svc.Execute(req).Status, "request %s", req)
	}
}

func TestExecutedHookSeesDispatchResult(t *testing.T) {
	var seen uint32
	svc := New(lstore.NewLocalStore()).
		OnExecuted(ExecutedFunc(func(_ *command.Request, resp *command.Response) { seen = resp.Status })).
		OnBeforeSend(BeforeSendFunc(func(resp *command.Response) { resp.Status = 500 })).
		Build()

	assert.Equal(t, uint32(500), svc.Execute(command.NewHgetall("t")).Status)
	assert.Equal(t, command.StatusOK, seen)
}

func TestBuildFreezesHooks(t *testing.T) {
	calls := 0
	builder := New(lstore.NewLocalStore())
	svc := builder.Build()
	builder.OnReceived(ReceivedFunc(func(*command.Request) { calls++ }))

	svc.Execute(command.NewHgetall("t"))
	assert.Equal(t, 0, calls, "hooks registered after Build must not affect the service")
}

func TestHandleAfterSendOnlyOnSuccess(t *testing.T) {
	sent := 0
	svc := New(lstore.NewLocalStore()).
		OnAfterSend(AfterSendFunc(func() { sent++ })).
		Build()

	err := svc.Handle(command.NewHgetall("t"), func(resp *command.Response) error {
		assert.Equal(t, command.StatusOK, resp.Status)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	sendErr := errors.New("connection reset")
	err = svc.Handle(command.NewHgetall("t"), func(*command.Response) error { return sendErr })
	assert.ErrorIs(t, err, sendErr)
	assert.Equal(t, 1, sent, "after-send hooks must not run when sending failed")
}

func TestExecuteBackendError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := mocks.NewMockStorage(ctrl)
	s.EXPECT().Get("t", "k").Return(kv.None(), false, kv.NewStorageError(errors.New("io failure")))

	resp := New(s).Build().Execute(command.NewHget("t", "k"))
	assert.Equal(t, command.StatusInternalServerError, resp.Status)
	assert.Equal(t, "Storage error: io failure", resp.Message)
}

func TestConcurrentExecute(t *testing.T) {
	var (
		mu       sync.Mutex
		received int
	)
	svc := New(lstore.NewLocalStore()).
		OnReceived(ReceivedFunc(func(*command.Request) {
			mu.Lock()
			received++
			mu.Unlock()
		})).
		Build()

	const workers = 16
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				resp := svc.Execute(command.NewHset("t", strings.Repeat("k", w+1), kv.NewInteger(int64(i))))
				assert.Equal(t, command.StatusOK, resp.Status)
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, workers*100, received)
	resp := svc.Execute(command.NewHgetall("t"))
	assert.Len(t, resp.Pairs, workers)
	for _, pair := range resp.Pairs {
		assert.Equal(t, kv.NewInteger(99), pair.Value)
	}
}

func TestMetricsHook(t *testing.T) {
	set := metrics.NewSet()
	hook := NewMetricsHook(set)
	svc := New(lstore.NewLocalStore()).
		OnReceived(hook).
		OnExecuted(hook).
		OnAfterSend(hook).
		Build()

	svc.Execute(command.NewHset("t", "k", kv.NewInteger(1)))
	svc.Execute(command.NewHget("t", "k"))
	svc.Execute(command.NewHget("t", "missing"))

	var buf bytes.Buffer
	set.WritePrometheus(&buf)
	out := buf.String()

	assert.Contains(t, out, `hkv_requests_total{command="hget"} 2`)
	assert.Contains(t, out, `hkv_requests_total{command="hset"} 1`)
	assert.Contains(t, out, `hkv_responses_total{status="200"} 2`)
	assert.Contains(t, out, `hkv_responses_total{status="404"} 1`)
	assert.Contains(t, out, `hkv_responses_sent_total 3`)
}
