package command

import (
	"errors"
	"testing"

	"github.com/ValentinKolb/hKV/lib/kv"
	"github.com/ValentinKolb/hKV/lib/store/lstore"
	"github.com/ValentinKolb/hKV/lib/store/mocks"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchHgetMissing(t *testing.T) {
	resp := Dispatch(NewHget("score", "u1"), lstore.NewLocalStore())

	assert.Equal(t, StatusNotFound, resp.Status)
	assert.Contains(t, resp.Message, "Not found for table: score, key: u1")
	assert.Empty(t, resp.Values)
	assert.Empty(t, resp.Pairs)
}

func TestDispatchHsetWithoutPair(t *testing.T) {
	resp := Dispatch(&Request{Hset: &Hset{Table: "t1"}}, lstore.NewLocalStore())

	assert.Equal(t, StatusBadRequest, resp.Status)
	assert.Contains(t, resp.Message, "Command is invalid")
	assert.Empty(t, resp.Values)
}

func TestDispatchInvalidRequests(t *testing.T) {
	s := lstore.NewLocalStore()

	for name, req := range map[string]*Request{
		"nil":      nil,
		"empty":    {},
		"multiple": {Hget: &Hget{Table: "t", Key: "k"}, Hdel: &Hdel{Table: "t", Key: "k"}},
	} {
		t.Run(name, func(t *testing.T) {
			resp := Dispatch(req, s)
			assert.Equal(t, StatusBadRequest, resp.Status)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestDispatchValidRequests(t *testing.T) {
	s := lstore.NewLocalStore()

	resp := Dispatch(NewHset("t1", "hello", kv.NewString("world")), s)
	require.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Message)
	assert.Equal(t, []kv.Value{kv.None()}, resp.Values, "insert returns None")

	resp = Dispatch(NewHset("t1", "hello", kv.NewString("world1")), s)
	require.Equal(t, StatusOK, resp.Status)
	assert.Equal(t, []kv.Value{kv.NewString("world")}, resp.Values, "overwrite returns the previous value")

	resp = Dispatch(NewHget("t1", "hello"), s)
	require.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Message)
	assert.Equal(t, kv.NewString("world1"), resp.Value())

	resp = Dispatch(NewHexist("t1", "hello"), s)
	require.Equal(t, StatusOK, resp.Status)
	assert.Equal(t, kv.NewBool(true), resp.Value())

	resp = Dispatch(NewHdel("t1", "hello"), s)
	require.Equal(t, StatusOK, resp.Status)
	assert.Equal(t, kv.NewString("world1"), resp.Value())

	resp = Dispatch(NewHdel("t1", "hello"), s)
	require.Equal(t, StatusOK, resp.Status)
	assert.Equal(t, kv.None(), resp.Value(), "deleting a missing key is not an error")

	resp = Dispatch(NewHexist("t1", "hello"), s)
	assert.Equal(t, kv.NewBool(false), resp.Value())

	resp = Dispatch(NewHgetall("t1"), s)
	require.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Message)
	assert.NotNil(t, resp.Pairs)
	assert.Empty(t, resp.Pairs)
}

func TestDispatchHgetallSorted(t *testing.T) {
	s := lstore.NewLocalStore()

	Dispatch(NewHset("t1", "k1", kv.NewInteger(10)), s)
	Dispatch(NewHset("t1", "k2", kv.NewInteger(5)), s)
	Dispatch(NewHset("t1", "k3", kv.NewInteger(6)), s)
	Dispatch(NewHset("t1", "k1", kv.NewInteger(9)), s)

	resp := Dispatch(NewHgetall("t1"), s)
	require.Equal(t, StatusOK, resp.Status)
	assert.Equal(t, []kv.Kvpair{
		kv.NewKvpair("k1", kv.NewInteger(9)),
		kv.NewKvpair("k2", kv.NewInteger(5)),
		kv.NewKvpair("k3", kv.NewInteger(6)),
	}, resp.Pairs)
}

func TestDispatchPropagatesBackendErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := mocks.NewMockStorage(ctrl)
	diskErr := kv.NewStorageError(errors.New("disk unreadable"))

	s.EXPECT().Get("t", "k").Return(kv.None(), false, diskErr)
	s.EXPECT().GetAll("t").Return(nil, kv.NewDecodeError(errors.New("corrupted")))
	s.EXPECT().Set("t", "k", kv.NewInteger(1)).Return(kv.None(), false, diskErr)
	s.EXPECT().Del("t", "k").Return(kv.None(), false, diskErr)
	s.EXPECT().Contains("t", "k").Return(false, errors.New("untyped failure"))

	resp := Dispatch(NewHget("t", "k"), s)
	assert.Equal(t, StatusInternalServerError, resp.Status, "a backend error must not look like a missing key")
	assert.Equal(t, "Storage error: disk unreadable", resp.Message)

	resp = Dispatch(NewHgetall("t"), s)
	assert.Equal(t, StatusInternalServerError, resp.Status)
	assert.Equal(t, "Failed to decode value: corrupted", resp.Message)
	assert.Empty(t, resp.Pairs)

	resp = Dispatch(NewHset("t", "k", kv.NewInteger(1)), s)
	assert.Equal(t, StatusInternalServerError, resp.Status)
	assert.Empty(t, resp.Values)

	resp = Dispatch(NewHdel("t", "k"), s)
	assert.Equal(t, StatusInternalServerError, resp.Status)

	resp = Dispatch(NewHexist("t", "k"), s)
	assert.Equal(t, StatusInternalServerError, resp.Status)
	assert.Equal(t, "Internal error: untyped failure", resp.Message)
}

func TestRequestName(t *testing.T) {
	assert.Equal(t, "hget", NewHget("t", "k").Name())
	assert.Equal(t, "hgetall", NewHgetall("t").Name())
	assert.Equal(t, "hset", NewHset("t", "k", kv.None()).Name())
	assert.Equal(t, "hdel", NewHdel("t", "k").Name())
	assert.Equal(t, "hexist", NewHexist("t", "k").Name())
	assert.Equal(t, "invalid", (&Request{}).Name())
}

func TestErrorResponseHasNoPayload(t *testing.T) {
	resp := NewErrorResponse(kv.NewNotFoundError("t", "k"))
	assert.Equal(t, StatusNotFound, resp.Status)
	assert.Nil(t, resp.Values)
	assert.Nil(t, resp.Pairs)
	assert.False(t, resp.OK())
}
