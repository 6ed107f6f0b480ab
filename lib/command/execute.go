package command

import (
	"github.com/ValentinKolb/hKV/lib/kv"
	"github.com/ValentinKolb/hKV/lib/store"
)

// Dispatch executes a request against a storage and shapes the result into a
// response. It never panics and never returns nil, command errors are
// converted with NewErrorResponse.
func Dispatch(req *Request, s store.Storage) *Response {
	if err := req.Validate(); err != nil {
		return NewErrorResponse(err)
	}

	switch {
	case req.Hget != nil:
		return execHget(req.Hget, s)
	case req.Hgetall != nil:
		return execHgetall(req.Hgetall, s)
	case req.Hset != nil:
		return execHset(req.Hset, s)
	case req.Hdel != nil:
		return execHdel(req.Hdel, s)
	default:
		return execHexist(req.Hexist, s)
	}
}

// --------------------------------------------------------------------------
// Per Command Execution
// --------------------------------------------------------------------------

func execHget(cmd *Hget, s store.Storage) *Response {
	value, loaded, err := s.Get(cmd.Table, cmd.Key)
	if err != nil {
		return NewErrorResponse(err)
	}
	if !loaded {
		return NewErrorResponse(kv.NewNotFoundError(cmd.Table, cmd.Key))
	}
	return NewValueResponse(value)
}

func execHgetall(cmd *Hgetall, s store.Storage) *Response {
	pairs, err := s.GetAll(cmd.Table)
	if err != nil {
		return NewErrorResponse(err)
	}
	return NewPairsResponse(pairs)
}

// execHset returns the previous value (None for an insert)
func execHset(cmd *Hset, s store.Storage) *Response {
	if cmd.Pair == nil {
		return NewErrorResponse(kv.NewInvalidCommandError("hset requires a pair"))
	}
	old, _, err := s.Set(cmd.Table, cmd.Pair.Key, cmd.Pair.Value)
	if err != nil {
		return NewErrorResponse(err)
	}
	return NewValueResponse(old)
}

// execHdel returns the removed value (None if the key did not exist)
func execHdel(cmd *Hdel, s store.Storage) *Response {
	old, _, err := s.Del(cmd.Table, cmd.Key)
	if err != nil {
		return NewErrorResponse(err)
	}
	return NewValueResponse(old)
}

func execHexist(cmd *Hexist, s store.Storage) *Response {
	ok, err := s.Contains(cmd.Table, cmd.Key)
	if err != nil {
		return NewErrorResponse(err)
	}
	return NewValueResponse(kv.NewBool(ok))
}
