package serializer

import (
	"github.com/ValentinKolb/hKV/lib/command"
	"github.com/ValentinKolb/hKV/lib/kv"
	"google.golang.org/protobuf/encoding/protowire"
)

// NewBinarySerializer creates a new serializer using the protobuf wire format.
// Messages produced by it can be read by any protobuf implementation using the
// field numbers below.
func NewBinarySerializer() IRPCSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IRPCSerializer using protowire
type binarySerializerImpl struct {
}

// Field numbers of CommandRequest (a oneof over the commands)
const (
	reqHget    protowire.Number = 1
	reqHgetall protowire.Number = 2
	reqHset    protowire.Number = 3
	reqHdel    protowire.Number = 4
	reqHexist  protowire.Number = 5
)

// Field numbers of the command messages
const (
	cmdTable protowire.Number = 1
	cmdKey   protowire.Number = 2
	cmdPair  protowire.Number = 2 // Hset
)

// Field numbers of CommandResponse
const (
	respStatus  protowire.Number = 1
	respMessage protowire.Number = 2
	respValues  protowire.Number = 3
	respPairs   protowire.Number = 4
)

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) SerializeRequest(req *command.Request) ([]byte, error) {
	var out []byte
	switch {
	case req.Hget != nil:
		out = appendMessage(out, reqHget, appendTableKey(nil, req.Hget.Table, req.Hget.Key))
	case req.Hgetall != nil:
		out = appendMessage(out, reqHgetall, appendString(nil, cmdTable, req.Hgetall.Table))
	case req.Hset != nil:
		msg := appendString(nil, cmdTable, req.Hset.Table)
		if req.Hset.Pair != nil {
			msg = appendMessage(msg, cmdPair, kv.AppendKvpair(nil, *req.Hset.Pair))
		}
		out = appendMessage(out, reqHset, msg)
	case req.Hdel != nil:
		out = appendMessage(out, reqHdel, appendTableKey(nil, req.Hdel.Table, req.Hdel.Key))
	case req.Hexist != nil:
		out = appendMessage(out, reqHexist, appendTableKey(nil, req.Hexist.Table, req.Hexist.Key))
	}
	if out == nil {
		out = []byte{}
	}
	return out, nil
}

func (b binarySerializerImpl) DeserializeRequest(data []byte, req *command.Request) error {
	*req = command.Request{}
	return kv.ConsumeFields(data, func(num protowire.Number, typ protowire.Type, field []byte) (int, error) {
		if typ != protowire.BytesType || num < reqHget || num > reqHexist {
			return protowire.ConsumeFieldValue(num, typ, field), nil
		}

		raw, n := protowire.ConsumeBytes(field)
		if n < 0 {
			return n, nil
		}

		// oneof semantics: the last command wins
		*req = command.Request{}
		switch num {
		case reqHget:
			table, key, err := decodeTableKey(raw)
			req.Hget = &command.Hget{Table: table, Key: key}
			return n, err
		case reqHgetall:
			table, _, err := decodeTableKey(raw)
			req.Hgetall = &command.Hgetall{Table: table}
			return n, err
		case reqHset:
			hset, err := decodeHset(raw)
			req.Hset = hset
			return n, err
		case reqHdel:
			table, key, err := decodeTableKey(raw)
			req.Hdel = &command.Hdel{Table: table, Key: key}
			return n, err
		default:
			table, key, err := decodeTableKey(raw)
			req.Hexist = &command.Hexist{Table: table, Key: key}
			return n, err
		}
	})
}

func (b binarySerializerImpl) SerializeResponse(resp *command.Response) ([]byte, error) {
	out := make([]byte, 0, 16)
	if resp.Status != 0 {
		out = protowire.AppendTag(out, respStatus, protowire.VarintType)
		out = protowire.AppendVarint(out, uint64(resp.Status))
	}
	out = appendString(out, respMessage, resp.Message)
	for _, v := range resp.Values {
		out = appendMessage(out, respValues, kv.EncodeValue(v))
	}
	for _, p := range resp.Pairs {
		out = appendMessage(out, respPairs, kv.AppendKvpair(nil, p))
	}
	return out, nil
}

func (b binarySerializerImpl) DeserializeResponse(data []byte, resp *command.Response) error {
	*resp = command.Response{}
	return kv.ConsumeFields(data, func(num protowire.Number, typ protowire.Type, field []byte) (int, error) {
		switch {
		case num == respStatus && typ == protowire.VarintType:
			status, n := protowire.ConsumeVarint(field)
			resp.Status = uint32(status)
			return n, nil
		case num == respMessage && typ == protowire.BytesType:
			msg, n := protowire.ConsumeString(field)
			resp.Message = msg
			return n, nil
		case num == respValues && typ == protowire.BytesType:
			raw, n := protowire.ConsumeBytes(field)
			if n < 0 {
				return n, nil
			}
			v, err := kv.DecodeValue(raw)
			resp.Values = append(resp.Values, v)
			return n, err
		case num == respPairs && typ == protowire.BytesType:
			raw, n := protowire.ConsumeBytes(field)
			if n < 0 {
				return n, nil
			}
			p, err := kv.DecodeKvpair(raw)
			resp.Pairs = append(resp.Pairs, p)
			return n, err
		default:
			return protowire.ConsumeFieldValue(num, typ, field), nil
		}
	})
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// appendString appends a string field, empty strings are omitted (proto3 default)
func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

// appendMessage appends a nested message field (also if the message is empty)
func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

func appendTableKey(b []byte, table, key string) []byte {
	b = appendString(b, cmdTable, table)
	return appendString(b, cmdKey, key)
}

// decodeTableKey decodes the {table=1, key=2} message shared by most commands
func decodeTableKey(data []byte) (table, key string, err error) {
	err = kv.ConsumeFields(data, func(num protowire.Number, typ protowire.Type, field []byte) (int, error) {
		switch {
		case num == cmdTable && typ == protowire.BytesType:
			s, n := protowire.ConsumeString(field)
			table = s
			return n, nil
		case num == cmdKey && typ == protowire.BytesType:
			s, n := protowire.ConsumeString(field)
			key = s
			return n, nil
		default:
			return protowire.ConsumeFieldValue(num, typ, field), nil
		}
	})
	return table, key, err
}

// decodeHset decodes the {table=1, pair=2} message
func decodeHset(data []byte) (*command.Hset, error) {
	hset := &command.Hset{}
	err := kv.ConsumeFields(data, func(num protowire.Number, typ protowire.Type, field []byte) (int, error) {
		switch {
		case num == cmdTable && typ == protowire.BytesType:
			s, n := protowire.ConsumeString(field)
			hset.Table = s
			return n, nil
		case num == cmdPair && typ == protowire.BytesType:
			raw, n := protowire.ConsumeBytes(field)
			if n < 0 {
				return n, nil
			}
			pair, err := kv.DecodeKvpair(raw)
			if err != nil {
				return 0, err
			}
			hset.Pair = &pair
			return n, nil
		default:
			return protowire.ConsumeFieldValue(num, typ, field), nil
		}
	})
	return hset, err
}
