package kv

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the Value and Kvpair messages. These are part of the wire
// format and must never change.
const (
	valueFieldString  protowire.Number = 1
	valueFieldBinary  protowire.Number = 2
	valueFieldInteger protowire.Number = 3
	valueFieldFloat   protowire.Number = 4
	valueFieldBool    protowire.Number = 5

	pairFieldKey   protowire.Number = 1
	pairFieldValue protowire.Number = 2
)

// --------------------------------------------------------------------------
// Value Codec
// --------------------------------------------------------------------------

// EncodeValue serializes a Value as a protobuf message. None encodes to an
// empty message.
func EncodeValue(v Value) []byte {
	return AppendValue(nil, v)
}

// AppendValue appends the encoded Value to b.
func AppendValue(b []byte, v Value) []byte {
	switch v.kind {
	case KindString:
		b = protowire.AppendTag(b, valueFieldString, protowire.BytesType)
		b = protowire.AppendString(b, v.str)
	case KindBinary:
		b = protowire.AppendTag(b, valueFieldBinary, protowire.BytesType)
		b = protowire.AppendString(b, v.str)
	case KindInteger:
		b = protowire.AppendTag(b, valueFieldInteger, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(v.num))
	case KindFloat:
		b = protowire.AppendTag(b, valueFieldFloat, protowire.Fixed64Type)
		b = protowire.AppendFixed64(b, math.Float64bits(v.flt))
	case KindBool:
		b = protowire.AppendTag(b, valueFieldBool, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeBool(v.bln))
	}
	return b
}

// DecodeValue parses a Value encoded by EncodeValue. Unknown fields are
// skipped, if several variants are present the last one wins.
func DecodeValue(data []byte) (Value, error) {
	v := None()
	err := ConsumeFields(data, func(num protowire.Number, typ protowire.Type, field []byte) (int, error) {
		switch {
		case num == valueFieldString && typ == protowire.BytesType:
			s, n := protowire.ConsumeString(field)
			v = NewString(s)
			return n, nil
		case num == valueFieldBinary && typ == protowire.BytesType:
			s, n := protowire.ConsumeString(field)
			v = Value{kind: KindBinary, str: s}
			return n, nil
		case num == valueFieldInteger && typ == protowire.VarintType:
			i, n := protowire.ConsumeVarint(field)
			v = NewInteger(int64(i))
			return n, nil
		case num == valueFieldFloat && typ == protowire.Fixed64Type:
			f, n := protowire.ConsumeFixed64(field)
			v = NewFloat(math.Float64frombits(f))
			return n, nil
		case num == valueFieldBool && typ == protowire.VarintType:
			b, n := protowire.ConsumeVarint(field)
			v = NewBool(protowire.DecodeBool(b))
			return n, nil
		default:
			return protowire.ConsumeFieldValue(num, typ, field), nil
		}
	})
	if err != nil {
		return Value{}, err
	}
	return v, nil
}

// --------------------------------------------------------------------------
// Kvpair Codec
// --------------------------------------------------------------------------

// AppendKvpair appends the encoded Kvpair to b.
func AppendKvpair(b []byte, p Kvpair) []byte {
	if p.Key != "" {
		b = protowire.AppendTag(b, pairFieldKey, protowire.BytesType)
		b = protowire.AppendString(b, p.Key)
	}
	b = protowire.AppendTag(b, pairFieldValue, protowire.BytesType)
	b = protowire.AppendBytes(b, EncodeValue(p.Value))
	return b
}

// DecodeKvpair parses a Kvpair encoded by AppendKvpair.
func DecodeKvpair(data []byte) (Kvpair, error) {
	var p Kvpair
	err := ConsumeFields(data, func(num protowire.Number, typ protowire.Type, field []byte) (int, error) {
		switch {
		case num == pairFieldKey && typ == protowire.BytesType:
			s, n := protowire.ConsumeString(field)
			p.Key = s
			return n, nil
		case num == pairFieldValue && typ == protowire.BytesType:
			raw, n := protowire.ConsumeBytes(field)
			if n < 0 {
				return n, nil
			}
			v, err := DecodeValue(raw)
			if err != nil {
				return 0, err
			}
			p.Value = v
			return n, nil
		default:
			return protowire.ConsumeFieldValue(num, typ, field), nil
		}
	})
	return p, err
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// FieldFunc consumes the value of one field from the start of field and
// returns the number of bytes consumed (negative on a protowire parse error).
type FieldFunc func(num protowire.Number, typ protowire.Type, field []byte) (n int, err error)

// ConsumeFields walks all fields of an encoded message and calls fn for each.
// All failures are reported as DecodeError.
func ConsumeFields(data []byte, fn FieldFunc) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return NewDecodeError(protowire.ParseError(n))
		}
		data = data[n:]

		n, err := fn(num, typ, data)
		if err != nil {
			var kvErr *Error
			if errors.As(err, &kvErr) {
				return err
			}
			return NewDecodeError(err)
		}
		if n < 0 {
			return NewDecodeError(fmt.Errorf("field %d: %w", num, protowire.ParseError(n)))
		}
		data = data[n:]
	}
	return nil
}
