package kv

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// --------------------------------------------------------------------------
// Value Kinds
// --------------------------------------------------------------------------

// Kind identifies which variant of a Value is populated.
type Kind uint8

const (
	KindNone    Kind = iota // 0: No value (e.g. the previous value of a fresh key)
	KindString              // 1: UTF-8 string
	KindInteger             // 2: 64 bit signed integer
	KindFloat               // 3: 64 bit float
	KindBinary              // 4: Arbitrary bytes
	KindBool                // 5: Boolean
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBinary:
		return "binary"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// --------------------------------------------------------------------------
// Value
// --------------------------------------------------------------------------

// Value is the unit of data stored in a table. It is a tagged union over
// none, string, integer, float, binary and bool.
//
// A Value is immutable once constructed and can be copied freely. Binary
// payloads are stored as a string internally, so neither the caller of
// NewBinary nor the caller of AsBinary can modify the stored bytes.
type Value struct {
	kind Kind
	str  string // payload for KindString and KindBinary
	num  int64
	flt  float64
	bln  bool
}

// None returns the empty Value.
func None() Value {
	return Value{}
}

// NewString creates a string Value.
func NewString(s string) Value {
	return Value{kind: KindString, str: s}
}

// NewInteger creates an integer Value.
func NewInteger(i int64) Value {
	return Value{kind: KindInteger, num: i}
}

// NewFloat creates a float Value.
func NewFloat(f float64) Value {
	return Value{kind: KindFloat, flt: f}
}

// NewBinary creates a binary Value. The bytes are copied.
func NewBinary(b []byte) Value {
	return Value{kind: KindBinary, str: string(b)}
}

// NewBool creates a boolean Value.
func NewBool(b bool) Value {
	return Value{kind: KindBool, bln: b}
}

// Kind returns the active variant.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNone reports whether the Value carries no data.
func (v Value) IsNone() bool {
	return v.kind == KindNone
}

// AsString returns the string payload if the Value is a string.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsInteger returns the integer payload if the Value is an integer.
func (v Value) AsInteger() (int64, bool) {
	return v.num, v.kind == KindInteger
}

// AsFloat returns the float payload if the Value is a float.
func (v Value) AsFloat() (float64, bool) {
	return v.flt, v.kind == KindFloat
}

// AsBinary returns a copy of the binary payload if the Value is binary.
func (v Value) AsBinary() ([]byte, bool) {
	if v.kind != KindBinary {
		return nil, false
	}
	return []byte(v.str), true
}

// AsBool returns the boolean payload if the Value is a bool.
func (v Value) AsBool() (bool, bool) {
	return v.bln, v.kind == KindBool
}

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(other Value) bool {
	return v == other
}

// String renders the value for logs and the cli.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return strconv.Quote(v.str)
	case KindInteger:
		return strconv.FormatInt(v.num, 10)
	case KindFloat:
		return strconv.FormatFloat(v.flt, 'g', -1, 64)
	case KindBinary:
		return fmt.Sprintf("0x%x", v.str)
	case KindBool:
		return strconv.FormatBool(v.bln)
	default:
		return "none"
	}
}

// --------------------------------------------------------------------------
// JSON and Gob support (used by the json and gob serializers)
// --------------------------------------------------------------------------

// jsonValue is the wire shape of a Value in JSON, exactly one field is set.
type jsonValue struct {
	String  *string  `json:"string,omitempty"`
	Integer *int64   `json:"integer,omitempty"`
	Float   *float64 `json:"float,omitempty"`
	Binary  *string  `json:"binary,omitempty"` // base64
	Bool    *bool    `json:"bool,omitempty"`
}

// MarshalJSON implements json.Marshaler. None is encoded as null.
func (v Value) MarshalJSON() ([]byte, error) {
	var jv jsonValue
	switch v.kind {
	case KindNone:
		return []byte("null"), nil
	case KindString:
		jv.String = &v.str
	case KindInteger:
		jv.Integer = &v.num
	case KindFloat:
		jv.Float = &v.flt
	case KindBinary:
		encoded := base64.StdEncoding.EncodeToString([]byte(v.str))
		jv.Binary = &encoded
	case KindBool:
		jv.Bool = &v.bln
	default:
		return nil, NewEncodeError(fmt.Errorf("unknown value kind %d", v.kind))
	}
	return json.Marshal(jv)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = None()
		return nil
	}

	var jv jsonValue
	if err := json.Unmarshal(data, &jv); err != nil {
		return NewDecodeError(err)
	}

	switch {
	case jv.String != nil:
		*v = NewString(*jv.String)
	case jv.Integer != nil:
		*v = NewInteger(*jv.Integer)
	case jv.Float != nil:
		*v = NewFloat(*jv.Float)
	case jv.Binary != nil:
		b, err := base64.StdEncoding.DecodeString(*jv.Binary)
		if err != nil {
			return NewDecodeError(err)
		}
		*v = NewBinary(b)
	case jv.Bool != nil:
		*v = NewBool(*jv.Bool)
	default:
		*v = None()
	}
	return nil
}

// GobEncode implements gob.GobEncoder using the binary value codec.
func (v Value) GobEncode() ([]byte, error) {
	return EncodeValue(v), nil
}

// GobDecode implements gob.GobDecoder using the binary value codec.
func (v *Value) GobDecode(data []byte) error {
	decoded, err := DecodeValue(data)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

// --------------------------------------------------------------------------
// Kvpair
// --------------------------------------------------------------------------

// Kvpair is a key together with its value. Pairs are ordered by key.
type Kvpair struct {
	Key   string `json:"key"`
	Value Value  `json:"value"`
}

// NewKvpair creates a new key-value pair.
func NewKvpair(key string, value Value) Kvpair {
	return Kvpair{Key: key, Value: value}
}

// Less orders pairs lexicographically by key.
func (p Kvpair) Less(other Kvpair) bool {
	return p.Key < other.Key
}

// SortPairs sorts pairs in place by key.
func SortPairs(pairs []Kvpair) {
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Less(pairs[j]) })
}
