package kv

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strings"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
)

func testValues() map[string]Value {
	return map[string]Value{
		"none":           None(),
		"string":         NewString("world"),
		"empty-string":   NewString(""),
		"integer":        NewInteger(10),
		"negative":       NewInteger(-42),
		"float":          NewFloat(3.25),
		"inf":            NewFloat(math.Inf(1)),
		"binary":         NewBinary([]byte{0x00, 0xff, 0x10}),
		"bool-true":      NewBool(true),
		"bool-false":     NewBool(false),
		"unicode-string": NewString("käse 🧀"),
	}
}

// --------------------------------------------------------------------------
// Value
// --------------------------------------------------------------------------

func TestValueAccessors(t *testing.T) {
	if s, ok := NewString("a").AsString(); !ok || s != "a" {
		t.Errorf("Expected string a, got %q (ok=%v)", s, ok)
	}
	if _, ok := NewString("a").AsInteger(); ok {
		t.Errorf("String value must not be readable as integer")
	}
	if i, ok := NewInteger(7).AsInteger(); !ok || i != 7 {
		t.Errorf("Expected integer 7, got %d (ok=%v)", i, ok)
	}
	if f, ok := NewFloat(1.5).AsFloat(); !ok || f != 1.5 {
		t.Errorf("Expected float 1.5, got %f (ok=%v)", f, ok)
	}
	if b, ok := NewBool(true).AsBool(); !ok || !b {
		t.Errorf("Expected bool true, got %v (ok=%v)", b, ok)
	}
	if !None().IsNone() || None().Kind() != KindNone {
		t.Errorf("None must have KindNone")
	}
}

func TestBinaryValueIsImmutable(t *testing.T) {
	raw := []byte("abc")
	v := NewBinary(raw)
	raw[0] = 'X'

	got, ok := v.AsBinary()
	if !ok || !bytes.Equal(got, []byte("abc")) {
		t.Errorf("Value changed after modifying the source slice: %q", got)
	}

	got[1] = 'Y'
	again, _ := v.AsBinary()
	if !bytes.Equal(again, []byte("abc")) {
		t.Errorf("Value changed after modifying the returned slice: %q", again)
	}
}

func TestValueEqual(t *testing.T) {
	if !NewInteger(1).Equal(NewInteger(1)) {
		t.Errorf("Equal integers should be equal")
	}
	if NewInteger(1).Equal(NewString("1")) {
		t.Errorf("Values of different kinds must not be equal")
	}
	if !NewBinary([]byte("x")).Equal(NewBinary([]byte("x"))) {
		t.Errorf("Equal binaries should be equal")
	}
	if NewBinary([]byte("x")).Equal(NewString("x")) {
		t.Errorf("Binary and string with the same bytes must not be equal")
	}
}

func TestSortPairs(t *testing.T) {
	pairs := []Kvpair{
		NewKvpair("k3", NewInteger(6)),
		NewKvpair("k1", NewInteger(9)),
		NewKvpair("k2", NewInteger(5)),
	}
	SortPairs(pairs)

	for i, expected := range []string{"k1", "k2", "k3"} {
		if pairs[i].Key != expected {
			t.Errorf("Expected key %s at position %d, got %s", expected, i, pairs[i].Key)
		}
	}
}

// --------------------------------------------------------------------------
// Codec
// --------------------------------------------------------------------------

func TestValueCodecRoundTrip(t *testing.T) {
	for name, v := range testValues() {
		t.Run(name, func(t *testing.T) {
			decoded, err := DecodeValue(EncodeValue(v))
			if err != nil {
				t.Fatalf("Failed to decode: %v", err)
			}
			if !decoded.Equal(v) {
				t.Errorf("Expected %s, got %s", v, decoded)
			}
		})
	}
}

func TestValueWireFormat(t *testing.T) {
	// field 3 (integer), varint 10
	if got := EncodeValue(NewInteger(10)); !bytes.Equal(got, []byte{0x18, 0x0a}) {
		t.Errorf("Unexpected integer encoding: %x", got)
	}
	// field 1 (string), length 2, "hi"
	if got := EncodeValue(NewString("hi")); !bytes.Equal(got, []byte{0x0a, 0x02, 'h', 'i'}) {
		t.Errorf("Unexpected string encoding: %x", got)
	}
	if got := EncodeValue(None()); len(got) != 0 {
		t.Errorf("None should encode to an empty message, got %x", got)
	}
}

func TestDecodeValueSkipsUnknownFields(t *testing.T) {
	b := protowire.AppendTag(nil, 15, protowire.BytesType)
	b = protowire.AppendString(b, "future field")
	b = AppendValue(b, NewInteger(3))

	v, err := DecodeValue(b)
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if !v.Equal(NewInteger(3)) {
		t.Errorf("Expected 3, got %s", v)
	}
}

func TestDecodeValueCorrupted(t *testing.T) {
	corrupted := [][]byte{
		{0x0a, 0x05, 'a'}, // string length exceeds data
		{0x18},            // missing varint
		{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, // invalid tag
	}

	for _, data := range corrupted {
		_, err := DecodeValue(data)
		if err == nil {
			t.Errorf("Expected decode error for %x", data)
			continue
		}
		if KindOf(err) != ErrKindDecode {
			t.Errorf("Expected DecodeError for %x, got %v", data, err)
		}
	}
}

func TestKvpairCodecRoundTrip(t *testing.T) {
	for name, v := range testValues() {
		t.Run(name, func(t *testing.T) {
			pair := NewKvpair("key-"+name, v)
			decoded, err := DecodeKvpair(AppendKvpair(nil, pair))
			if err != nil {
				t.Fatalf("Failed to decode: %v", err)
			}
			if decoded != pair {
				t.Errorf("Expected %v, got %v", pair, decoded)
			}
		})
	}
}

func TestValueJSON(t *testing.T) {
	for name, v := range testValues() {
		if name == "inf" {
			continue // not representable in JSON
		}
		t.Run(name, func(t *testing.T) {
			data, err := json.Marshal(v)
			if err != nil {
				t.Fatalf("Failed to marshal: %v", err)
			}
			var decoded Value
			if err := json.Unmarshal(data, &decoded); err != nil {
				t.Fatalf("Failed to unmarshal %s: %v", data, err)
			}
			if !decoded.Equal(v) {
				t.Errorf("Expected %s, got %s (json %s)", v, decoded, data)
			}
		})
	}

	data, _ := json.Marshal(NewInteger(5))
	if string(data) != `{"integer":5}` {
		t.Errorf("Unexpected json encoding: %s", data)
	}
}

// --------------------------------------------------------------------------
// Errors
// --------------------------------------------------------------------------

func TestErrorRendering(t *testing.T) {
	tests := []struct {
		err     *Error
		message string
		status  uint32
	}{
		{NewNotFoundError("score", "u1"), "Not found for table: score, key: u1", http.StatusNotFound},
		{NewInvalidCommandError("missing pair"), "Command is invalid: `missing pair`", http.StatusBadRequest},
		{NewInternalError("boom"), "Internal error: boom", http.StatusInternalServerError},
		{NewStorageError(errors.New("disk")), "Storage error: disk", http.StatusInternalServerError},
		{NewDecodeError(errors.New("bad")), "Failed to decode value: bad", http.StatusInternalServerError},
		{NewEncodeError(errors.New("bad")), "Failed to encode value: bad", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if tt.err.Error() != tt.message {
			t.Errorf("Expected message %q, got %q", tt.message, tt.err.Error())
		}
		if tt.err.Status() != tt.status {
			t.Errorf("Expected status %d for %s, got %d", tt.status, tt.err.Kind, tt.err.Status())
		}
	}
}

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("io failure")
	wrapped := NewStorageError(cause)

	if !errors.Is(wrapped, cause) {
		t.Errorf("StorageError should unwrap to its cause")
	}
	if KindOf(errors.Join(errors.New("ctx"), wrapped)) != ErrKindStorage {
		t.Errorf("KindOf should find wrapped kv errors")
	}
	if KindOf(errors.New("plain")) != ErrKindInternal {
		t.Errorf("Plain errors should be Internal")
	}
	if !IsNotFound(NewNotFoundError("t", "k")) || IsNotFound(nil) {
		t.Errorf("IsNotFound misclassified")
	}
	if !strings.Contains(NewNotFoundError("t", "k").Error(), "Not found") {
		t.Errorf("NotFound message must contain 'Not found'")
	}
}
