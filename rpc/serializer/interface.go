package serializer

import (
	"fmt"

	"github.com/ValentinKolb/hKV/lib/command"
)

// IRPCSerializer is the interface for all message serializers.
// The same serializer must be used by client and server.
type IRPCSerializer interface {
	// SerializeRequest serializes a request into a byte array
	SerializeRequest(req *command.Request) ([]byte, error)
	// DeserializeRequest deserializes a byte array into req
	DeserializeRequest(b []byte, req *command.Request) error
	// SerializeResponse serializes a response into a byte array
	SerializeResponse(resp *command.Response) ([]byte, error)
	// DeserializeResponse deserializes a byte array into resp
	DeserializeResponse(b []byte, resp *command.Response) error
}

// FromName returns the serializer registered under name (binary, json, gob)
func FromName(name string) (IRPCSerializer, error) {
	switch name {
	case "binary":
		return NewBinarySerializer(), nil
	case "json":
		return NewJSONSerializer(), nil
	case "gob":
		return NewGOBSerializer(), nil
	default:
		return nil, fmt.Errorf("invalid serializer %s (expected one of: binary, json, gob)", name)
	}
}
