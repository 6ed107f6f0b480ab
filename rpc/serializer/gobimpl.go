package serializer

import (
	"bytes"
	"encoding/gob"

	"github.com/ValentinKolb/hKV/lib/command"
	"github.com/ValentinKolb/hKV/lib/kv"
)

// NewGOBSerializer creates a new serializer using Go's binary gob format
func NewGOBSerializer() IRPCSerializer {
	return &gobSerializerImpl{}
}

// gobSerializerImpl implements the IRPCSerializer interface using gob encoding
type gobSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (g gobSerializerImpl) SerializeRequest(req *command.Request) ([]byte, error) {
	return g.encode(req)
}

func (g gobSerializerImpl) DeserializeRequest(b []byte, req *command.Request) error {
	*req = command.Request{}
	return g.decode(b, req)
}

func (g gobSerializerImpl) SerializeResponse(resp *command.Response) ([]byte, error) {
	return g.encode(resp)
}

func (g gobSerializerImpl) DeserializeResponse(b []byte, resp *command.Response) error {
	*resp = command.Response{}
	return g.decode(b, resp)
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func (g gobSerializerImpl) encode(msg any) ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(msg); err != nil {
		return nil, kv.NewEncodeError(err)
	}
	return buf.Bytes(), nil
}

func (g gobSerializerImpl) decode(b []byte, msg any) error {
	dec := gob.NewDecoder(bytes.NewReader(b))
	if err := dec.Decode(msg); err != nil {
		return kv.NewDecodeError(err)
	}
	return nil
}
