package serializer

import (
	"encoding/json"

	"github.com/ValentinKolb/hKV/lib/command"
	"github.com/ValentinKolb/hKV/lib/kv"
)

// NewJSONSerializer creates a new serializer using json encoding
func NewJSONSerializer() IRPCSerializer {
	return &jsonSerializerImpl{}
}

// jsonSerializerImpl implements the IRPCSerializer interface using json encoding
type jsonSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (j jsonSerializerImpl) SerializeRequest(req *command.Request) ([]byte, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return nil, kv.NewEncodeError(err)
	}
	return b, nil
}

func (j jsonSerializerImpl) DeserializeRequest(b []byte, req *command.Request) error {
	*req = command.Request{}
	if err := json.Unmarshal(b, req); err != nil {
		return kv.NewDecodeError(err)
	}
	return nil
}

func (j jsonSerializerImpl) SerializeResponse(resp *command.Response) ([]byte, error) {
	b, err := json.Marshal(resp)
	if err != nil {
		return nil, kv.NewEncodeError(err)
	}
	return b, nil
}

func (j jsonSerializerImpl) DeserializeResponse(b []byte, resp *command.Response) error {
	*resp = command.Response{}
	if err := json.Unmarshal(b, resp); err != nil {
		return kv.NewDecodeError(err)
	}
	return nil
}
