package command

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ValentinKolb/hKV/lib/kv"
)

// Status codes used in responses
const (
	StatusOK                  uint32 = http.StatusOK
	StatusBadRequest          uint32 = http.StatusBadRequest
	StatusNotFound            uint32 = http.StatusNotFound
	StatusInternalServerError uint32 = http.StatusInternalServerError
)

// --------------------------------------------------------------------------
// Response Structure
// --------------------------------------------------------------------------

// Response is the result of a single command.
//
// A successful response (status 200) has an empty message and carries either
// Values or Pairs. An error response (status >= 400) only carries the message.
type Response struct {
	Status  uint32      `json:"status"`
	Message string      `json:"message,omitempty"`
	Values  []kv.Value  `json:"values,omitempty"`
	Pairs   []kv.Kvpair `json:"pairs,omitempty"`
}

// --------------------------------------------------------------------------
// Response Factory Functions
// --------------------------------------------------------------------------

// NewValueResponse creates a 200 response carrying a single value
func NewValueResponse(value kv.Value) *Response {
	return &Response{Status: StatusOK, Values: []kv.Value{value}}
}

// NewValuesResponse creates a 200 response carrying the given values
func NewValuesResponse(values ...kv.Value) *Response {
	if values == nil {
		values = []kv.Value{}
	}
	return &Response{Status: StatusOK, Values: values}
}

// NewPairsResponse creates a 200 response carrying the given pairs
func NewPairsResponse(pairs []kv.Kvpair) *Response {
	if pairs == nil {
		pairs = []kv.Kvpair{}
	}
	return &Response{Status: StatusOK, Pairs: pairs}
}

// NewErrorResponse converts an error into a response. *kv.Error values keep
// their kind, every other error is reported as an Internal error.
func NewErrorResponse(err error) *Response {
	var kvErr *kv.Error
	if !errors.As(err, &kvErr) {
		if err == nil {
			err = errors.New("unknown error")
		}
		kvErr = kv.NewInternalError(err.Error())
	}
	return &Response{Status: kvErr.Status(), Message: kvErr.Error()}
}

// --------------------------------------------------------------------------
// Response Helper
// --------------------------------------------------------------------------

// OK returns true if the response has status 200
func (r *Response) OK() bool {
	return r.Status == StatusOK
}

// Value returns the first value of the response or None
func (r *Response) Value() kv.Value {
	if len(r.Values) == 0 {
		return kv.None()
	}
	return r.Values[0]
}

func (r *Response) String() string {
	if r.Message != "" {
		return fmt.Sprintf("Response{status: %d, message: %q}", r.Status, r.Message)
	}
	return fmt.Sprintf("Response{status: %d, values: %v, pairs: %v}", r.Status, r.Values, r.Pairs)
}
