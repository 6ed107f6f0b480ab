package kv

import (
	"errors"
	"fmt"
	"net/http"
)

// --------------------------------------------------------------------------
// Error Kinds
// --------------------------------------------------------------------------

// ErrorKind classifies a failure. Every kind maps to exactly one response status.
type ErrorKind uint8

const (
	ErrKindInternal       ErrorKind = iota // 0: Unexpected failure inside the server
	ErrKindInvalidCommand                  // 1: The request is malformed
	ErrKindNotFound                        // 2: The requested key does not exist
	ErrKindEncode                          // 3: A value could not be serialized
	ErrKindDecode                          // 4: A value could not be deserialized
	ErrKindStorage                         // 5: The storage backend failed
)

// String returns the string representation of an ErrorKind.
func (k ErrorKind) String() string {
	switch k {
	case ErrKindInternal:
		return "Internal"
	case ErrKindInvalidCommand:
		return "InvalidCommand"
	case ErrKindNotFound:
		return "NotFound"
	case ErrKindEncode:
		return "EncodeError"
	case ErrKindDecode:
		return "DecodeError"
	case ErrKindStorage:
		return "StorageError"
	default:
		return "Unknown"
	}
}

// Status returns the response status for the kind.
func (k ErrorKind) Status() uint32 {
	switch k {
	case ErrKindInvalidCommand:
		return http.StatusBadRequest
	case ErrKindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is the typed failure used by storage backends and command execution.
type Error struct {
	Kind  ErrorKind
	Msg   string // Detail for InvalidCommand and Internal
	Table string // Set for NotFound
	Key   string // Set for NotFound
	Err   error  // Underlying cause (may be nil)
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case ErrKindInvalidCommand:
		return fmt.Sprintf("Command is invalid: `%s`", e.Msg)
	case ErrKindNotFound:
		return fmt.Sprintf("Not found for table: %s, key: %s", e.Table, e.Key)
	case ErrKindEncode:
		return fmt.Sprintf("Failed to encode value: %s", e.detail())
	case ErrKindDecode:
		return fmt.Sprintf("Failed to decode value: %s", e.detail())
	case ErrKindStorage:
		return fmt.Sprintf("Storage error: %s", e.detail())
	default:
		return fmt.Sprintf("Internal error: %s", e.detail())
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Status returns the response status for the error.
func (e *Error) Status() uint32 {
	return e.Kind.Status()
}

func (e *Error) detail() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown"
}

// --------------------------------------------------------------------------
// Constructors
// --------------------------------------------------------------------------

// NewInvalidCommandError reports a malformed request.
func NewInvalidCommandError(detail string) *Error {
	return &Error{Kind: ErrKindInvalidCommand, Msg: detail}
}

// NewInternalError reports an unexpected failure.
func NewInternalError(detail string) *Error {
	return &Error{Kind: ErrKindInternal, Msg: detail}
}

// NewNotFoundError reports a missing key in a table.
func NewNotFoundError(table, key string) *Error {
	return &Error{Kind: ErrKindNotFound, Table: table, Key: key}
}

// NewEncodeError wraps a serialization failure.
func NewEncodeError(err error) *Error {
	return &Error{Kind: ErrKindEncode, Err: err}
}

// NewDecodeError wraps a deserialization failure.
func NewDecodeError(err error) *Error {
	return &Error{Kind: ErrKindDecode, Err: err}
}

// NewStorageError wraps a failure of a storage backend.
func NewStorageError(err error) *Error {
	return &Error{Kind: ErrKindStorage, Err: err}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// KindOf returns the kind of err. Errors outside the taxonomy are Internal.
func KindOf(err error) ErrorKind {
	var kvErr *Error
	if errors.As(err, &kvErr) {
		return kvErr.Kind
	}
	return ErrKindInternal
}

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == ErrKindNotFound
}
