package client

import (
	"errors"
	"fmt"

	"github.com/ValentinKolb/hKV/lib/command"
	"github.com/lni/dragonboat/v4/logger"
)

var (
	Logger = logger.GetLogger("rpc/client")
)

// StatusError is returned for every response with a status other than 200
type StatusError struct {
	Status  uint32
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 response
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Status == command.StatusNotFound
}

// checkResponse converts a non 200 response to a StatusError
func checkResponse(resp *command.Response) error {
	if resp.OK() {
		return nil
	}
	return &StatusError{Status: resp.Status, Message: resp.Message}
}
