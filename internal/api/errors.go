package api

import (
	"errors"
	"fmt"
)

// ErrCancelled marks a request that was superseded and cancelled.
// Callers must not treat it as a failure or apply it to state.
var ErrCancelled = errors.New("request cancelled")

// ConnectivityError is a transport-level failure: no response reached
// the client.
type ConnectivityError struct {
	Op  string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("%s: connection failed: %v", e.Op, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// ServerError is a non-success response. Message carries the
// server-provided error text when the payload had one.
type ServerError struct {
	Op      string
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: server error (HTTP %d): %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: server error (HTTP %d)", e.Op, e.Status)
}

// IsCancelled reports whether err stems from request cancellation.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
