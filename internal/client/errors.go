package client

import (
	"context"
	"errors"
	"net"
)

// ErrTimeout marks a transport failure caused by the request deadline. The
// UI distinguishes timeouts (weak signal) from other connectivity failures
// (no coverage) in its messaging.
var ErrTimeout = errors.New("request timed out")

// APIError is an application-level error reported by the remote service
// (error:true in the response body). Its message is shown verbatim.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return "unknown server error"
	}
	return e.Message
}

// TransportError is a non-timeout connectivity failure: DNS, refused
// connection, dropped link. The UI maps it to a "probably no coverage"
// message.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return "connection failed: " + e.Cause.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// classify maps a transport error to ErrTimeout when the cause was a
// deadline, and wraps everything else as a TransportError.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	return &TransportError{Cause: err}
}
