package backend

import (
	"errors"
	"fmt"
)

// Kind classifies a backend failure.
type Kind int

const (
	// NetworkFailure is a transport-level failure such as an unreachable host.
	NetworkFailure Kind = iota + 1
	// ServerError is a non-2xx response, optionally carrying a server message.
	ServerError
	// MalformedResponse is a payload of unexpected shape.
	MalformedResponse
)

func (k Kind) String() string {
	switch k {
	case NetworkFailure:
		return "network failure"
	case ServerError:
		return "server error"
	case MalformedResponse:
		return "malformed response"
	}
	return "unknown"
}

// Error is the error type returned by every Client call.
type Error struct {
	Kind    Kind
	Op      string // "create", "cgan", "metrics", ...
	Status  int    // HTTP status for ServerError, else 0
	Message string // human-readable summary
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("%s: %s (HTTP %d)", e.Op, e.Message, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err, or 0 if err is not a backend error.
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return 0
}

// Message returns the user-facing message of err: the server-supplied or
// generic message for backend errors, err.Error() otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var be *Error
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	return err.Error()
}

// Retryable reports whether another attempt could succeed.
func Retryable(err error) bool {
	switch KindOf(err) {
	case NetworkFailure, ServerError, MalformedResponse:
		return true
	}
	return false
}
