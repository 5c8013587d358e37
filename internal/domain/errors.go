package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrAuthRequired  = errors.New("sign in required")
	ErrRemote        = errors.New("remote service error")
	ErrNetwork       = errors.New("network error")
	ErrActiveRequest = errors.New("active request exists")
	ErrUserNotFound  = errors.New("user not found")
	ErrEmptyResponse = errors.New("empty response")
)

// ValidationError reports a required input that was left blank.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// RemoteError is an unusable answer from one of the remote endpoints:
// a non-2xx status, or a 2xx body missing what the call needs (Err).
// Message holds the server supplied error text, if any.
type RemoteError struct {
	Endpoint string
	Status   int
	Message  string
	Err      error
}

func (e *RemoteError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s: status %d: %s", e.Endpoint, e.Status, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: status %d: %v", e.Endpoint, e.Status, e.Err)
	default:
		return fmt.Sprintf("%s: status %d", e.Endpoint, e.Status)
	}
}

func (e *RemoteError) Unwrap() error { return e.Err }

func (e *RemoteError) Is(target error) bool {
	if target == ErrRemote {
		return true
	}
	return target == ErrUserNotFound && e.Status == 404
}

// NetworkError wraps a transport failure (offline, DNS, timeout).
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// UserMessage picks the text shown to the user for err: the server message
// of a RemoteError when present, otherwise fallback.
func UserMessage(err error, fallback string) string {
	var remote *RemoteError
	if errors.As(err, &remote) && remote.Message != "" {
		return remote.Message
	}
	return fallback
}
