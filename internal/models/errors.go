package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCount is returned when a counter update would break
	// 0 <= read <= owned <= total volumes.
	ErrInvalidCount = errors.New("invalid count")

	// ErrNotSaved is returned when counters are changed for an item that is
	// not in the collection.
	ErrNotSaved = errors.New("item is not saved")

	// ErrNotInitialized is returned when an engine is built without one of
	// its required collaborators.
	ErrNotInitialized = errors.New("not initialized")
)

// GatewayErrorKind classifies remote catalog failures.
type GatewayErrorKind string

const (
	GatewayTransport GatewayErrorKind = "transport"
	GatewayStatus    GatewayErrorKind = "status"
	GatewayDecode    GatewayErrorKind = "decode"
)

// GatewayError is returned by every catalog gateway call that fails. No
// partial data accompanies it.
type GatewayError struct {
	Kind       GatewayErrorKind
	StatusCode int
	Err        error
}

func (e *GatewayError) Error() string {
	switch e.Kind {
	case GatewayStatus:
		return fmt.Sprintf("Status code %d", e.StatusCode)
	case GatewayDecode:
		return fmt.Sprintf("JSON parsing error: %v", e.Err)
	default:
		return fmt.Sprintf("General error: %v", e.Err)
	}
}

func (e *GatewayError) Unwrap() error { return e.Err }

// PersistenceError is returned when the local store cannot be read or written.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("could not %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Describe turns an error into the message stored in an engine error slot.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr.Error()
	}
	var pErr *PersistenceError
	if errors.As(err, &pErr) {
		return "Saved items could not be loaded: " + pErr.Err.Error()
	}
	if errors.Is(err, ErrInvalidCount) {
		return "The provided data is not valid."
	}
	return fmt.Sprintf("Unknown error: %v", err)
}
