package session

import "errors"

// Domain errors for the session package.
var (
	// ErrValidation is returned when caller-supplied credentials fail a
	// precondition. Raised before any plugin call is attempted.
	ErrValidation = errors.New("session: invalid input")

	// ErrDeviceNotFound is returned when an operation references a device
	// id absent from the registry. No plugin call is performed.
	ErrDeviceNotFound = errors.New("session: device not found")

	// ErrOperationFailed is returned when a plugin call reports a
	// non-success status with no more specific classification available.
	ErrOperationFailed = errors.New("session: operation failed")

	// ErrInvalidDeviceID is returned when a device id cannot be parsed
	// back into host and port.
	ErrInvalidDeviceID = errors.New("session: invalid device id")
)
