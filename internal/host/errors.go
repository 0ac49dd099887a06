package host

import "errors"

// Domain errors for the host package.
var (
	// ErrNotInitialized is returned when an operation requires a Ready
	// plugin before init has completed.
	ErrNotInitialized = errors.New("host: plugin not initialized")

	// ErrAlreadyInitialized is returned when Init is called on a Ready host.
	ErrAlreadyInitialized = errors.New("host: plugin already initialized")

	// ErrInitInProgress is returned when Init is called while another
	// initialization is in flight.
	ErrInitInProgress = errors.New("host: initialization already in progress")

	// ErrOperationFailed is returned when a plugin call reports a
	// non-success status with no more specific classification available.
	ErrOperationFailed = errors.New("host: plugin operation failed")
)
