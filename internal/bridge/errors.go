package bridge

import (
	"errors"
	"fmt"
)

// Domain errors for the bridge package.
var (
	// ErrNilHandle is returned by New when no plugin handle is supplied.
	ErrNilHandle = errors.New("bridge: nil plugin handle")

	// ErrMethodMissing is returned when the named vendor method does not
	// exist on the current plugin handle. Never retried here.
	ErrMethodMissing = errors.New("bridge: vendor method missing")

	// ErrCallFailed is the sentinel matched by errors.Is for any vendor
	// call failure. The concrete error is always a *CallError.
	ErrCallFailed = errors.New("bridge: vendor call failed")
)

// CallError describes a failed vendor call with enough structure that
// callers can distinguish failure causes without parsing prose.
type CallError struct {
	// Method is the vendor method name that failed.
	Method string

	// Status is the vendor's numeric status code. Valid only when
	// HasStatus is true; some failure paths carry no code.
	Status    int
	HasStatus bool

	// Diagnostic is the serialised diagnostic document the plugin
	// supplied with the failure, if any.
	Diagnostic string

	// Cause is the original error payload.
	Cause error
}

func (e *CallError) Error() string {
	msg := fmt.Sprintf("bridge: call %q failed", e.Method)
	if e.HasStatus {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes the original error payload to errors.Is/As chains.
func (e *CallError) Unwrap() error { return e.Cause }

// Is matches ErrCallFailed so callers can classify without type-asserting.
func (e *CallError) Is(target error) bool { return target == ErrCallFailed }
