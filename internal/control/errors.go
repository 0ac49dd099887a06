package control

import "errors"

// Domain errors for the control package. Input and session precondition
// failures reuse the session package's sentinels so callers check one
// taxonomy.
var (
	// ErrWindowState is returned when a stop or record operation targets a
	// window the plugin reports as not currently playing.
	ErrWindowState = errors.New("control: window not active")
)
