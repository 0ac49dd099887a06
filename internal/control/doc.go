// Package control holds the thin per-feature façades: preview, PTZ,
// recording, capture and volume.
//
// These layers contain no independent logic; they resolve the target window
// through the plugin host, validate caller input locally, marshal arguments
// into bridge calls and emit a typed event on success. Validation and
// session-precondition failures are raised before any plugin call.
package control
