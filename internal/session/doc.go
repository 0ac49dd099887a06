// Package session tracks which remote devices are currently connected.
//
// "Connected" is a purely client-side concept layered on top of the plugin's
// stateless login/logout calls: a session exists in the registry if and only
// if the adapter believes the device is authenticated, and the registry is
// the sole source of truth for that fact; the plugin is never re-queried.
//
// Device identity is derived, not assigned: the id is "{host}_{port}", so it
// round-trips back to host and port (except for hosts that themselves
// contain an underscore, a documented edge case).
//
// Channel discovery and disconnect cleanup are best-effort: individual
// sub-operation failures are logged and traced through the telemetry hook
// but never fail the overall call, so results may be incomplete on partial
// discovery failure.
package session
