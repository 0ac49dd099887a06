// Package host owns the vendor plugin lifecycle and the session root state.
//
// A Host moves through exactly two persisted states: Uninitialized and
// Ready. Initialization is a single guarded in-flight operation; it cannot
// be started twice, and once Ready a second Init fails fast without
// contacting the plugin.
//
// The host also owns the only mutable display state CamLink keeps: the
// currently active window index. It changes through two code paths only:
// the plugin's window-select hook and explicit caller overrides resolved via
// ResolveWindow. Everything else about windows (which device is playing
// where) is queried live from the plugin, which is the authority.
//
// Every plugin hook installed at init time publishes on the event bus first
// and invokes the optional caller-supplied callback second, so generic
// listeners observe state changes no later than specific callers.
package host
