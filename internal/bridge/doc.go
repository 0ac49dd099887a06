// Package bridge normalises the vendor plugin's legacy calling convention
// into ordinary Go calls.
//
// The plugin mixes three completion styles: synchronous return values,
// success/error callback pairs carried in a trailing options map, and a
// reserved numeric sentinel for immediate failure. Bridge collapses all of
// them into two primitives:
//
//   - CallSync: invoke and return the raw result
//   - CallAsync: invoke and block until exactly one outcome is settled
//
// CallAsync carries a settle-once guard: vendor callbacks are not trusted to
// fire exactly once, so the first of {callback success, callback error,
// non-nil synchronous return} wins and every later signal is ignored.
// Caller-supplied callbacks found on the options map are chained, not
// discarded: the original callback runs before the bridge settles.
//
// The bridge never retries and cannot cancel a call already issued to the
// plugin; abandoning the context only stops the caller from waiting.
package bridge
