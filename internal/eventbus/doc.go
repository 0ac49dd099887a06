// Package eventbus provides the typed publish/subscribe registry that
// decouples plugin and session events from their listeners.
//
// Guarantees:
//   - handlers for one event fire in subscription order for a given Publish
//   - Publish iterates a snapshot, so subscribing or unsubscribing from
//     inside a handler cannot corrupt or skip an in-progress delivery
//   - a panicking handler is recovered and logged; remaining handlers
//     still run
//   - registering the same handler twice for the same event is idempotent
//
// No ordering is guaranteed across different event names. Delivery is
// synchronous with respect to Publish; handlers that need to block should
// hand off to their own goroutine.
package eventbus
