// Package selection reconciles the local multi-select overlay with the
// authoritative selection pushed by the map renderer.
//
// # State machine
//
// A Reconciler starts Idle. Subscribe moves it to Subscribed once a source is
// available; Close moves it back. Every mutating call checks the status first
// and is a no-op while Idle, so selection state before the first subscription
// is empty.
//
// # Invariants
//
//   - Every overlay member is present in the current snapshot after each
//     snapshot pass; members the renderer dropped are pruned.
//   - All overlay members share one layer. A modified click in another layer
//     starts a new overlay.
//   - The clicked slot and a non-empty overlay are mutually exclusive.
//
// Listeners are notified after every pass, even when nothing changed, so that
// consumers holding derived data always rebuild.
package selection
