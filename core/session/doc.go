// Package session ties the selection reconciler, the edit buffers, the
// editability resolver and short-lived interaction state to one map view.
//
// # Control flow
//
// The map view pushes snapshots to the reconciler. After every pass the
// session re-reads layer policies, revalidates the active edit buffer
// against the new selection, invalidates interaction state when the selection
// changed, and then notifies its own listeners. User clicks flow through
// OnFeatureClicked; BeginEdit creates a buffer for the current mode.
//
// Requests to the map view (flash, zoom, unselect, clear) are fire-and-forget.
// Their effect is observed only through a later snapshot.
//
// A Session is not safe for concurrent use. All calls must be serialised.
package session
