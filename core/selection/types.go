package selection

import "map-editor/core/feature"

// Status is the subscription state of a Reconciler.
type Status int

const (
	// Idle means no selection source is attached.
	Idle Status = iota
	// Subscribed means the reconciler tracks one selection source.
	Subscribed
)

func (s Status) String() string {
	switch s {
	case Subscribed:
		return "subscribed"
	default:
		return "idle"
	}
}

// Source is the authoritative selection producer.
type Source interface {
	// Subscribe registers fn for every snapshot and returns the unsubscribe function.
	Subscribe(fn func(*feature.Snapshot)) (unsubscribe func())
}

// Keyring supplies per-layer identity keys. policy.Set satisfies it.
type Keyring interface {
	Keys(layerID string) feature.Keys
}

// KeySource returns the keyring for one pass. It is called at the start of
// every operation so that configuration changes take effect on the next pass.
type KeySource func() Keyring

// Reason names the operation that produced a Change.
type Reason string

const (
	ReasonSubscribed Reason = "subscribed"
	ReasonClosed     Reason = "closed"
	ReasonSnapshot   Reason = "snapshot"
	ReasonStale      Reason = "stale_snapshot"
	ReasonClick      Reason = "click"
	ReasonSelectAll  Reason = "select_all"
	ReasonClear      Reason = "clear"
	ReasonRemove     Reason = "remove"
)

// Change is delivered to listeners after every pass.
type Change struct {
	Reason Reason
	// SelectionChanged reports whether the snapshot identities, the overlay
	// or the clicked slot differ from before the pass.
	SelectionChanged bool
	// Version is the version of the snapshot current after the pass.
	Version uint64
}

// Listener receives change notifications.
type Listener func(Change)

type noKeys struct{}

func (noKeys) Keys(string) feature.Keys { return feature.Keys{} }
