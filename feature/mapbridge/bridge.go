package mapbridge

import (
	"sync"
	"time"

	"map-editor/core/feature"
	"map-editor/core/policy"

	"go.uber.org/zap"
)

// RequestKind names a map request.
type RequestKind string

const (
	KindFlash              RequestKind = "flash"
	KindZoomTo             RequestKind = "zoom_to"
	KindZoomToMany         RequestKind = "zoom_to_many"
	KindUnselect           RequestKind = "unselect"
	KindClearLayer         RequestKind = "clear_layer_selection"
	KindSetLayerVisibility RequestKind = "set_layer_visibility"
)

// Request is a queued request for the renderer.
type Request struct {
	Seq       uint64            `json:"seq"`
	Kind      RequestKind       `json:"kind"`
	LayerID   string            `json:"layerId,omitempty"`
	FeatureID string            `json:"featureId,omitempty"`
	Features  []feature.Feature `json:"features,omitempty"`
	Visible   *bool             `json:"visible,omitempty"`
	IssuedAt  time.Time         `json:"issuedAt"`
}

// PolicyProvider returns the current layer policies.
type PolicyProvider func() policy.Set

// Bridge is the map view backed by a remote renderer.
type Bridge struct {
	logger   *zap.Logger
	policies PolicyProvider
	capacity int

	mu          sync.Mutex
	subscribers map[int]func(*feature.Snapshot)
	nextSub     int
	latest      *feature.Snapshot
	queue       []Request
	seq         uint64
	dropped     uint64
}

// NewBridge creates a bridge reading policies from provider.
func NewBridge(cfg Config, provider PolicyProvider, logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	if provider == nil {
		provider = func() policy.Set { return policy.Set{} }
	}
	capacity := cfg.RequestBuffer
	if capacity <= 0 {
		capacity = 256
	}
	return &Bridge{
		logger:      logger,
		policies:    provider,
		capacity:    capacity,
		subscribers: make(map[int]func(*feature.Snapshot)),
	}
}

// Subscribe registers fn and delivers the latest snapshot, if any, before returning.
func (b *Bridge) Subscribe(fn func(*feature.Snapshot)) func() {
	b.mu.Lock()
	id := b.nextSub
	b.nextSub++
	b.subscribers[id] = fn
	latest := b.latest
	b.mu.Unlock()

	if latest != nil {
		fn(latest)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subscribers, id)
			b.mu.Unlock()
		})
	}
}

// Publish replaces the latest snapshot and delivers it to every subscriber.
// A snapshot older than the latest one is still delivered but does not
// replace it. Subscribers are called without the bridge lock held.
func (b *Bridge) Publish(snap *feature.Snapshot) {
	b.mu.Lock()
	if !olderThan(snap, b.latest) {
		b.latest = snap
	}
	subs := make([]func(*feature.Snapshot), 0, len(b.subscribers))
	for _, fn := range b.subscribers {
		subs = append(subs, fn)
	}
	b.mu.Unlock()

	b.logger.Debug("Snapshot published",
		zap.Uint64("version", snap.Version()),
		zap.Int("features", snap.Len()),
		zap.Int("subscribers", len(subs)),
	)
	for _, fn := range subs {
		fn(snap)
	}
}

func olderThan(snap, current *feature.Snapshot) bool {
	if snap == nil || current == nil || snap.Version() == 0 {
		return false
	}
	return snap.Version() < current.Version()
}

func (b *Bridge) enqueue(r Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	r.Seq = b.seq
	r.IssuedAt = time.Now()
	if len(b.queue) >= b.capacity {
		b.dropped++
		b.logger.Warn("Map request queue full, dropping oldest",
			zap.String("kind", string(b.queue[0].Kind)),
			zap.Uint64("dropped_total", b.dropped),
		)
		b.queue = b.queue[1:]
	}
	b.queue = append(b.queue, r)
}

// Drain returns the queued requests in issue order and empties the queue.
func (b *Bridge) Drain() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.queue
	b.queue = nil
	return out
}

// Status describes the bridge for diagnostics.
type Status struct {
	Subscribers   int    `json:"subscribers"`
	Queued        int    `json:"queued"`
	Dropped       uint64 `json:"dropped"`
	LatestVersion uint64 `json:"latestVersion"`
	HasSnapshot   bool   `json:"hasSnapshot"`
}

// Status returns the current bridge status.
func (b *Bridge) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Status{
		Subscribers:   len(b.subscribers),
		Queued:        len(b.queue),
		Dropped:       b.dropped,
		LatestVersion: b.latest.Version(),
		HasSnapshot:   b.latest != nil,
	}
}

func (b *Bridge) RequestFlash(layerID, featureID string) {
	b.enqueue(Request{Kind: KindFlash, LayerID: layerID, FeatureID: featureID})
}

func (b *Bridge) RequestZoomTo(layerID, featureID string) {
	b.enqueue(Request{Kind: KindZoomTo, LayerID: layerID, FeatureID: featureID})
}

func (b *Bridge) RequestZoomToMany(features []feature.Feature) {
	b.enqueue(Request{Kind: KindZoomToMany, Features: append([]feature.Feature(nil), features...)})
}

func (b *Bridge) RequestUnselect(featureID string) {
	b.enqueue(Request{Kind: KindUnselect, FeatureID: featureID})
}

func (b *Bridge) RequestClearLayerSelection(layerID string) {
	b.enqueue(Request{Kind: KindClearLayer, LayerID: layerID})
}

func (b *Bridge) RequestSetLayerVisibility(layerID string, visible bool) {
	b.enqueue(Request{Kind: KindSetLayerVisibility, LayerID: layerID, Visible: &visible})
}

// LayerPolicies returns the provider's current policies.
func (b *Bridge) LayerPolicies() policy.Set {
	return b.policies()
}
