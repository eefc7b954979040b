package selection

import (
	"map-editor/core/feature"

	"go.uber.org/zap"
)

// Reconciler owns the multi-select overlay and the clicked-feature slot.
// It is not safe for concurrent use; callers serialise access.
type Reconciler struct {
	logger *zap.Logger
	keys   KeySource

	status      Status
	unsubscribe func()

	snapshot *feature.Snapshot
	overlay  feature.IdentitySet
	// records remembers the feature behind each overlay member so that the
	// multi list can be built before the renderer reports the click.
	records map[feature.Identity]feature.Feature
	multi   []feature.Feature
	clicked *feature.Feature

	listeners []Listener
}

// New creates an Idle reconciler. A nil keys source resolves identities with
// the common identifier names only.
func New(keys KeySource, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		logger:  logger,
		keys:    keys,
		overlay: feature.IdentitySet{},
		records: make(map[feature.Identity]feature.Feature),
	}
}

// OnChange registers a listener.
func (r *Reconciler) OnChange(l Listener) {
	r.listeners = append(r.listeners, l)
}

// Subscribe attaches src and moves to Subscribed. It reports false when src
// is nil or a source is already attached.
func (r *Reconciler) Subscribe(src Source) bool {
	if src == nil {
		r.logger.Debug("Selection source unavailable, staying idle")
		return false
	}
	if r.status == Subscribed {
		return false
	}

	r.status = Subscribed
	r.notify(Change{Reason: ReasonSubscribed})
	// The source may deliver its current snapshot synchronously.
	r.unsubscribe = src.Subscribe(r.OnSnapshotReplaced)
	r.logger.Debug("Selection reconciler subscribed")
	return true
}

// Close detaches the source, clears all reconciled state and returns to Idle.
func (r *Reconciler) Close() {
	if r.status == Idle {
		return
	}
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}

	before := r.capture(r.keyring())
	r.status = Idle
	r.snapshot = nil
	r.resetOverlay()
	r.clicked = nil
	r.notify(Change{Reason: ReasonClosed, SelectionChanged: before.changed(r.capture(noKeys{}))})
	r.logger.Debug("Selection reconciler closed")
}

// Status returns the subscription state.
func (r *Reconciler) Status() Status {
	return r.status
}

// Snapshot returns the current authoritative snapshot, nil before the first one.
func (r *Reconciler) Snapshot() *feature.Snapshot {
	return r.snapshot
}

// MultiSelected returns the multi-selected features in snapshot order.
func (r *Reconciler) MultiSelected() []feature.Feature {
	return append([]feature.Feature(nil), r.multi...)
}

// Clicked returns a copy of the clicked feature, nil when none.
func (r *Reconciler) Clicked() *feature.Feature {
	if r.clicked == nil {
		return nil
	}
	f := *r.clicked
	return &f
}

// Overlay returns a copy of the overlay identities.
func (r *Reconciler) Overlay() feature.IdentitySet {
	return r.overlay.Clone()
}

// OnSnapshotReplaced installs snap as the authoritative selection and prunes
// local state that no longer appears in it. Snapshots carrying an older
// version than the current one are ignored.
func (r *Reconciler) OnSnapshotReplaced(snap *feature.Snapshot) {
	if r.status != Subscribed {
		r.logger.Debug("Snapshot dropped while idle")
		return
	}
	if snap == nil {
		snap = feature.NewSnapshot(r.snapshot.Version())
	}
	if snap.Version() != 0 && snap.Version() < r.snapshot.Version() {
		r.logger.Debug("Stale snapshot ignored",
			zap.Uint64("version", snap.Version()),
			zap.Uint64("current", r.snapshot.Version()),
		)
		r.notify(Change{Reason: ReasonStale, Version: r.snapshot.Version()})
		return
	}

	keys := r.keyring()
	before := r.capture(keys)
	r.snapshot = snap

	ids := snap.Identities(keys.Keys)
	for id := range r.overlay {
		if !ids.Has(id) {
			r.overlay.Remove(id)
			delete(r.records, id)
		}
	}
	r.rebuildMulti(keys)

	if r.clicked != nil {
		r.clicked = r.refreshClicked(*r.clicked, keys, ids)
	}

	r.notify(Change{Reason: ReasonSnapshot, SelectionChanged: before.changed(r.capture(keys)), Version: snap.Version()})
}

// refreshClicked returns the snapshot's record of the clicked feature, or nil
// when it is gone. Features without identity match on equal attributes.
func (r *Reconciler) refreshClicked(clicked feature.Feature, keys Keyring, ids feature.IdentitySet) *feature.Feature {
	id := feature.IdentityOf(clicked, keys.Keys(clicked.LayerID))
	if id.IsZero() {
		if r.snapshot.Contains(clicked) {
			return &clicked
		}
		return nil
	}
	if !ids.Has(id) {
		return nil
	}
	for _, f := range r.snapshot.InLayer(clicked.LayerID) {
		if feature.IdentityOf(f, keys.Keys(f.LayerID)) == id {
			return &f
		}
	}
	return nil
}

// OnFeatureClicked applies a user click. A plain click single-selects f and
// discards any batch. A modified click toggles f in the overlay; features
// without identity degrade to a plain click.
func (r *Reconciler) OnFeatureClicked(f feature.Feature, modifierHeld bool) {
	if r.status != Subscribed {
		r.logger.Debug("Click ignored while idle")
		return
	}

	keys := r.keyring()
	before := r.capture(keys)

	id := feature.Identity{}
	if modifierHeld {
		id = feature.IdentityOf(f, keys.Keys(f.LayerID))
		if id.IsZero() {
			r.logger.Debug("Modified click on feature without identity, treating as plain click",
				zap.String("layer", f.LayerID))
		}
	}

	if id.IsZero() {
		r.resetOverlay()
		clicked := f
		r.clicked = &clicked
	} else {
		if len(r.overlay) > 0 && r.overlay.Layer() != f.LayerID {
			r.resetOverlay()
		}
		if r.overlay.Has(id) {
			r.overlay.Remove(id)
			delete(r.records, id)
		} else {
			r.overlay.Add(id)
			r.records[id] = f
		}
		if len(r.overlay) > 0 {
			r.clicked = nil
		}
		r.rebuildMulti(keys)
	}

	r.notify(Change{Reason: ReasonClick, SelectionChanged: before.changed(r.capture(keys)), Version: r.snapshot.Version()})
}

// SelectAllInLayer replaces the selection with every identifiable feature of
// layerID in the current snapshot. Features without identity are skipped.
func (r *Reconciler) SelectAllInLayer(layerID string) {
	if r.status != Subscribed {
		return
	}

	keys := r.keyring()
	before := r.capture(keys)
	r.resetOverlay()
	r.clicked = nil

	skipped := 0
	for _, f := range r.snapshot.InLayer(layerID) {
		id := feature.IdentityOf(f, keys.Keys(layerID))
		if id.IsZero() {
			skipped++
			continue
		}
		r.overlay.Add(id)
		r.records[id] = f
	}
	if skipped > 0 {
		r.logger.Debug("Features without identity skipped by select all",
			zap.String("layer", layerID), zap.Int("skipped", skipped))
	}
	r.rebuildMulti(keys)

	r.notify(Change{Reason: ReasonSelectAll, SelectionChanged: before.changed(r.capture(keys)), Version: r.snapshot.Version()})
}

// ClearSelection drops the overlay and the clicked feature.
func (r *Reconciler) ClearSelection() {
	if r.status != Subscribed {
		return
	}

	keys := r.keyring()
	before := r.capture(keys)
	r.resetOverlay()
	r.clicked = nil
	r.notify(Change{Reason: ReasonClear, SelectionChanged: before.changed(r.capture(keys)), Version: r.snapshot.Version()})
}

// Remove drops one identity from the overlay, and the clicked feature when it
// carries that identity.
func (r *Reconciler) Remove(id feature.Identity) {
	if r.status != Subscribed {
		return
	}

	keys := r.keyring()
	before := r.capture(keys)
	r.overlay.Remove(id)
	delete(r.records, id)
	if r.clicked != nil && feature.IdentityOf(*r.clicked, keys.Keys(r.clicked.LayerID)) == id {
		r.clicked = nil
	}
	r.rebuildMulti(keys)
	r.notify(Change{Reason: ReasonRemove, SelectionChanged: before.changed(r.capture(keys)), Version: r.snapshot.Version()})
}

// rebuildMulti recomputes the multi list: overlay members in snapshot order,
// followed by members the snapshot does not report yet.
func (r *Reconciler) rebuildMulti(keys Keyring) {
	if len(r.overlay) == 0 {
		r.multi = nil
		return
	}

	seen := make(feature.IdentitySet, len(r.overlay))
	multi := make([]feature.Feature, 0, len(r.overlay))
	for _, f := range r.snapshot.InLayer(r.overlay.Layer()) {
		id := feature.IdentityOf(f, keys.Keys(f.LayerID))
		if !r.overlay.Has(id) || seen.Has(id) {
			continue
		}
		seen.Add(id)
		r.records[id] = f
		multi = append(multi, f)
	}
	for _, id := range r.overlay.Members() {
		if seen.Has(id) {
			continue
		}
		if f, ok := r.records[id]; ok {
			multi = append(multi, f)
		}
	}
	r.multi = multi
}

func (r *Reconciler) resetOverlay() {
	r.overlay.Clear()
	r.records = make(map[feature.Identity]feature.Feature)
	r.multi = nil
}

func (r *Reconciler) keyring() Keyring {
	if r.keys == nil {
		return noKeys{}
	}
	if k := r.keys(); k != nil {
		return k
	}
	return noKeys{}
}

func (r *Reconciler) notify(c Change) {
	for _, l := range r.listeners {
		l(c)
	}
}
