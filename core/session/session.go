package session

import (
	"time"

	"map-editor/core/edit"
	"map-editor/core/feature"
	"map-editor/core/policy"
	"map-editor/core/selection"

	"go.uber.org/zap"
)

// Options configures a Session.
type Options struct {
	Logger *zap.Logger
	// Committer receives committed edits. Commits are skipped without one.
	Committer Committer
	// ExcludedOverride, when non-nil, replaces every layer's excluded properties.
	ExcludedOverride []string
	// Now stamps commits; defaults to time.Now.
	Now func() time.Time
}

// Session is the engine facade used by display components.
type Session struct {
	view   MapView
	logger *zap.Logger
	opts   Options

	reconciler  *selection.Reconciler
	policies    policy.Set
	buffer      edit.Buffer
	interaction Interaction
	listeners   []func(Event)
}

// New creates an idle session over view.
func New(view MapView, opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Session{
		view:     view,
		logger:   opts.Logger,
		opts:     opts,
		policies: policy.Set{},
	}
	s.reconciler = selection.New(s.refreshPolicies, opts.Logger.Named("selection"))
	s.reconciler.OnChange(s.afterPass)
	return s
}

// refreshPolicies re-reads the layer policies; it runs at the start of every pass.
func (s *Session) refreshPolicies() selection.Keyring {
	if s.view != nil {
		if set := s.view.LayerPolicies(); set != nil {
			s.policies = set
			return set
		}
	}
	s.policies = policy.Set{}
	return s.policies
}

// Start subscribes to the map view. It reports false when the view is
// missing or the session is already started.
func (s *Session) Start() bool {
	if s.view == nil {
		s.logger.Warn("Session start skipped: no map view")
		return false
	}
	s.refreshPolicies()
	return s.reconciler.Subscribe(s.view)
}

// Close unsubscribes and drops all selection and edit state.
func (s *Session) Close() {
	s.reconciler.Close()
	s.buffer = nil
	s.interaction.Invalidate()
}

// Status returns the reconciler status.
func (s *Session) Status() selection.Status {
	return s.reconciler.Status()
}

// OnChange registers a listener called after every reconciliation pass.
func (s *Session) OnChange(fn func(Event)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Session) afterPass(c selection.Change) {
	discarded := s.revalidateBuffer()
	if c.SelectionChanged {
		s.interaction.Invalidate()
	}

	ev := Event{Selection: c, BufferDiscarded: discarded}
	for _, fn := range s.listeners {
		fn(ev)
	}
}

// revalidateBuffer keeps the active buffer consistent with the selection and
// reports whether it was discarded.
func (s *Session) revalidateBuffer() bool {
	if s.buffer == nil {
		return false
	}

	multi := s.reconciler.MultiSelected()
	clicked := s.reconciler.Clicked()

	switch b := s.buffer.(type) {
	case *edit.Single:
		if len(multi) == 0 && clicked != nil && s.sameFeature(b.Target(), *clicked) {
			return false
		}
	case *edit.Multi:
		targets := b.Targets()
		if len(multi) > 0 && len(targets) > 0 && multi[0].LayerID == targets[0].LayerID {
			b.Retarget(multi)
			return false
		}
	}

	s.logger.Debug("Edit buffer discarded after selection change", zap.String("mode", string(s.buffer.Mode())))
	s.buffer = nil
	return true
}

func (s *Session) sameFeature(a, b feature.Feature) bool {
	ida := s.identity(a)
	idb := s.identity(b)
	if ida.IsZero() && idb.IsZero() {
		return feature.SameAttributes(a, b)
	}
	return ida == idb
}

func (s *Session) identity(f feature.Feature) feature.Identity {
	return feature.IdentityOf(f, s.policies.Keys(f.LayerID))
}

// Snapshot returns the current authoritative snapshot.
func (s *Session) Snapshot() *feature.Snapshot {
	return s.reconciler.Snapshot()
}

// MultiSelected returns the multi-selected features.
func (s *Session) MultiSelected() []feature.Feature {
	return s.reconciler.MultiSelected()
}

// Clicked returns the single-selected feature.
func (s *Session) Clicked() *feature.Feature {
	return s.reconciler.Clicked()
}

// Overlay returns the multi-select identities.
func (s *Session) Overlay() feature.IdentitySet {
	return s.reconciler.Overlay()
}

// Policies returns the layer policies read on the last pass.
func (s *Session) Policies() policy.Set {
	return s.policies
}

// Interaction returns the interaction state.
func (s *Session) Interaction() *Interaction {
	return &s.interaction
}

// DisplayName resolves a feature's display name with its layer's keys.
func (s *Session) DisplayName(f feature.Feature) string {
	return feature.ResolveDisplayName(f, s.policies.Keys(f.LayerID))
}

// Identity resolves a feature's identity with its layer's keys.
func (s *Session) Identity(f feature.Feature) feature.Identity {
	return s.identity(f)
}

// OnFeatureClicked forwards a user click to the reconciler.
func (s *Session) OnFeatureClicked(f feature.Feature, modifierHeld bool) {
	s.reconciler.OnFeatureClicked(f, modifierHeld)
}

// SelectAllInLayer selects every identifiable feature of layerID.
func (s *Session) SelectAllInLayer(layerID string) {
	s.reconciler.SelectAllInLayer(layerID)
}

// ClearSelection clears local selection state and asks the map view to clear
// every layer present in the snapshot.
func (s *Session) ClearSelection() {
	if s.reconciler.Status() != selection.Subscribed {
		return
	}
	layers := s.snapshotLayers()
	s.reconciler.ClearSelection()
	for _, l := range layers {
		s.view.RequestClearLayerSelection(l)
	}
}

func (s *Session) snapshotLayers() []string {
	seen := make(map[string]struct{})
	var layers []string
	for _, f := range s.reconciler.Snapshot().Features() {
		if _, ok := seen[f.LayerID]; ok {
			continue
		}
		seen[f.LayerID] = struct{}{}
		layers = append(layers, f.LayerID)
	}
	return layers
}

// Unselect removes f from the local selection and asks the map view to
// deselect it. Features without identity cannot be addressed.
func (s *Session) Unselect(f feature.Feature) {
	id := s.identity(f)
	if id.IsZero() || s.reconciler.Status() != selection.Subscribed {
		s.logger.Debug("Unselect skipped", zap.String("layer", f.LayerID))
		return
	}
	s.reconciler.Remove(id)
	s.view.RequestUnselect(id.FeatureID)
}

// Flash asks the map view to highlight f.
func (s *Session) Flash(f feature.Feature) {
	if id := s.addressable(f); !id.IsZero() {
		s.view.RequestFlash(id.LayerID, id.FeatureID)
	}
}

// ZoomTo asks the map view to frame f.
func (s *Session) ZoomTo(f feature.Feature) {
	if id := s.addressable(f); !id.IsZero() {
		s.view.RequestZoomTo(id.LayerID, id.FeatureID)
	}
}

// ZoomToSelection frames the multi-selected features, or the clicked one.
func (s *Session) ZoomToSelection() {
	if s.view == nil {
		return
	}
	if multi := s.reconciler.MultiSelected(); len(multi) > 0 {
		s.view.RequestZoomToMany(multi)
		return
	}
	if clicked := s.reconciler.Clicked(); clicked != nil {
		s.ZoomTo(*clicked)
	}
}

// SetLayerVisibility forwards a visibility request to the map view.
func (s *Session) SetLayerVisibility(layerID string, visible bool) {
	if s.view == nil {
		return
	}
	s.view.RequestSetLayerVisibility(layerID, visible)
}

func (s *Session) addressable(f feature.Feature) feature.Identity {
	if s.view == nil {
		return feature.Identity{}
	}
	id := s.identity(f)
	if id.IsZero() {
		s.logger.Debug("Map request skipped for feature without identity", zap.String("layer", f.LayerID))
	}
	return id
}

// OpenContextMenu records a context menu opened on f at p.
func (s *Session) OpenContextMenu(f feature.Feature, p Point) {
	s.interaction.OpenContextMenu(ContextMenu{Feature: f, Identity: s.identity(f), At: p})
}

func (s *Session) resolver() policy.Resolver {
	return policy.NewResolver(s.policies, s.reconciler.MultiSelected(), s.reconciler.Clicked())
}

// IsLocked reports whether the active selection may not be edited.
func (s *Session) IsLocked() bool {
	return s.resolver().IsLocked()
}

// EditableFields returns the field configs of the active selection's layer.
func (s *Session) EditableFields() []policy.FieldConfig {
	return s.resolver().EditableFields()
}

// ExcludedProperties returns the attributes hidden for the active selection.
func (s *Session) ExcludedProperties() []string {
	return s.resolver().ExcludedProperties(s.opts.ExcludedOverride)
}
