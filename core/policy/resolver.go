package policy

import "map-editor/core/feature"

// Resolver answers editability questions for the active selection. The
// first feature of the multi-selected list represents a batch; otherwise the
// clicked feature is used.
type Resolver struct {
	layerID string
	policy  LayerEditPolicy
	found   bool
}

// NewResolver picks the representative layer and looks up its policy.
func NewResolver(set Set, multi []feature.Feature, clicked *feature.Feature) Resolver {
	var layerID string
	switch {
	case len(multi) > 0:
		layerID = multi[0].LayerID
	case clicked != nil:
		layerID = clicked.LayerID
	default:
		return Resolver{}
	}
	p, ok := set.Lookup(layerID)
	return Resolver{layerID: layerID, policy: p, found: ok}
}

// LayerID returns the representative layer, "" when nothing is selected.
func (r Resolver) LayerID() string {
	return r.layerID
}

// Policy returns the representative layer's policy.
func (r Resolver) Policy() (LayerEditPolicy, bool) {
	return r.policy, r.found
}

// IsLocked reports whether editing is disallowed. Layers without a policy are locked.
func (r Resolver) IsLocked() bool {
	return !r.found || !r.policy.Editable
}

// EditableFields returns the field configs of the layer, nil without a policy.
func (r Resolver) EditableFields() []FieldConfig {
	if !r.found {
		return nil
	}
	return r.policy.EditableFields
}

// ExcludedProperties returns the hidden attributes. A non-nil override wins
// over the layer's own list; with neither, nothing is excluded.
func (r Resolver) ExcludedProperties(override []string) []string {
	if override != nil {
		return override
	}
	if r.found && r.policy.ExcludedProperties != nil {
		return r.policy.ExcludedProperties
	}
	return []string{}
}
