package policy

import (
	"sort"

	"map-editor/core/feature"
)

// LayerEditPolicy is the edit configuration of one layer.
type LayerEditPolicy struct {
	// LayerID is the layer the policy applies to.
	LayerID string `json:"layerId" yaml:"id"`
	// Editable reports whether features of the layer may be edited at all.
	Editable bool `json:"editable" yaml:"editable"`
	// EditableFields lists the attributes offered for editing, in display order.
	EditableFields []FieldConfig `json:"fields" yaml:"fields"`
	// ExcludedProperties lists attributes hidden from display.
	// A nil slice means the layer does not configure exclusions.
	ExcludedProperties []string `json:"excludedProperties,omitempty" yaml:"excludedProperties,omitempty"`
	// UniqueIDProperty names the attribute holding the feature id.
	UniqueIDProperty string `json:"uniqueIdProperty,omitempty" yaml:"uniqueIdProperty,omitempty"`
	// DisplayProperty names the attribute holding the display name.
	DisplayProperty string `json:"displayProperty,omitempty" yaml:"displayProperty,omitempty"`
}

// Keys returns the identity and display keys for feature resolution.
func (p LayerEditPolicy) Keys() feature.Keys {
	return feature.Keys{UniqueID: p.UniqueIDProperty, Display: p.DisplayProperty}
}

// FieldNames returns the names of the editable fields in order.
func (p LayerEditPolicy) FieldNames() []string {
	names := make([]string, 0, len(p.EditableFields))
	for _, f := range p.EditableFields {
		names = append(names, f.Name)
	}
	return names
}

// Field returns the field config for name.
func (p LayerEditPolicy) Field(name string) (FieldConfig, bool) {
	for _, f := range p.EditableFields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldConfig{}, false
}

// Set maps layer ids to their policies.
type Set map[string]LayerEditPolicy

// Lookup returns the policy of layerID.
func (s Set) Lookup(layerID string) (LayerEditPolicy, bool) {
	p, ok := s[layerID]
	return p, ok
}

// Keys returns the resolution keys of layerID; zero keys for unknown layers.
func (s Set) Keys(layerID string) feature.Keys {
	return s[layerID].Keys()
}

// LayerIDs returns the configured layers in sorted order.
func (s Set) LayerIDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns a copy that shares no slices with s.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for id, p := range s {
		p.EditableFields = append([]FieldConfig(nil), p.EditableFields...)
		if p.ExcludedProperties != nil {
			p.ExcludedProperties = append([]string{}, p.ExcludedProperties...)
		}
		out[id] = p
	}
	return out
}

// document is the on-disk shape of a policy file.
type document struct {
	Layers []LayerEditPolicy `json:"layers" yaml:"layers"`
}

// fromLayers builds a Set, the last entry for a layer winning.
func fromLayers(layers []LayerEditPolicy) Set {
	set := make(Set, len(layers))
	for _, l := range layers {
		if l.LayerID == "" {
			continue
		}
		fields := make([]FieldConfig, len(l.EditableFields))
		for i, f := range l.EditableFields {
			if f.Type == "" {
				f.Type = FieldString
			}
			fields[i] = f
		}
		l.EditableFields = fields
		set[l.LayerID] = l
	}
	return set
}
