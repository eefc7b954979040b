package selection

import (
	"map-editor/core/edit"
	"map-editor/core/feature"
	"map-editor/core/policy"
	"map-editor/core/session"
)

// FeatureView is a feature with its resolved identity and display name.
type FeatureView struct {
	Identity    feature.Identity `json:"identity"`
	DisplayName string           `json:"displayName"`
	Feature     feature.Feature  `json:"feature"`
}

// FieldView is one row of an edit form.
type FieldView struct {
	Name      string           `json:"name"`
	Label     string           `json:"label"`
	Type      policy.FieldType `json:"type"`
	Required  bool             `json:"required,omitempty"`
	Options   []string         `json:"options,omitempty"`
	Display   string           `json:"display"`
	Modified  bool             `json:"modified"`
	Different bool             `json:"differentValues,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// BufferView describes the active edit buffer.
type BufferView struct {
	Mode    edit.Mode         `json:"mode"`
	LayerID string            `json:"layerId"`
	Targets int               `json:"targets"`
	Fields  []FieldView       `json:"fields"`
	Changes map[string]any    `json:"changes"`
	Dirty   bool              `json:"dirty"`
	Valid   bool              `json:"valid"`
	Errors  map[string]string `json:"errors"`
}

// State is the complete view of one session.
type State struct {
	Status             string               `json:"status"`
	Revision           uint64               `json:"revision"`
	SnapshotVersion    uint64               `json:"snapshotVersion"`
	SnapshotSize       int                  `json:"snapshotSize"`
	MultiSelected      []FeatureView        `json:"multiSelected"`
	Clicked            *FeatureView         `json:"clicked"`
	Locked             bool                 `json:"locked"`
	EditableFields     []policy.FieldConfig `json:"editableFields"`
	ExcludedProperties []string             `json:"excludedProperties"`
	Buffer             *BufferView          `json:"buffer"`
	ContextMenu        *session.ContextMenu `json:"contextMenu"`
}

type modifiedFielder interface {
	ModifiedFields() []string
}

func buildState(s *session.Session, revision uint64) State {
	st := State{
		Status:             s.Status().String(),
		Revision:           revision,
		SnapshotVersion:    s.Snapshot().Version(),
		SnapshotSize:       s.Snapshot().Len(),
		MultiSelected:      []FeatureView{},
		Locked:             s.IsLocked(),
		EditableFields:     s.EditableFields(),
		ExcludedProperties: s.ExcludedProperties(),
	}
	for _, f := range s.MultiSelected() {
		st.MultiSelected = append(st.MultiSelected, featureView(s, f))
	}
	if c := s.Clicked(); c != nil {
		v := featureView(s, *c)
		st.Clicked = &v
	}
	if m, ok := s.Interaction().ContextMenu(); ok {
		st.ContextMenu = &m
	}
	if b := s.Buffer(); b != nil {
		st.Buffer = bufferView(s, b)
	}
	return st
}

func featureView(s *session.Session, f feature.Feature) FeatureView {
	return FeatureView{
		Identity:    s.Identity(f),
		DisplayName: s.DisplayName(f),
		Feature:     f,
	}
}

func bufferView(s *session.Session, b edit.Buffer) *BufferView {
	targets := b.Targets()
	v := &BufferView{
		Mode:    b.Mode(),
		Targets: len(targets),
		Changes: b.Changes(),
		Dirty:   b.IsDirty(),
		Valid:   b.IsValid(),
		Errors:  b.Errors(),
		Fields:  []FieldView{},
	}
	if len(targets) > 0 {
		v.LayerID = targets[0].LayerID
	}
	p, _ := s.Policies().Lookup(v.LayerID)

	modified := make(map[string]bool)
	if mf, ok := b.(modifiedFielder); ok {
		for _, name := range mf.ModifiedFields() {
			modified[name] = true
		}
	}

	for _, name := range b.Fields() {
		fv := FieldView{
			Name:     name,
			Label:    name,
			Type:     policy.FieldString,
			Display:  b.DisplayValue(name),
			Modified: modified[name],
			Error:    v.Errors[name],
		}
		if fc, ok := p.Field(name); ok {
			fv.Label = fc.DisplayLabel()
			fv.Type = fc.Type
			fv.Required = fc.Required
			fv.Options = fc.Options
		}
		if m, ok := b.(*edit.Multi); ok {
			if st, ok := m.FieldState(name); ok && !fv.Modified {
				fv.Different = st.HasDifferentValues
			}
		}
		v.Fields = append(v.Fields, fv)
	}
	return v
}
