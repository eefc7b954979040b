package edit

import "map-editor/core/feature"

// FieldState aggregates one field across the targets of a batch.
type FieldState struct {
	HasDifferentValues bool `json:"hasDifferentValues"`
	CommonValue        any  `json:"commonValue"`
	AllNull            bool `json:"allNull"`
}

// Multi is the edit buffer of a multi-selected batch.
type Multi struct {
	targets []feature.Feature
	fields  []string
	states  map[string]FieldState
	current *values
	errors  fieldErrors
	opts    options
}

// NewMulti aggregates fields across targets. Absent attributes count as nil.
func NewMulti(targets []feature.Feature, fields []string, opts ...Option) *Multi {
	m := &Multi{
		fields:  append([]string(nil), fields...),
		current: newValues(),
		errors:  fieldErrors{},
		opts:    buildOptions(opts),
	}
	m.setTargets(targets)
	return m
}

func (m *Multi) setTargets(targets []feature.Feature) {
	m.targets = append([]feature.Feature(nil), targets...)
	attrs := make([]map[string]any, len(targets))
	for i, t := range targets {
		attrs[i] = t.Attributes()
	}

	m.states = make(map[string]FieldState, len(m.fields))
	for _, name := range m.fields {
		m.states[name] = aggregate(name, attrs, m.opts.normalize)
	}
}

func aggregate(name string, attrs []map[string]any, normalize Normalizer) FieldState {
	st := FieldState{AllNull: true}
	for i, a := range attrs {
		v := a[name]
		if v != nil {
			v = normalize(name, v)
		}
		if v != nil {
			st.AllNull = false
		}
		if i == 0 {
			st.CommonValue = v
			continue
		}
		if !ValuesEqual(st.CommonValue, v) {
			st.HasDifferentValues = true
		}
	}
	if st.HasDifferentValues {
		st.CommonValue = nil
	}
	return st
}

// Retarget rebuilds the field states for a new target list while keeping
// explicit writes and validation messages.
func (m *Multi) Retarget(targets []feature.Feature) {
	m.setTargets(targets)
}

func (m *Multi) Mode() Mode {
	return ModeMulti
}

func (m *Multi) Targets() []feature.Feature {
	return append([]feature.Feature(nil), m.targets...)
}

func (m *Multi) Fields() []string {
	return append([]string(nil), m.fields...)
}

// FieldState returns the aggregate of name computed at creation.
func (m *Multi) FieldState(name string) (FieldState, bool) {
	st, ok := m.states[name]
	return st, ok
}

// FieldStates returns a copy of all aggregates.
func (m *Multi) FieldStates() map[string]FieldState {
	out := make(map[string]FieldState, len(m.states))
	for k, v := range m.states {
		out[k] = v
	}
	return out
}

// Value returns the explicitly written value of name.
func (m *Multi) Value(name string) (any, bool) {
	return m.current.get(name)
}

// SetValue records an explicit write. Writing the common value still counts:
// it will overwrite every target.
func (m *Multi) SetValue(name string, v any) {
	m.current.set(name, v)
}

// DisplayValue returns the written value, the different-values marker, or
// the common value, in that order.
func (m *Multi) DisplayValue(name string) string {
	if v, ok := m.current.get(name); ok {
		return FormatValue(v)
	}
	st := m.states[name]
	if st.HasDifferentValues {
		return DifferentValues
	}
	return FormatValue(st.CommonValue)
}

func (m *Multi) Changes() map[string]any {
	return m.current.toMap()
}

// ModifiedFields lists the explicitly written fields in write order.
func (m *Multi) ModifiedFields() []string {
	return m.current.keys()
}

func (m *Multi) IsDirty() bool {
	return m.current.len() > 0
}

func (m *Multi) ResetField(name string) {
	m.current.remove(name)
	delete(m.errors, name)
}

func (m *Multi) ResetAll() {
	m.current = newValues()
	m.errors = fieldErrors{}
}

func (m *Multi) SetFieldError(name, msg string) {
	m.errors[name] = msg
}

func (m *Multi) ClearFieldError(name string) {
	delete(m.errors, name)
}

func (m *Multi) Errors() map[string]string {
	return m.errors.copy()
}

func (m *Multi) IsValid() bool {
	return len(m.errors) == 0
}
