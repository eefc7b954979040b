package edit

import "map-editor/core/feature"

// Single is the edit buffer of one clicked feature.
type Single struct {
	target   feature.Feature
	fields   []string
	original map[string]any
	current  *values
	errors   fieldErrors
}

// NewSingle captures the originals of target. When fields is empty every
// attribute of the feature is tracked.
func NewSingle(target feature.Feature, fields []string, opts ...Option) *Single {
	o := buildOptions(opts)
	attrs := target.Attributes()
	if len(fields) == 0 {
		fields = target.AttributeNames()
	}

	s := &Single{
		target:   target,
		fields:   append([]string(nil), fields...),
		original: make(map[string]any, len(fields)),
		current:  newValues(),
		errors:   fieldErrors{},
	}
	for _, name := range s.fields {
		if v, ok := attrs[name]; ok {
			v = o.normalize(name, v)
			s.original[name] = v
			s.current.set(name, v)
		}
	}
	return s
}

func (s *Single) Mode() Mode {
	return ModeSingle
}

// Target returns the edited feature.
func (s *Single) Target() feature.Feature {
	return s.target
}

func (s *Single) Targets() []feature.Feature {
	return []feature.Feature{s.target}
}

func (s *Single) Fields() []string {
	return append([]string(nil), s.fields...)
}

// Original returns the value captured at creation.
func (s *Single) Original(name string) (any, bool) {
	v, ok := s.original[name]
	return v, ok
}

// Value returns the current value of name.
func (s *Single) Value(name string) (any, bool) {
	return s.current.get(name)
}

func (s *Single) SetValue(name string, v any) {
	s.current.set(name, v)
}

func (s *Single) DisplayValue(name string) string {
	v, _ := s.current.get(name)
	return FormatValue(v)
}

// ModifiedFields lists fields whose current value differs from the original,
// in current-value order. A field without an original is always modified.
func (s *Single) ModifiedFields() []string {
	var out []string
	for _, name := range s.current.keys() {
		if s.isModified(name) {
			out = append(out, name)
		}
	}
	return out
}

func (s *Single) isModified(name string) bool {
	cur, _ := s.current.get(name)
	orig, ok := s.original[name]
	if !ok {
		return true
	}
	return !ValuesEqual(orig, cur)
}

func (s *Single) IsDirty() bool {
	for _, name := range s.current.keys() {
		if s.isModified(name) {
			return true
		}
	}
	return false
}

func (s *Single) Changes() map[string]any {
	out := make(map[string]any)
	for _, name := range s.ModifiedFields() {
		out[name], _ = s.current.get(name)
	}
	return out
}

func (s *Single) ResetField(name string) {
	if orig, ok := s.original[name]; ok {
		s.current.set(name, orig)
	} else {
		s.current.remove(name)
	}
	delete(s.errors, name)
}

func (s *Single) ResetAll() {
	s.current = newValues()
	for _, name := range s.fields {
		if v, ok := s.original[name]; ok {
			s.current.set(name, v)
		}
	}
	s.errors = fieldErrors{}
}

func (s *Single) SetFieldError(name, msg string) {
	s.errors[name] = msg
}

func (s *Single) ClearFieldError(name string) {
	delete(s.errors, name)
}

func (s *Single) Errors() map[string]string {
	return s.errors.copy()
}

func (s *Single) IsValid() bool {
	return len(s.errors) == 0
}
