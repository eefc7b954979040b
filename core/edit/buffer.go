package edit

import "map-editor/core/feature"

// Mode distinguishes the two buffer variants.
type Mode string

const (
	ModeSingle Mode = "single"
	ModeMulti  Mode = "multi"
)

// Buffer is the behaviour shared by Single and Multi.
type Buffer interface {
	// Mode reports the variant.
	Mode() Mode
	// Targets returns the features being edited.
	Targets() []feature.Feature
	// Fields returns the fields of interest in display order.
	Fields() []string
	// SetValue records a user edit.
	SetValue(name string, v any)
	// DisplayValue renders the value shown in an edit form.
	DisplayValue(name string) string
	// Changes returns the values that a commit would write.
	Changes() map[string]any
	// ResetField reverts one field and clears its validation message.
	ResetField(name string)
	// ResetAll reverts every field and clears all validation messages.
	ResetAll()
	// IsDirty reports whether a commit would write anything.
	IsDirty() bool
	// SetFieldError stores a validation message for name.
	SetFieldError(name, msg string)
	// ClearFieldError removes the validation message of name.
	ClearFieldError(name string)
	// Errors returns a copy of the validation messages.
	Errors() map[string]string
	// IsValid reports whether there are no validation messages.
	IsValid() bool
}

// Normalizer converts a stored attribute value of field to the form user
// writes are kept in, so that originals and edits compare alike.
type Normalizer func(field string, v any) any

// Option configures a buffer.
type Option func(*options)

type options struct {
	normalize Normalizer
}

// WithNormalizer applies fn to every original value captured by the buffer.
func WithNormalizer(fn Normalizer) Option {
	return func(o *options) {
		o.normalize = fn
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.normalize == nil {
		o.normalize = func(_ string, v any) any { return v }
	}
	return o
}
