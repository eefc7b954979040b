package session

import (
	"map-editor/core/edit"
	"map-editor/core/policy"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Buffer returns the active edit buffer, nil when none.
func (s *Session) Buffer() edit.Buffer {
	return s.buffer
}

// BeginEdit creates the buffer for the current mode: a Multi over the
// multi-selected list when it is non-empty, else a Single over the clicked
// feature. It reports false when nothing is selected or the layer is locked.
func (s *Session) BeginEdit() (edit.Buffer, bool) {
	multi := s.reconciler.MultiSelected()
	clicked := s.reconciler.Clicked()
	if len(multi) == 0 && clicked == nil {
		s.logger.Warn("Begin edit skipped: nothing selected")
		return nil, false
	}

	r := s.resolver()
	if r.IsLocked() {
		s.logger.Info("Begin edit skipped: layer is locked", zap.String("layer", r.LayerID()))
		return nil, false
	}

	excluded := make(map[string]struct{})
	for _, p := range r.ExcludedProperties(s.opts.ExcludedOverride) {
		excluded[p] = struct{}{}
	}
	var fields []string
	for _, fc := range r.EditableFields() {
		if _, hidden := excluded[fc.Name]; !hidden {
			fields = append(fields, fc.Name)
		}
	}

	norm := edit.WithNormalizer(s.normalizer(r.LayerID()))
	if len(multi) > 0 {
		s.buffer = edit.NewMulti(multi, fields, norm)
	} else {
		if len(fields) == 0 {
			for _, name := range clicked.AttributeNames() {
				if _, hidden := excluded[name]; !hidden {
					fields = append(fields, name)
				}
			}
		}
		s.buffer = edit.NewSingle(*clicked, fields, norm)
	}

	s.logger.Debug("Edit started",
		zap.String("mode", string(s.buffer.Mode())),
		zap.String("layer", r.LayerID()),
		zap.Int("targets", len(s.buffer.Targets())),
	)
	return s.buffer, true
}

// normalizer coerces stored values of configured fields to the field type,
// the same form SetFieldValue stores writes in. Values that fail validation
// are kept as stored.
func (s *Session) normalizer(layerID string) edit.Normalizer {
	p, _ := s.policies.Lookup(layerID)
	return func(name string, v any) any {
		fc, ok := p.Field(name)
		if !ok || fc.Validate(v) != "" {
			return v
		}
		return fc.Coerce(v)
	}
}

// SetFieldValue writes a field of the active buffer. When the layer
// configures the field, the value is validated and coerced to the field's
// type; a failing value is stored as entered along with its message.
func (s *Session) SetFieldValue(name string, v any) bool {
	if s.buffer == nil {
		s.logger.Warn("Set field skipped: no active edit buffer", zap.String("field", name))
		return false
	}

	if fc, ok := s.fieldConfig(name); ok {
		if msg := fc.Validate(v); msg != "" {
			s.buffer.SetValue(name, v)
			s.buffer.SetFieldError(name, msg)
			return true
		}
		v = fc.Coerce(v)
	}
	s.buffer.SetValue(name, v)
	s.buffer.ClearFieldError(name)
	return true
}

func (s *Session) fieldConfig(name string) (fc policy.FieldConfig, ok bool) {
	targets := s.buffer.Targets()
	if len(targets) == 0 {
		return fc, false
	}
	p, found := s.policies.Lookup(targets[0].LayerID)
	if !found {
		return fc, false
	}
	return p.Field(name)
}

// ResetField reverts one field of the active buffer.
func (s *Session) ResetField(name string) {
	if s.buffer == nil {
		return
	}
	s.buffer.ResetField(name)
}

// ResetAll reverts the active buffer.
func (s *Session) ResetAll() {
	if s.buffer == nil {
		return
	}
	s.buffer.ResetAll()
}

// CancelEdit discards the active buffer.
func (s *Session) CancelEdit() {
	s.buffer = nil
}

// CommitEdits hands the active buffer's changes to the Committer and clears
// the buffer. Precondition failures are logged and the commit is skipped.
func (s *Session) CommitEdits() (Commit, bool) {
	b := s.buffer
	switch {
	case b == nil:
		s.logger.Warn("Commit skipped: no active edit buffer")
		return Commit{}, false
	case s.opts.Committer == nil:
		s.logger.Warn("Commit skipped: no committer registered")
		return Commit{}, false
	case !b.IsValid():
		s.logger.Warn("Commit skipped: buffer has validation errors", zap.Any("errors", b.Errors()))
		return Commit{}, false
	case !b.IsDirty():
		s.logger.Info("Commit skipped: nothing changed")
		return Commit{}, false
	}

	targets := b.Targets()
	if p, ok := s.policies.Lookup(targets[0].LayerID); !ok || !p.Editable {
		s.logger.Warn("Commit skipped: layer is locked", zap.String("layer", targets[0].LayerID))
		return Commit{}, false
	}

	c := Commit{
		ID:          uuid.NewString(),
		Mode:        b.Mode(),
		LayerID:     targets[0].LayerID,
		Features:    targets,
		Changes:     b.Changes(),
		CommittedAt: s.opts.Now(),
		Buffer:      b,
	}
	for _, f := range targets {
		if id := s.identity(f); !id.IsZero() {
			c.Targets = append(c.Targets, id)
		}
	}

	s.opts.Committer.Commit(c)
	s.buffer = nil
	s.logger.Info("Edits committed",
		zap.String("commit_id", c.ID),
		zap.String("layer", c.LayerID),
		zap.Int("targets", len(targets)),
		zap.Int("fields", len(c.Changes)),
	)
	return c, true
}
