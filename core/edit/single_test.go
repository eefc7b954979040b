package edit

import (
	"testing"

	"map-editor/core/feature"

	"github.com/stretchr/testify/assert"
)

func parcel(id, status string, extra map[string]any) feature.Feature {
	props := map[string]any{"id": id, "status": status}
	for k, v := range extra {
		props[k] = v
	}
	return feature.Feature{LayerID: "parcels", Properties: props}
}

func TestSingle_DirtyTracking(t *testing.T) {
	s := NewSingle(parcel("1", "A", map[string]any{"area": 12.0, "note": nil}), []string{"status", "area", "note"})
	assert.False(t, s.IsDirty())
	assert.Empty(t, s.ModifiedFields())

	s.SetValue("status", "B")
	assert.True(t, s.IsDirty())
	assert.Equal(t, []string{"status"}, s.ModifiedFields())

	// Back to the original value leaves the modified list.
	s.SetValue("status", "A")
	assert.False(t, s.IsDirty())
	assert.Empty(t, s.ModifiedFields())

	// Numeric equality across types.
	s.SetValue("area", 12)
	assert.False(t, s.IsDirty())

	// nil vs nil is clean.
	s.SetValue("note", nil)
	assert.False(t, s.IsDirty())
}

func TestSingle_AbsentOriginalIsDirty(t *testing.T) {
	s := NewSingle(parcel("1", "A", nil), []string{"status", "owner"})
	_, ok := s.Original("owner")
	assert.False(t, ok)

	s.SetValue("owner", nil)
	assert.True(t, s.IsDirty())
	assert.Equal(t, []string{"owner"}, s.ModifiedFields())

	s.ResetField("owner")
	assert.False(t, s.IsDirty())
	_, ok = s.Value("owner")
	assert.False(t, ok)
}

func TestSingle_ModifiedFieldsOrder(t *testing.T) {
	s := NewSingle(parcel("1", "A", map[string]any{"area": 1.0}), []string{"status", "area"})
	s.SetValue("area", 2.0)
	s.SetValue("owner", "Kim")
	s.SetValue("status", "C")

	assert.Equal(t, []string{"status", "area", "owner"}, s.ModifiedFields())
	assert.Equal(t, map[string]any{"status": "C", "area": 2.0, "owner": "Kim"}, s.Changes())
}

func TestSingle_ResetAndErrors(t *testing.T) {
	s := NewSingle(parcel("1", "A", nil), nil)
	assert.Equal(t, []string{"id", "status"}, s.Fields())

	s.SetValue("status", "Z")
	s.SetFieldError("status", "status must be one of: A, B")
	s.SetValue("id", "2")
	s.SetFieldError("id", "read only")
	assert.False(t, s.IsValid())
	assert.Len(t, s.Errors(), 2)

	s.ResetField("status")
	assert.Equal(t, "A", s.DisplayValue("status"))
	assert.Equal(t, map[string]string{"id": "read only"}, s.Errors())

	s.ResetAll()
	assert.False(t, s.IsDirty())
	assert.True(t, s.IsValid())

	s.SetFieldError("id", "x")
	s.ClearFieldError("id")
	assert.True(t, s.IsValid())
}

func TestSingle_ResetAllAlwaysClean(t *testing.T) {
	s := NewSingle(parcel("1", "A", nil), nil)
	for _, v := range []any{"B", nil, 3, true} {
		s.SetValue("status", v)
		s.SetValue("extra", v)
		s.ResetAll()
		assert.False(t, s.IsDirty())
	}
}

func TestSingle_Targets(t *testing.T) {
	f := parcel("9", "A", nil)
	s := NewSingle(f, nil)
	assert.Equal(t, ModeSingle, s.Mode())
	assert.Equal(t, []feature.Feature{f}, s.Targets())
	assert.Equal(t, "9", feature.ResolveID(s.Target(), feature.Keys{}))
}

func TestSingle_SmallIntegerEdits(t *testing.T) {
	s := NewSingle(parcel("1", "A", map[string]any{"floors": int8(2)}), []string{"floors"})
	s.SetValue("floors", int8(5))
	assert.True(t, s.IsDirty())
	assert.Equal(t, map[string]any{"floors": int8(5)}, s.Changes())

	s.SetValue("floors", 2)
	assert.False(t, s.IsDirty())
}

func TestSingle_NormalizerAppliesToOriginals(t *testing.T) {
	prefixed := func(field string, v any) any {
		if field == "status" {
			return "status:" + v.(string)
		}
		return v
	}
	s := NewSingle(parcel("1", "A", nil), []string{"status"}, WithNormalizer(prefixed))

	orig, ok := s.Original("status")
	assert.True(t, ok)
	assert.Equal(t, "status:A", orig)
	assert.Equal(t, "status:A", s.DisplayValue("status"))
	assert.False(t, s.IsDirty())

	s.SetValue("status", "status:A")
	assert.False(t, s.IsDirty())

	s.ResetAll()
	v, _ := s.Value("status")
	assert.Equal(t, "status:A", v)
}
