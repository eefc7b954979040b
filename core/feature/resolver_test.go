package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveID(t *testing.T) {
	tests := []struct {
		name  string
		props map[string]any
		keys  Keys
		want  string
	}{
		{"ConfiguredTopLevel", map[string]any{"parcel_no": "P-9", "id": "1"}, Keys{UniqueID: "parcel_no"}, "P-9"},
		{"ConfiguredNested", map[string]any{"properties": map[string]any{"parcel_no": 42.0}}, Keys{UniqueID: "parcel_no"}, "42"},
		{"ConfiguredMissingFallsBack", map[string]any{"OBJECTID": 7}, Keys{UniqueID: "parcel_no"}, "7"},
		{"CommonOrder", map[string]any{"FID": "f", "id": "first"}, Keys{}, "first"},
		{"SkipsEmpty", map[string]any{"id": "", "ID": "  ", "fid": "x"}, Keys{}, "x"},
		{"NestedBeforeTopLevel", map[string]any{"id": "top", "properties": map[string]any{"id": "nested"}}, Keys{}, "nested"},
		{"NestedEmptyFallsThrough", map[string]any{"id": "top", "properties": map[string]any{"id": ""}}, Keys{}, "top"},
		{"None", map[string]any{"name": "Oak"}, Keys{}, ""},
		{"NilBag", nil, Keys{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Feature{LayerID: "parcels", Properties: tt.props}
			assert.Equal(t, tt.want, ResolveID(f, tt.keys))
		})
	}
}

func TestIdentityOf(t *testing.T) {
	f := Feature{LayerID: "parcels", Properties: map[string]any{"id": "1"}}
	assert.Equal(t, Identity{LayerID: "parcels", FeatureID: "1"}, IdentityOf(f, Keys{}))

	anon := Feature{LayerID: "parcels", Properties: map[string]any{"name": "x"}}
	assert.True(t, IdentityOf(anon, Keys{}).IsZero())
}

func TestResolveDisplayName(t *testing.T) {
	f := Feature{LayerID: "trees", Properties: map[string]any{"species": "Oak", "name": "Tree 4"}}
	assert.Equal(t, "Oak", ResolveDisplayName(f, Keys{Display: "species"}))
	assert.Equal(t, "Tree 4", ResolveDisplayName(f, Keys{}))
	assert.Equal(t, "Tree 4", ResolveDisplayName(f, Keys{Display: "missing"}))
	assert.Equal(t, UnnamedPlaceholder, ResolveDisplayName(Feature{}, Keys{}))
}
