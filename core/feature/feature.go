package feature

import (
	"encoding/json"
	"reflect"
	"sort"

	"map-editor/core/utils"
)

// nestedPropertiesKey is the attribute holding a GeoJSON-style nested property bag.
const nestedPropertiesKey = "properties"

// Feature is a map feature as reported by the renderer.
type Feature struct {
	// LayerID is the owning layer.
	LayerID string `json:"layerId" yaml:"layerId"`
	// Properties is the raw attribute bag. It may carry a nested "properties"
	// object in addition to top-level attributes.
	Properties map[string]any `json:"properties" yaml:"properties"`
	// Geometry is carried through untouched.
	Geometry json.RawMessage `json:"geometry,omitempty" yaml:"-"`
}

// Lookup reads an attribute, checking the nested properties object first and
// the top level second. Empty values in the nested object fall through.
func (f Feature) Lookup(name string) (any, bool) {
	if nested, ok := f.Properties[nestedPropertiesKey].(map[string]any); ok {
		if v, ok := nested[name]; ok && utils.ToString(v) != "" {
			return v, true
		}
	}
	v, ok := f.Properties[name]
	return v, ok
}

// Attributes returns the flattened attribute map: top-level attributes with
// the nested properties object merged over them.
func (f Feature) Attributes() map[string]any {
	out := make(map[string]any, len(f.Properties))
	for k, v := range f.Properties {
		if k == nestedPropertiesKey {
			if _, isBag := v.(map[string]any); isBag {
				continue
			}
		}
		out[k] = v
	}
	if nested, ok := f.Properties[nestedPropertiesKey].(map[string]any); ok {
		for k, v := range nested {
			out[k] = v
		}
	}
	return out
}

// AttributeNames returns the flattened attribute names in sorted order.
func (f Feature) AttributeNames() []string {
	attrs := f.Attributes()
	names := make([]string, 0, len(attrs))
	for k := range attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// SameAttributes reports whether two features belong to the same layer and
// carry equal attributes. It is the fallback match for features without identity.
func SameAttributes(a, b Feature) bool {
	return a.LayerID == b.LayerID && reflect.DeepEqual(a.Attributes(), b.Attributes())
}
