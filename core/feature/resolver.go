package feature

import (
	"strings"

	"map-editor/core/utils"
)

// UnnamedPlaceholder is the display name of features without a name-like attribute.
const UnnamedPlaceholder = "Unnamed feature"

// Keys names the layer-specific attributes used for identity and display.
type Keys struct {
	// UniqueID is the attribute holding the feature id, if the layer defines one.
	UniqueID string
	// Display is the attribute holding the display name, if the layer defines one.
	Display string
}

// CommonIDProperties are probed in order when a layer has no unique-id attribute.
var CommonIDProperties = []string{"id", "ID", "Id", "customId", "OBJECTID", "objectid", "fid", "FID"}

// CommonNameProperties are probed in order when a layer has no display attribute.
var CommonNameProperties = []string{"name", "Name", "NAME", "title", "Title", "label", "displayName"}

// ResolveID derives the feature id. The layer's unique-id attribute wins,
// then the common identifier names in order. It returns "" when no
// identifying attribute is present.
func ResolveID(f Feature, keys Keys) string {
	return firstNonEmpty(f, keys.UniqueID, CommonIDProperties)
}

// IdentityOf returns the feature's identity; the zero identity when ResolveID misses.
func IdentityOf(f Feature, keys Keys) Identity {
	id := ResolveID(f, keys)
	if id == "" {
		return Identity{}
	}
	return Identity{LayerID: f.LayerID, FeatureID: id}
}

// ResolveDisplayName derives a human readable name. It never fails.
func ResolveDisplayName(f Feature, keys Keys) string {
	if name := firstNonEmpty(f, keys.Display, CommonNameProperties); name != "" {
		return name
	}
	return UnnamedPlaceholder
}

func firstNonEmpty(f Feature, configured string, fallbacks []string) string {
	if configured != "" {
		if s := stringAttr(f, configured); s != "" {
			return s
		}
	}
	for _, name := range fallbacks {
		if s := stringAttr(f, name); s != "" {
			return s
		}
	}
	return ""
}

func stringAttr(f Feature, name string) string {
	v, ok := f.Lookup(name)
	if !ok {
		return ""
	}
	return strings.TrimSpace(utils.ToString(v))
}
