package feature

import "sort"

// Identity is the (layer, feature) pair used to track a feature across snapshots.
type Identity struct {
	LayerID   string `json:"layerId"`
	FeatureID string `json:"featureId"`
}

// IsZero reports whether the identity could not be resolved.
func (i Identity) IsZero() bool {
	return i.FeatureID == ""
}

func (i Identity) String() string {
	return i.LayerID + "/" + i.FeatureID
}

// IdentitySet is a set of identities with value semantics.
type IdentitySet map[Identity]struct{}

// NewIdentitySet creates a set holding the given non-zero identities.
func NewIdentitySet(ids ...Identity) IdentitySet {
	s := make(IdentitySet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id. Zero identities are ignored.
func (s IdentitySet) Add(id Identity) {
	if id.IsZero() {
		return
	}
	s[id] = struct{}{}
}

// Remove deletes id from the set.
func (s IdentitySet) Remove(id Identity) {
	delete(s, id)
}

// Has reports membership.
func (s IdentitySet) Has(id Identity) bool {
	_, ok := s[id]
	return ok
}

// Clear empties the set in place.
func (s IdentitySet) Clear() {
	for id := range s {
		delete(s, id)
	}
}

// Layer returns the layer of an arbitrary member, or "" for an empty set.
// Callers that maintain the single-layer rule get the shared layer.
func (s IdentitySet) Layer() string {
	for id := range s {
		return id.LayerID
	}
	return ""
}

// Layers returns the distinct layers of the members in sorted order.
func (s IdentitySet) Layers() []string {
	seen := make(map[string]struct{})
	for id := range s {
		seen[id.LayerID] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Members returns the identities sorted by layer then feature id.
func (s IdentitySet) Members() []Identity {
	out := make([]Identity, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LayerID != out[j].LayerID {
			return out[i].LayerID < out[j].LayerID
		}
		return out[i].FeatureID < out[j].FeatureID
	})
	return out
}

// Clone returns an independent copy.
func (s IdentitySet) Clone() IdentitySet {
	c := make(IdentitySet, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// Equal reports whether both sets hold the same identities.
func (s IdentitySet) Equal(other IdentitySet) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if !other.Has(id) {
			return false
		}
	}
	return true
}
