package feature

// Snapshot is an immutable view of the authoritative selection at one point
// in time. A new snapshot replaces the previous one wholesale.
type Snapshot struct {
	version  uint64
	features []Feature
}

// NewSnapshot builds a snapshot from the given features. The slice is copied.
// Version 0 means the producer does not stamp versions.
func NewSnapshot(version uint64, features ...Feature) *Snapshot {
	cp := make([]Feature, len(features))
	copy(cp, features)
	return &Snapshot{version: version, features: cp}
}

// Version returns the producer's stamp.
func (s *Snapshot) Version() uint64 {
	if s == nil {
		return 0
	}
	return s.version
}

// Len returns the number of features; a nil snapshot is empty.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.features)
}

// Features returns a copy of the features in snapshot order.
func (s *Snapshot) Features() []Feature {
	if s == nil {
		return nil
	}
	out := make([]Feature, len(s.features))
	copy(out, s.features)
	return out
}

// InLayer returns the features owned by layerID in snapshot order.
func (s *Snapshot) InLayer(layerID string) []Feature {
	if s == nil {
		return nil
	}
	var out []Feature
	for _, f := range s.features {
		if f.LayerID == layerID {
			out = append(out, f)
		}
	}
	return out
}

// Identities resolves the identity of every feature using keysFor to look up
// per-layer keys. Features without identity are skipped.
func (s *Snapshot) Identities(keysFor func(layerID string) Keys) IdentitySet {
	set := make(IdentitySet, s.Len())
	if s == nil {
		return set
	}
	for _, f := range s.features {
		set.Add(IdentityOf(f, keysFor(f.LayerID)))
	}
	return set
}

// Contains reports whether an attribute-equal feature is present.
func (s *Snapshot) Contains(f Feature) bool {
	if s == nil {
		return false
	}
	for _, candidate := range s.features {
		if SameAttributes(candidate, f) {
			return true
		}
	}
	return false
}
