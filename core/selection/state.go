package selection

import "map-editor/core/feature"

// selectionState is a comparable summary of the reconciled selection.
type selectionState struct {
	snapshotIDs feature.IdentitySet
	snapshotLen int
	overlay     feature.IdentitySet
	clicked     *feature.Feature
	clickedID   feature.Identity
}

func (r *Reconciler) capture(keys Keyring) selectionState {
	st := selectionState{
		snapshotIDs: r.snapshot.Identities(keys.Keys),
		snapshotLen: r.snapshot.Len(),
		overlay:     r.overlay.Clone(),
	}
	if r.clicked != nil {
		c := *r.clicked
		st.clicked = &c
		st.clickedID = feature.IdentityOf(c, keys.Keys(c.LayerID))
	}
	return st
}

func (s selectionState) changed(after selectionState) bool {
	if s.snapshotLen != after.snapshotLen || !s.snapshotIDs.Equal(after.snapshotIDs) {
		return true
	}
	if !s.overlay.Equal(after.overlay) {
		return true
	}
	if (s.clicked == nil) != (after.clicked == nil) {
		return true
	}
	if s.clicked == nil {
		return false
	}
	if !s.clickedID.IsZero() || !after.clickedID.IsZero() {
		return s.clickedID != after.clickedID
	}
	return !feature.SameAttributes(*s.clicked, *after.clicked)
}
