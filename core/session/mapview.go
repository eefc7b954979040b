package session

import (
	"time"

	"map-editor/core/edit"
	"map-editor/core/feature"
	"map-editor/core/policy"
	"map-editor/core/selection"
)

// MapView is the map rendering collaborator.
type MapView interface {
	selection.Source

	RequestFlash(layerID, featureID string)
	RequestZoomTo(layerID, featureID string)
	RequestZoomToMany(features []feature.Feature)
	RequestUnselect(featureID string)
	RequestClearLayerSelection(layerID string)
	RequestSetLayerVisibility(layerID string, visible bool)

	// LayerPolicies returns the current per-layer edit policies.
	LayerPolicies() policy.Set
}

// Commit is a committed edit handed to the Committer.
type Commit struct {
	ID          string             `json:"id"`
	Mode        edit.Mode          `json:"mode"`
	LayerID     string             `json:"layerId"`
	Targets     []feature.Identity `json:"targets"`
	Features    []feature.Feature  `json:"-"`
	Changes     map[string]any     `json:"changes"`
	CommittedAt time.Time          `json:"committedAt"`
	Buffer      edit.Buffer        `json:"-"`
}

// Committer receives committed edits. Delivery is fire-and-forget.
type Committer interface {
	Commit(c Commit)
}

// CommitterFunc adapts a function to Committer.
type CommitterFunc func(c Commit)

func (f CommitterFunc) Commit(c Commit) {
	f(c)
}

// Event is delivered to session listeners after every reconciliation pass.
type Event struct {
	Selection selection.Change
	// BufferDiscarded reports that the pass invalidated the active edit buffer.
	BufferDiscarded bool
}
