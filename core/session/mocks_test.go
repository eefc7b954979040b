package session

import (
	"map-editor/core/feature"
	"map-editor/core/policy"

	"github.com/stretchr/testify/mock"
)

// mockView records map requests with testify/mock and delivers snapshots
// pushed by the test.
type mockView struct {
	mock.Mock
	fn           func(*feature.Snapshot)
	policies     policy.Set
	unsubscribed bool
}

func (m *mockView) Subscribe(fn func(*feature.Snapshot)) func() {
	m.fn = fn
	return func() { m.unsubscribed = true }
}

func (m *mockView) push(version uint64, features ...feature.Feature) {
	m.fn(feature.NewSnapshot(version, features...))
}

func (m *mockView) RequestFlash(layerID, featureID string) {
	m.Called(layerID, featureID)
}

func (m *mockView) RequestZoomTo(layerID, featureID string) {
	m.Called(layerID, featureID)
}

func (m *mockView) RequestZoomToMany(features []feature.Feature) {
	m.Called(features)
}

func (m *mockView) RequestUnselect(featureID string) {
	m.Called(featureID)
}

func (m *mockView) RequestClearLayerSelection(layerID string) {
	m.Called(layerID)
}

func (m *mockView) RequestSetLayerVisibility(layerID string, visible bool) {
	m.Called(layerID, visible)
}

func (m *mockView) LayerPolicies() policy.Set {
	return m.policies
}

type mockCommitter struct {
	mock.Mock
}

func (m *mockCommitter) Commit(c Commit) {
	m.Called(c)
}
