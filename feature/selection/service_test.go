package selection_test

import (
	"sync"
	"testing"

	"map-editor/core/feature"
	"map-editor/core/policy"
	"map-editor/core/session"
	"map-editor/feature/mapbridge"
	"map-editor/feature/selection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// goroutineView delivers its first snapshot from another goroutine while
// Subscribe is still running.
type goroutineView struct {
	*mapbridge.Bridge
	first *feature.Snapshot
}

func (v goroutineView) Subscribe(fn func(*feature.Snapshot)) func() {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		fn(v.first)
	}()
	wg.Wait()
	return v.Bridge.Subscribe(fn)
}

func TestService_StartsWithSynchronousSnapshot(t *testing.T) {
	registry := policy.NewStaticRegistry(testPolicies())
	bridge := mapbridge.NewBridge(mapbridge.Config{}, registry.Current, nil)
	bridge.Publish(feature.NewSnapshot(4, parcel("1", "A", 10)))

	svc := selection.NewService(bridge, registry, session.Options{})
	defer svc.Close()

	st := svc.State()
	assert.Equal(t, "subscribed", st.Status)
	assert.Equal(t, uint64(4), st.SnapshotVersion)
	assert.Equal(t, 1, st.SnapshotSize)
}

func TestService_DeliveryDuringStartIsSerialised(t *testing.T) {
	registry := policy.NewStaticRegistry(testPolicies())
	bridge := mapbridge.NewBridge(mapbridge.Config{}, registry.Current, nil)
	view := goroutineView{Bridge: bridge, first: feature.NewSnapshot(2, parcel("1", "A", 10), parcel("2", "B", 10))}

	svc := selection.NewService(view, registry, session.Options{})
	defer svc.Close()

	st := svc.State()
	require.Equal(t, uint64(2), st.SnapshotVersion)
	assert.Equal(t, 2, st.SnapshotSize)
	startRevision := st.Revision

	bridge.Publish(feature.NewSnapshot(3, parcel("1", "A", 10)))
	st = svc.State()
	assert.Equal(t, uint64(3), st.SnapshotVersion)
	assert.Greater(t, st.Revision, startRevision)
}
