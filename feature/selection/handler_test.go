package selection_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"map-editor/core/feature"
	"map-editor/core/policy"
	"map-editor/core/session"
	"map-editor/feature/edits"
	"map-editor/feature/mapbridge"
	"map-editor/feature/selection"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSource struct {
	set policy.Set
	err error
}

func (s stubSource) Name() string { return "stub" }

func (s stubSource) Load(ctx context.Context) (policy.Set, error) {
	return s.set, s.err
}

func testPolicies() policy.Set {
	return policy.Set{
		"parcels": {
			LayerID:  "parcels",
			Editable: true,
			EditableFields: []policy.FieldConfig{
				{Name: "status", Label: "Status", Type: policy.FieldSelect, Options: []string{"A", "B"}},
				{Name: "area", Type: policy.FieldNumber},
			},
		},
		"basemap": {LayerID: "basemap", Editable: false},
	}
}

func parcel(id, status string, area float64) feature.Feature {
	return feature.Feature{LayerID: "parcels", Properties: map[string]any{"id": id, "status": status, "area": area}}
}

type fixture struct {
	app     *fiber.App
	bridge  *mapbridge.Bridge
	journal *edits.Journal
	service *selection.Service
}

func setup(t *testing.T, source policy.Source) *fixture {
	t.Helper()
	registry := policy.NewStaticRegistry(testPolicies())
	if source != nil {
		registry = policy.NewRegistry(source, nil)
		_, err := registry.Reload(context.Background())
		require.NoError(t, err)
	}

	bridge := mapbridge.NewBridge(mapbridge.Config{}, registry.Current, nil)
	journal := edits.NewJournal(nil, nil)
	svc := selection.NewService(bridge, registry, session.Options{Committer: journal})
	t.Cleanup(svc.Close)

	app := fiber.New()
	selection.NewHandler(svc, zap.NewNop()).RegisterRoutes(app)
	return &fixture{app: app, bridge: bridge, journal: journal, service: svc}
}

func (f *fixture) call(t *testing.T, method, path string, body any) (int, selection.State, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(data))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	var st selection.State
	if inner, ok := raw["state"]; ok {
		b, _ := json.Marshal(inner)
		require.NoError(t, json.Unmarshal(b, &st))
	} else {
		require.NoError(t, json.Unmarshal(data, &st))
	}
	return resp.StatusCode, st, raw
}

func TestSelection_MultiEditFlow(t *testing.T) {
	f := setup(t, nil)
	f.bridge.Publish(feature.NewSnapshot(1, parcel("1", "A", 10), parcel("2", "B", 10)))

	code, st, _ := f.call(t, "POST", "/selection/click", fiber.Map{"feature": parcel("1", "A", 10), "modifier": true})
	require.Equal(t, http.StatusOK, code)
	code, st, _ = f.call(t, "POST", "/selection/click", fiber.Map{"feature": parcel("2", "B", 10), "modifier": true})
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, st.MultiSelected, 2)
	assert.Nil(t, st.Clicked)
	assert.False(t, st.Locked)

	code, st, _ = f.call(t, "POST", "/edit", nil)
	require.Equal(t, http.StatusCreated, code)
	require.NotNil(t, st.Buffer)
	assert.Equal(t, "multi", string(st.Buffer.Mode))
	require.Len(t, st.Buffer.Fields, 2)
	assert.Equal(t, "Status", st.Buffer.Fields[0].Label)
	assert.Equal(t, "(Different values)", st.Buffer.Fields[0].Display)
	assert.True(t, st.Buffer.Fields[0].Different)
	assert.Equal(t, "10", st.Buffer.Fields[1].Display)

	code, st, _ = f.call(t, "PUT", "/edit/fields/status", fiber.Map{"value": "C"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Status must be one of: A, B", st.Buffer.Errors["status"])

	code, _, _ = f.call(t, "POST", "/edit/commit", nil)
	assert.Equal(t, http.StatusConflict, code)

	code, st, _ = f.call(t, "PUT", "/edit/fields/status", fiber.Map{"value": "B"})
	require.Equal(t, http.StatusOK, code)
	assert.True(t, st.Buffer.Valid)
	assert.True(t, st.Buffer.Fields[0].Modified)

	code, st, raw := f.call(t, "POST", "/edit/commit", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Nil(t, st.Buffer)
	commit := raw["commit"].(map[string]any)
	assert.Equal(t, "parcels", commit["layerId"])

	entries, err := f.journal.List(context.Background(), "parcels", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, map[string]any{"status": "B"}, entries[0].Changes)
}

func TestSelection_SnapshotDiscardsBuffer(t *testing.T) {
	f := setup(t, nil)
	f.bridge.Publish(feature.NewSnapshot(1, parcel("1", "A", 10)))
	f.call(t, "POST", "/selection/click", fiber.Map{"feature": parcel("1", "A", 10)})

	_, st, _ := f.call(t, "POST", "/edit", nil)
	require.NotNil(t, st.Buffer)
	assert.Equal(t, "single", string(st.Buffer.Mode))
	rev := st.Revision

	f.bridge.Publish(feature.NewSnapshot(2))
	_, st, _ = f.call(t, "GET", "/selection", nil)
	assert.Nil(t, st.Buffer)
	assert.Nil(t, st.Clicked)
	assert.Equal(t, uint64(2), st.SnapshotVersion)
	assert.Greater(t, st.Revision, rev)
}

func TestSelection_LockedLayer(t *testing.T) {
	f := setup(t, nil)
	base := feature.Feature{LayerID: "basemap", Properties: map[string]any{"id": "b1"}}
	f.bridge.Publish(feature.NewSnapshot(1, base))
	_, st, _ := f.call(t, "POST", "/selection/click", fiber.Map{"feature": base})
	assert.True(t, st.Locked)

	code, _, _ := f.call(t, "POST", "/edit", nil)
	assert.Equal(t, http.StatusConflict, code)

	code, _, _ = f.call(t, "PUT", "/edit/fields/status", fiber.Map{"value": "A"})
	assert.Equal(t, http.StatusConflict, code)
	code, _, _ = f.call(t, "POST", "/edit/reset", nil)
	assert.Equal(t, http.StatusConflict, code)
	code, _, _ = f.call(t, "DELETE", "/edit/fields/status", nil)
	assert.Equal(t, http.StatusConflict, code)
}

func TestSelection_MapRequests(t *testing.T) {
	f := setup(t, nil)
	f.bridge.Publish(feature.NewSnapshot(1, parcel("1", "A", 10), parcel("2", "B", 10)))

	f.call(t, "POST", "/selection/select-all", fiber.Map{"layerId": "parcels"})
	f.call(t, "POST", "/selection/flash", fiber.Map{"feature": parcel("1", "A", 10)})
	f.call(t, "POST", "/selection/zoom", nil)
	f.call(t, "POST", "/selection/unselect", fiber.Map{"feature": parcel("1", "A", 10)})
	f.call(t, "POST", "/layers/roads/visibility", fiber.Map{"visible": false})
	_, st, _ := f.call(t, "POST", "/selection/clear", nil)
	assert.Empty(t, st.MultiSelected)

	var kinds []mapbridge.RequestKind
	for _, r := range f.bridge.Drain() {
		kinds = append(kinds, r.Kind)
	}
	assert.Equal(t, []mapbridge.RequestKind{
		mapbridge.KindFlash,
		mapbridge.KindZoomToMany,
		mapbridge.KindUnselect,
		mapbridge.KindSetLayerVisibility,
		mapbridge.KindClearLayer,
	}, kinds)
}

func TestSelection_ContextMenu(t *testing.T) {
	f := setup(t, nil)
	f.bridge.Publish(feature.NewSnapshot(1, parcel("1", "A", 10), parcel("2", "B", 10)))
	f.call(t, "POST", "/selection/click", fiber.Map{"feature": parcel("1", "A", 10), "x": 3, "y": 4})

	_, st, _ := f.call(t, "POST", "/selection/context-menu", fiber.Map{"feature": parcel("1", "A", 10), "x": 3, "y": 4})
	require.NotNil(t, st.ContextMenu)
	assert.Equal(t, "1", st.ContextMenu.Identity.FeatureID)

	_, st, _ = f.call(t, "DELETE", "/selection/context-menu", nil)
	assert.Nil(t, st.ContextMenu)

	f.call(t, "POST", "/selection/context-menu", fiber.Map{"feature": parcel("1", "A", 10)})
	_, st, _ = f.call(t, "POST", "/selection/click", fiber.Map{"feature": parcel("2", "B", 10)})
	assert.Nil(t, st.ContextMenu, "selection change closes the menu")
}

func TestSelection_BadRequests(t *testing.T) {
	f := setup(t, nil)
	for _, path := range []string{"/selection/click", "/selection/unselect", "/selection/flash", "/selection/context-menu", "/selection/select-all"} {
		req := httptest.NewRequest("POST", path, strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		resp, err := f.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
	}
}

func TestSelection_Policies(t *testing.T) {
	f := setup(t, stubSource{set: testPolicies()})

	resp, err := f.app.Test(httptest.NewRequest("GET", "/policies", nil))
	require.NoError(t, err)
	var set policy.Set
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&set))
	assert.Equal(t, []string{"basemap", "parcels"}, set.LayerIDs())

	resp, err = f.app.Test(httptest.NewRequest("POST", "/policies/reload", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSelection_PolicyReloadFailure(t *testing.T) {
	registry := policy.NewRegistry(stubSource{err: errors.New("unreachable")}, nil)
	bridge := mapbridge.NewBridge(mapbridge.Config{}, registry.Current, nil)
	svc := selection.NewService(bridge, registry, session.Options{})
	defer svc.Close()

	app := fiber.New()
	selection.NewHandler(svc, zap.NewNop()).RegisterRoutes(app)
	resp, err := app.Test(httptest.NewRequest("POST", "/policies/reload", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
