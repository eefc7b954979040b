package mapbridge_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"map-editor/core/feature"
	"map-editor/feature/mapbridge"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupApp() (*fiber.App, *mapbridge.Bridge) {
	b := mapbridge.NewBridge(mapbridge.Config{RequestBuffer: 8}, nil, zap.NewNop())
	app := fiber.New()
	mapbridge.NewHandler(b, zap.NewNop()).RegisterRoutes(app)
	return app, b
}

func TestHandlePushSnapshot(t *testing.T) {
	app, b := setupApp()

	var got *feature.Snapshot
	b.Subscribe(func(s *feature.Snapshot) { got = s })

	body := `{"version": 4, "features": [
		{"layerId": "parcels", "properties": {"id": 12, "name": "Lot 12"}},
		{"layerId": "parcels", "properties": {"properties": {"id": "13"}}}
	]}`
	req := httptest.NewRequest("POST", "/bridge/snapshot", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	require.NotNil(t, got)
	assert.Equal(t, uint64(4), got.Version())
	assert.Equal(t, 2, got.Len())
	assert.Equal(t, "12", feature.ResolveID(got.Features()[0], feature.Keys{}))
	assert.Equal(t, "13", feature.ResolveID(got.Features()[1], feature.Keys{}))
}

func TestHandlePushSnapshot_BadBody(t *testing.T) {
	app, _ := setupApp()
	req := httptest.NewRequest("POST", "/bridge/snapshot", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleDrainRequests(t *testing.T) {
	app, b := setupApp()
	b.RequestFlash("parcels", "12")

	resp, err := app.Test(httptest.NewRequest("GET", "/bridge/requests", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	data, _ := io.ReadAll(resp.Body)
	var out struct {
		Requests []mapbridge.Request `json:"requests"`
		Dropped  uint64              `json:"dropped"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	require.Len(t, out.Requests, 1)
	assert.Equal(t, mapbridge.KindFlash, out.Requests[0].Kind)
	assert.Equal(t, "12", out.Requests[0].FeatureID)

	resp, err = app.Test(httptest.NewRequest("GET", "/bridge/requests", nil))
	require.NoError(t, err)
	data, _ = io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"requests": [], "dropped": 0}`, string(data))
}

func TestHandleStatus(t *testing.T) {
	app, b := setupApp()
	b.Publish(feature.NewSnapshot(9))

	resp, err := app.Test(httptest.NewRequest("GET", "/bridge/status", nil))
	require.NoError(t, err)
	var st mapbridge.Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	assert.Equal(t, uint64(9), st.LatestVersion)
	assert.True(t, st.HasSnapshot)
}
