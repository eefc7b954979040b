package edits_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"map-editor/core/edit"
	"map-editor/core/session"
	"map-editor/feature/edits"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHandler(t *testing.T) {
	j := edits.NewJournal(nil, zap.NewNop())
	j.Commit(session.Commit{ID: "c1", Mode: edit.ModeSingle, LayerID: "parcels", Changes: map[string]any{"owner": "Ann"}, CommittedAt: time.Now()})

	app := fiber.New()
	edits.NewHandler(j, zap.NewNop()).RegisterRoutes(app)

	t.Run("List", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/edits?layer=parcels", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var out struct {
			Commits []edits.Entry `json:"commits"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		require.Len(t, out.Commits, 1)
		assert.Equal(t, "c1", out.Commits[0].ID)
	})

	t.Run("Get", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/edits/c1", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("NotFound", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/edits/nope", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}
