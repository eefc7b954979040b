package mapbridge

import (
	"map-editor/core/feature"
	"map-editor/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests from the renderer.
type Handler struct {
	bridge *Bridge
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(bridge *Bridge, logger *zap.Logger) *Handler {
	return &Handler{bridge: bridge, logger: logger}
}

// RegisterRoutes registers the bridge routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/bridge")
	group.Post("/snapshot", h.HandlePushSnapshot)
	group.Get("/requests", h.HandleDrainRequests)
	group.Get("/status", h.HandleStatus)
}

// SnapshotRequest is the body of a snapshot push.
type SnapshotRequest struct {
	Version  uint64            `json:"version"`
	Features []feature.Feature `json:"features"`
}

// HandlePushSnapshot replaces the authoritative selection snapshot.
func (h *Handler) HandlePushSnapshot(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	var req SnapshotRequest
	if err := c.BodyParser(&req); err != nil {
		l.Warn("Invalid snapshot body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid snapshot body",
		})
	}

	h.bridge.Publish(feature.NewSnapshot(req.Version, req.Features...))
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"version":  req.Version,
		"features": len(req.Features),
	})
}

// HandleDrainRequests returns and clears the queued map requests.
func (h *Handler) HandleDrainRequests(c *fiber.Ctx) error {
	reqs := h.bridge.Drain()
	if reqs == nil {
		reqs = []Request{}
	}
	return c.JSON(fiber.Map{
		"requests": reqs,
		"dropped":  h.bridge.Status().Dropped,
	})
}

// HandleStatus reports the bridge status.
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(h.bridge.Status())
}
