package edits

import (
	"errors"

	"map-editor/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the edit journal.
type Handler struct {
	journal *Journal
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(journal *Journal, logger *zap.Logger) *Handler {
	return &Handler{journal: journal, logger: logger}
}

// RegisterRoutes registers the journal routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/edits")
	group.Get("/", h.HandleList)
	group.Get("/:id", h.HandleGet)
}

// HandleList returns recent commits.
func (h *Handler) HandleList(c *fiber.Ctx) error {
	entries, err := h.journal.List(c.Context(), c.Query("layer"), c.QueryInt("limit", defaultLimit))
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Listing commits failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"commits": entries})
}

// HandleGet returns one commit.
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	e, err := h.journal.Get(c.Context(), c.Params("id"))
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Loading commit failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(e)
}
