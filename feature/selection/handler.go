package selection

import (
	"map-editor/core/feature"
	"map-editor/core/logger"
	"map-editor/core/session"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests from display components.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the selection, edit and policy routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	sel := app.Group("/selection")
	sel.Get("/", h.HandleState)
	sel.Post("/click", h.HandleClick)
	sel.Post("/select-all", h.HandleSelectAll)
	sel.Post("/clear", h.HandleClear)
	sel.Post("/unselect", h.HandleUnselect)
	sel.Post("/flash", h.HandleFlash)
	sel.Post("/zoom", h.HandleZoom)
	sel.Post("/context-menu", h.HandleOpenContextMenu)
	sel.Delete("/context-menu", h.HandleCloseContextMenu)

	app.Post("/layers/:id/visibility", h.HandleLayerVisibility)

	ed := app.Group("/edit")
	ed.Post("/", h.HandleBeginEdit)
	ed.Delete("/", h.HandleCancelEdit)
	ed.Put("/fields/:name", h.HandleSetField)
	ed.Delete("/fields/:name", h.HandleResetField)
	ed.Post("/reset", h.HandleResetAll)
	ed.Post("/commit", h.HandleCommit)

	pol := app.Group("/policies")
	pol.Get("/", h.HandleListPolicies)
	pol.Post("/reload", h.HandleReloadPolicies)
}

// FeatureRequest carries one feature, with an optional screen position.
type FeatureRequest struct {
	Feature  *feature.Feature `json:"feature"`
	Modifier bool             `json:"modifier"`
	X        *float64         `json:"x"`
	Y        *float64         `json:"y"`
}

func (r FeatureRequest) point() (session.Point, bool) {
	if r.X == nil || r.Y == nil {
		return session.Point{}, false
	}
	return session.Point{X: *r.X, Y: *r.Y}, true
}

// LayerRequest names a layer.
type LayerRequest struct {
	LayerID string `json:"layerId"`
}

// VisibilityRequest sets a layer's visibility.
type VisibilityRequest struct {
	Visible bool `json:"visible"`
}

// FieldRequest carries a field value.
type FieldRequest struct {
	Value any `json:"value"`
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func conflict(c *fiber.Ctx, msg string, st State) error {
	return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": msg, "state": st})
}

// parseFeature reads a FeatureRequest that must carry a feature.
func (h *Handler) parseFeature(c *fiber.Ctx) (FeatureRequest, bool) {
	var req FeatureRequest
	if err := c.BodyParser(&req); err != nil || req.Feature == nil {
		logger.WithRayID(h.logger, c).Debug("Request without feature", zap.Error(err))
		return req, false
	}
	return req, true
}

// HandleState returns the current state.
func (h *Handler) HandleState(c *fiber.Ctx) error {
	return c.JSON(h.service.State())
}

// HandleClick applies a user click.
func (h *Handler) HandleClick(c *fiber.Ctx) error {
	req, ok := h.parseFeature(c)
	if !ok {
		return badRequest(c, "feature is required")
	}
	st := h.service.Do(func(s *session.Session) {
		s.OnFeatureClicked(*req.Feature, req.Modifier)
		if p, ok := req.point(); ok {
			s.Interaction().RecordClick(p)
		}
	})
	return c.JSON(st)
}

// HandleSelectAll selects every identifiable feature of a layer.
func (h *Handler) HandleSelectAll(c *fiber.Ctx) error {
	var req LayerRequest
	if err := c.BodyParser(&req); err != nil || req.LayerID == "" {
		return badRequest(c, "layerId is required")
	}
	return c.JSON(h.service.Do(func(s *session.Session) { s.SelectAllInLayer(req.LayerID) }))
}

// HandleClear clears the selection locally and on the map.
func (h *Handler) HandleClear(c *fiber.Ctx) error {
	return c.JSON(h.service.Do(func(s *session.Session) { s.ClearSelection() }))
}

// HandleUnselect removes one feature from the selection.
func (h *Handler) HandleUnselect(c *fiber.Ctx) error {
	req, ok := h.parseFeature(c)
	if !ok {
		return badRequest(c, "feature is required")
	}
	return c.JSON(h.service.Do(func(s *session.Session) { s.Unselect(*req.Feature) }))
}

// HandleFlash highlights a feature on the map.
func (h *Handler) HandleFlash(c *fiber.Ctx) error {
	req, ok := h.parseFeature(c)
	if !ok {
		return badRequest(c, "feature is required")
	}
	return c.JSON(h.service.Do(func(s *session.Session) { s.Flash(*req.Feature) }))
}

// HandleZoom frames a feature, or the current selection without one.
func (h *Handler) HandleZoom(c *fiber.Ctx) error {
	var req FeatureRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid body")
		}
	}
	return c.JSON(h.service.Do(func(s *session.Session) {
		if req.Feature != nil {
			s.ZoomTo(*req.Feature)
			return
		}
		s.ZoomToSelection()
	}))
}

// HandleOpenContextMenu records a context menu target.
func (h *Handler) HandleOpenContextMenu(c *fiber.Ctx) error {
	req, ok := h.parseFeature(c)
	if !ok {
		return badRequest(c, "feature is required")
	}
	p, _ := req.point()
	return c.JSON(h.service.Do(func(s *session.Session) { s.OpenContextMenu(*req.Feature, p) }))
}

// HandleCloseContextMenu drops the context menu target.
func (h *Handler) HandleCloseContextMenu(c *fiber.Ctx) error {
	return c.JSON(h.service.Do(func(s *session.Session) { s.Interaction().CloseContextMenu() }))
}

// HandleLayerVisibility forwards a visibility change to the map.
func (h *Handler) HandleLayerVisibility(c *fiber.Ctx) error {
	var req VisibilityRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	layerID := c.Params("id")
	return c.JSON(h.service.Do(func(s *session.Session) { s.SetLayerVisibility(layerID, req.Visible) }))
}

// HandleBeginEdit creates the edit buffer for the current mode.
func (h *Handler) HandleBeginEdit(c *fiber.Ctx) error {
	st, ok := h.service.Edit(func(s *session.Session) bool {
		_, ok := s.BeginEdit()
		return ok
	})
	if !ok {
		return conflict(c, "nothing editable is selected", st)
	}
	return c.Status(fiber.StatusCreated).JSON(st)
}

// HandleCancelEdit discards the buffer.
func (h *Handler) HandleCancelEdit(c *fiber.Ctx) error {
	st, _ := h.service.Edit(func(s *session.Session) bool {
		s.CancelEdit()
		return true
	})
	return c.JSON(st)
}

// HandleSetField writes one field. Validation messages are part of the state.
func (h *Handler) HandleSetField(c *fiber.Ctx) error {
	var req FieldRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	name := c.Params("name")
	st, ok := h.service.Edit(func(s *session.Session) bool { return s.SetFieldValue(name, req.Value) })
	if !ok {
		return conflict(c, "no active edit", st)
	}
	return c.JSON(st)
}

// HandleResetField reverts one field.
func (h *Handler) HandleResetField(c *fiber.Ctx) error {
	name := c.Params("name")
	st, ok := h.service.Edit(func(s *session.Session) bool {
		if s.Buffer() == nil {
			return false
		}
		s.ResetField(name)
		return true
	})
	if !ok {
		return conflict(c, "no active edit", st)
	}
	return c.JSON(st)
}

// HandleResetAll reverts the buffer.
func (h *Handler) HandleResetAll(c *fiber.Ctx) error {
	st, ok := h.service.Edit(func(s *session.Session) bool {
		if s.Buffer() == nil {
			return false
		}
		s.ResetAll()
		return true
	})
	if !ok {
		return conflict(c, "no active edit", st)
	}
	return c.JSON(st)
}

// HandleCommit commits the buffer.
func (h *Handler) HandleCommit(c *fiber.Ctx) error {
	commit, st, ok := h.service.Commit()
	if !ok {
		return conflict(c, "commit skipped", st)
	}
	logger.WithRayID(h.logger, c).Info("Commit accepted", zap.String("commit_id", commit.ID))
	return c.JSON(fiber.Map{"commit": commit, "state": st})
}

// HandleListPolicies returns the loaded layer policies.
func (h *Handler) HandleListPolicies(c *fiber.Ctx) error {
	return c.JSON(h.service.Policies())
}

// HandleReloadPolicies reloads the layer policies from their source.
func (h *Handler) HandleReloadPolicies(c *fiber.Ctx) error {
	set, err := h.service.ReloadPolicies(c.Context())
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Policy reload failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"layers": set.LayerIDs()})
}
