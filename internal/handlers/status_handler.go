package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/brianyyz/ShareRidesV2Server/internal/models"
	"github.com/brianyyz/ShareRidesV2Server/internal/services"
)

type StatusHandler struct {
	statusService *services.StatusService
}

func NewStatusHandler(statusService *services.StatusService) *StatusHandler {
	return &StatusHandler{statusService: statusService}
}

// Get serves the status snapshot clients poll before doing anything else.
func (h *StatusHandler) Get(c *fiber.Ctx) error {
	snapshot, err := h.statusService.Snapshot(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(snapshot)
}

// Set replaces the status record. Admin only.
func (h *StatusHandler) Set(c *fiber.Ctx) error {
	var status models.SystemStatus
	if err := c.BodyParser(&status); err != nil {
		return badBody(c)
	}

	if err := h.statusService.SetStatus(c.Context(), &status); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(status)
}
