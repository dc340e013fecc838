package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/brianyyz/ShareRidesV2Server/internal/dto"
	"github.com/brianyyz/ShareRidesV2Server/internal/identity"
	"github.com/brianyyz/ShareRidesV2Server/internal/models"
	"github.com/brianyyz/ShareRidesV2Server/internal/services"
)

type InstallationHandler struct {
	installationService *services.InstallationService
}

func NewInstallationHandler(installationService *services.InstallationService) *InstallationHandler {
	return &InstallationHandler{installationService: installationService}
}

// Upsert registers or refreshes the calling device.
func (h *InstallationHandler) Upsert(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var inst models.Installation
	if err := c.BodyParser(&inst); err != nil {
		return badBody(c)
	}
	if inst.DeviceToken == "" {
		return badID(c, "device token")
	}

	if err := h.installationService.Upsert(c.Context(), &inst, userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(inst)
}

// Subscribe adds a channel across all of the caller's installations. The
// team tag is never set through this surface; membership flows through the
// team-request workflow, which runs the sync itself.
func (h *InstallationHandler) Subscribe(c *fiber.Ctx) error {
	callerID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.SubscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	userID := uuid.Nil
	if req.UserID != "" {
		parsed, err := uuid.Parse(req.UserID)
		if err != nil {
			return badID(c, "user ID")
		}
		userID = parsed
	}

	if err := h.installationService.SubscribeToChannel(c.Context(), req.Channel, userID, callerID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Subscribed"})
}
