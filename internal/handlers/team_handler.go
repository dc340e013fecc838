package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/brianyyz/ShareRidesV2Server/internal/dto"
	"github.com/brianyyz/ShareRidesV2Server/internal/identity"
	"github.com/brianyyz/ShareRidesV2Server/internal/models"
	"github.com/brianyyz/ShareRidesV2Server/internal/services"
)

type TeamHandler struct {
	teamService *services.TeamService
}

func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

func (h *TeamHandler) Create(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var team models.Team
	if err := c.BodyParser(&team); err != nil {
		return badBody(c)
	}
	team.ID = uuid.Nil
	team.OwnerID = userID
	team.Deleted = false
	team.DeletedDate = nil

	if err := h.teamService.CreateTeam(c.Context(), &team); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(team)
}

func (h *TeamHandler) Delete(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	teamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "team ID")
	}

	if err := h.teamService.DeleteTeam(c.Context(), teamID, userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Team deleted"})
}

// HasRequests answers whether any join requests exist for the team, which
// the client uses to decide if the team can be picked freely.
func (h *TeamHandler) HasRequests(c *fiber.Ctx) error {
	teamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "team ID")
	}

	has, err := h.teamService.HasRequests(c.Context(), teamID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(dto.HasRequestsResponse{HasRequests: has})
}

func (h *TeamHandler) CreateRequest(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var tr models.TeamRequest
	if err := c.BodyParser(&tr); err != nil {
		return badBody(c)
	}
	tr.ID = uuid.Nil
	tr.RequestOwnerID = userID

	if err := h.teamService.CreateRequest(c.Context(), &tr, userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tr)
}

func (h *TeamHandler) ApproveRequest(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "team request ID")
	}

	if err := h.teamService.ApprovePending(c.Context(), requestID, userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Team request approved"})
}

func (h *TeamHandler) PendRequest(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "team request ID")
	}

	if err := h.teamService.PendRequest(c.Context(), requestID, userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Team request pended"})
}

func (h *TeamHandler) DeleteRequest(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "team request ID")
	}

	if err := h.teamService.DeleteRequest(c.Context(), requestID, userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Team request deleted"})
}

// CheckPending reports whether join requests against the caller's teams are
// still waiting for approval.
func (h *TeamHandler) CheckPending(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	pending, err := h.teamService.CheckPending(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	if pending == nil {
		pending = []models.TeamRequest{}
	}
	return c.JSON(dto.PendingResponse{HasOutstanding: len(pending) > 0, Items: pending})
}
