package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/brianyyz/ShareRidesV2Server/internal/dto"
	"github.com/brianyyz/ShareRidesV2Server/internal/identity"
	"github.com/brianyyz/ShareRidesV2Server/internal/models"
	"github.com/brianyyz/ShareRidesV2Server/internal/services"
)

type RequestHandler struct {
	requestService *services.RequestService
}

func NewRequestHandler(requestService *services.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

// Create submits a request to join a ride. The service decides the
// requester and ride-owner references from the caller and the ride row; a
// manual add is rejected unless the caller owns the ride.
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req models.Request
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	req.ID = uuid.Nil
	req.RideDeleted = false

	if err := h.requestService.Create(c.Context(), &req, userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(req)
}

// Update re-saves an existing request without re-running the creation
// checks. Approval changes go through the approve/pend endpoints; only the
// request's parties may re-save it.
func (h *RequestHandler) Update(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "request ID")
	}

	existing, err := h.requestService.Get(c.Context(), requestID)
	if err != nil {
		return respondServiceError(c, err)
	}
	if existing.RequestOwnerID != userID && existing.RideOwnerID != userID {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: services.ErrNotRequestParty.Error(),
		})
	}

	var body models.Request
	if err := c.BodyParser(&body); err != nil {
		return badBody(c)
	}
	if body.RequestOwnerDisplayName != "" {
		existing.RequestOwnerDisplayName = body.RequestOwnerDisplayName
	}
	if !body.RequestDate.IsZero() {
		existing.RequestDate = body.RequestDate
	}

	if err := h.requestService.Save(c.Context(), existing); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(existing)
}

func (h *RequestHandler) Approve(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "request ID")
	}

	if err := h.requestService.Approve(c.Context(), requestID, userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Request approved"})
}

func (h *RequestHandler) Pend(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "request ID")
	}

	if err := h.requestService.Pend(c.Context(), requestID, userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Request pended"})
}

func (h *RequestHandler) Delete(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "request ID")
	}

	if err := h.requestService.Delete(c.Context(), requestID, userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Request deleted"})
}

// CheckPending reports whether any requests against the caller's rides are
// still waiting for approval.
func (h *RequestHandler) CheckPending(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	pending, err := h.requestService.CheckPending(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	if pending == nil {
		pending = []models.Request{}
	}
	return c.JSON(dto.PendingResponse{HasOutstanding: len(pending) > 0, Items: pending})
}
