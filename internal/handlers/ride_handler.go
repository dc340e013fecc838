package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/brianyyz/ShareRidesV2Server/internal/dto"
	"github.com/brianyyz/ShareRidesV2Server/internal/identity"
	"github.com/brianyyz/ShareRidesV2Server/internal/models"
	"github.com/brianyyz/ShareRidesV2Server/internal/services"
)

type RideHandler struct {
	rideService    *services.RideService
	messageService *services.MessageService
}

func NewRideHandler(rideService *services.RideService, messageService *services.MessageService) *RideHandler {
	return &RideHandler{rideService: rideService, messageService: messageService}
}

func (h *RideHandler) Create(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var ride models.Ride
	if err := c.BodyParser(&ride); err != nil {
		return badBody(c)
	}
	ride.ID = uuid.Nil
	ride.OwnerID = userID

	if err := h.rideService.Create(c.Context(), &ride); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ride)
}

func (h *RideHandler) Update(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	rideID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "ride ID")
	}

	existing, err := h.rideService.Get(c.Context(), rideID)
	if err != nil {
		return respondServiceError(c, err)
	}
	if existing.OwnerID != userID {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: services.ErrNotRideOwner.Error(),
		})
	}

	var ride models.Ride
	if err := c.BodyParser(&ride); err != nil {
		return badBody(c)
	}
	ride.ID = rideID
	ride.OwnerID = existing.OwnerID
	ride.TeamID = existing.TeamID
	ride.CreatedAt = existing.CreatedAt

	if err := h.rideService.Update(c.Context(), &ride); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(ride)
}

func (h *RideHandler) Get(c *fiber.Ctx) error {
	rideID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "ride ID")
	}

	ride, err := h.rideService.Get(c.Context(), rideID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(ride)
}

// List returns the caller's upcoming rides scoped by team. An explicit
// teamId query narrows to that team; otherwise team-less rides are shown.
func (h *RideHandler) List(c *fiber.Ctx) error {
	var teamID *uuid.UUID
	if raw := c.Query("teamId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return badID(c, "team ID")
		}
		teamID = &parsed
	}

	rides, err := h.rideService.List(c.Context(), teamID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(rides)
}

func (h *RideHandler) Delete(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	rideID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "ride ID")
	}

	if err := h.rideService.Delete(c.Context(), rideID, userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Ride deleted"})
}

// MessagePassengers relays a message from the ride owner to everyone who
// requested the ride.
func (h *RideHandler) MessagePassengers(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	rideID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "ride ID")
	}

	var req dto.MessageRequest
	if err := c.BodyParser(&req); err != nil || req.Message == "" {
		return badBody(c)
	}

	ride, err := h.rideService.Get(c.Context(), rideID)
	if err != nil {
		return respondServiceError(c, err)
	}
	if ride.OwnerID != userID {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: services.ErrNotRideOwner.Error(),
		})
	}

	notified, err := h.messageService.SendToPassengers(c.Context(), rideID, req.Message)
	if err != nil {
		return respondServiceError(c, err)
	}
	if notified == nil {
		notified = []string{}
	}
	return c.JSON(dto.NotifiedResponse{Notified: notified})
}

// MessageOwner relays a message from a rider to the ride owner.
func (h *RideHandler) MessageOwner(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	rideID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "ride ID")
	}

	var req dto.MessageRequest
	if err := c.BodyParser(&req); err != nil || req.Message == "" {
		return badBody(c)
	}

	notified, err := h.messageService.SendToOwner(c.Context(), rideID, userID, req.Message)
	if err != nil {
		return respondServiceError(c, err)
	}
	if notified == nil {
		notified = []string{}
	}
	return c.JSON(dto.NotifiedResponse{Notified: notified})
}
