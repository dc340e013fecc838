package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/brianyyz/ShareRidesV2Server/internal/apperr"
	"github.com/brianyyz/ShareRidesV2Server/internal/dto"
	"github.com/brianyyz/ShareRidesV2Server/internal/services"
)

// respondServiceError translates service failures into the uniform error
// body. Business-rule rejections keep their numeric code on a 422 so the
// client UI can key on it.
func respondServiceError(c *fiber.Ctx, err error) error {
	var aerr *apperr.Error
	if errors.As(err, &aerr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Error: true, Code: aerr.Code, Message: aerr.Message,
		})
	}

	switch {
	case errors.Is(err, services.ErrRideNotFound),
		errors.Is(err, services.ErrRequestNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrTeamRequestNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})

	case errors.Is(err, services.ErrNotRideOwner),
		errors.Is(err, services.ErrNotRequestParty),
		errors.Is(err, services.ErrNotTeamOwner),
		errors.Is(err, services.ErrNotTeamRequester):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})

	case errors.Is(err, services.ErrCannotApprove),
		errors.Is(err, services.ErrCannotPend),
		errors.Is(err, services.ErrCannotApproveTeam),
		errors.Is(err, services.ErrCannotPendTeam):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})

	case errors.Is(err, services.ErrBadSyncArgs):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: "Invalid request body",
	})
}

func badID(c *fiber.Ctx, what string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: "Invalid " + what,
	})
}
