package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/brianyyz/ShareRidesV2Server/internal/identity"
	"github.com/brianyyz/ShareRidesV2Server/internal/models"
	"github.com/brianyyz/ShareRidesV2Server/internal/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Sync mirrors the identity-provider user after login. The row ID always
// comes from the token, never the body.
func (h *UserHandler) Sync(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var user models.User
	if err := c.BodyParser(&user); err != nil {
		return badBody(c)
	}
	user.ID = userID
	if user.Username == "" {
		return badID(c, "username")
	}

	if err := h.userService.Sync(c.Context(), &user); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}
