package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/questly/backend/internal/middleware"
	"github.com/questly/backend/pkg/apperr"
	"github.com/questly/backend/pkg/utils"
)

// ProtectedHandler serves the role-gated probe routes. They exist to
// exercise the auth filter and role guard end to end.
type ProtectedHandler struct{}

func NewProtectedHandler() *ProtectedHandler {
	return &ProtectedHandler{}
}

func (h *ProtectedHandler) QuesterOnly(c *fiber.Ctx) error {
	return sendIdentity(c, "Yes this is quester only route")
}

func (h *ProtectedHandler) RequesterOnly(c *fiber.Ctx) error {
	return sendIdentity(c, "Yes this is requester only route")
}

func sendIdentity(c *fiber.Ctx, message string) error {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		return apperr.Unauthorized("Authentication required")
	}

	authorities := make([]string, 0, len(identity.Roles))
	for _, role := range identity.Roles {
		authorities = append(authorities, string(role))
	}

	return utils.Send(c, fiber.StatusOK, message, fiber.Map{
		"email":       identity.Email,
		"authorities": authorities,
	})
}
