package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/questly/backend/pkg/apperr"
	"github.com/questly/backend/pkg/logger"
	"github.com/questly/backend/pkg/utils"
)

// ErrorHandler is the single point where business errors become HTTP
// responses. Anything unrecognized is masked behind a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return utils.Send(c, appErr.Status, appErr.Message, appErr.Data)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return utils.Send(c, fiberErr.Code, fiberErr.Message, nil)
	}

	logger.Error("unhandled_error", err, map[string]interface{}{
		"method": c.Method(),
		"path":   c.Path(),
	})

	return utils.Send(c, fiber.StatusInternalServerError, "Unknown error occurred", nil)
}
