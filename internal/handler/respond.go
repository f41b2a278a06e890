package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"go-socialstore-ws/internal/apperr"
)

// fail maps a service error onto the response code taxonomy. The message is
// the error text itself; services never leak internals into their errors.
func fail(c *fiber.Ctx, err error) error {
	status := apperr.HTTPStatus(err)
	if status == 500 {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// getUserID returns the authenticated user's id set by the auth middleware.
func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return "system"
	}
	return userID.(string)
}

func parseIDParam(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}
