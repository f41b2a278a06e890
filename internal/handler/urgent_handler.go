package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-socialstore-ws/internal/service"
)

type UrgentHandler struct {
	service service.UrgentService
}

func NewUrgentHandler(s service.UrgentService) *UrgentHandler {
	return &UrgentHandler{service: s}
}

// Fulfill hands goods to a walk-in in one call. The Idempotency-Key header
// takes precedence over the body field so retry proxies work out of the box.
func (h *UrgentHandler) Fulfill(c *fiber.Ctx) error {
	var req service.UrgentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if key := c.Get("Idempotency-Key"); key != "" {
		req.IdempotencyKey = key
	}

	result, err := h.service.Fulfill(c.Context(), &req, getUserID(c))
	if err != nil {
		return fail(c, err)
	}
	if result.Duplicate {
		return c.JSON(fiber.Map{"message": "Already fulfilled", "data": result})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Urgent delivery fulfilled", "data": result})
}
