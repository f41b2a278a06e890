package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-socialstore-ws/internal/model"
	"go-socialstore-ws/internal/service"
)

type DeliveryHandler struct {
	service service.DeliveryService
}

func NewDeliveryHandler(s service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{service: s}
}

func (h *DeliveryHandler) Approve(c *fiber.Ctx) error {
	deliveryID, err := parseIDParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid delivery ID"})
	}

	delivery, err := h.service.Approve(c.Context(), deliveryID, getUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Delivery completed", "data": delivery})
}

func (h *DeliveryHandler) Reject(c *fiber.Ctx) error {
	deliveryID, err := parseIDParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid delivery ID"})
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	delivery, err := h.service.Reject(c.Context(), deliveryID, req.Reason, getUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Delivery cancelled", "data": delivery})
}

func (h *DeliveryHandler) GetDeliveries(c *fiber.Ctx) error {
	if raw := c.Query("status"); raw != "" {
		status, err := model.ParseDeliveryStatus(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		deliveries, err := h.service.ListByStatus(status)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(deliveries)
	}

	deliveries, err := h.service.ListAll()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(deliveries)
}
