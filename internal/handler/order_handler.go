package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-socialstore-ws/internal/model"
	"go-socialstore-ws/internal/service"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

func (h *OrderHandler) Submit(c *fiber.Ctx) error {
	var req service.OrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.Submit(c.Context(), &req, getUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Order submitted", "data": order})
}

func (h *OrderHandler) Approve(c *fiber.Ctx) error {
	orderID, err := parseIDParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	order, err := h.service.Approve(c.Context(), orderID, getUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order approved", "data": order})
}

func (h *OrderHandler) Reject(c *fiber.Ctx) error {
	orderID, err := parseIDParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.Reject(c.Context(), orderID, req.Reason, getUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order rejected", "data": order})
}

// GetOrders lists orders, optionally filtered by ?status=PENDING.
func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	if raw := c.Query("status"); raw != "" {
		status, err := model.ParseStatus(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		orders, err := h.service.ListByStatus(status)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(orders)
	}

	orders, err := h.service.ListAll()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(orders)
}
