package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-socialstore-ws/internal/service"
)

type OverviewHandler struct {
	service service.OverviewService
}

func NewOverviewHandler(s service.OverviewService) *OverviewHandler {
	return &OverviewHandler{service: s}
}

func (h *OverviewHandler) GetPendingCounts(c *fiber.Ctx) error {
	counts, err := h.service.GetPendingCounts()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(counts)
}

func (h *OverviewHandler) GetStockFlow(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)
	flow, err := h.service.GetStockFlow(days)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(flow)
}
