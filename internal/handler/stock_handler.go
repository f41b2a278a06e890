package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"go-socialstore-ws/internal/service"
)

type StockHandler struct {
	service service.StockService
}

func NewStockHandler(s service.StockService) *StockHandler {
	return &StockHandler{service: s}
}

// GetStock lists every product with total and still-valid quantities. The
// optional as_of query parameter (YYYY-MM-DD) moves the validity cutoff.
func (h *StockHandler) GetStock(c *fiber.Ctx) error {
	asOf := time.Now()
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid as_of date, use YYYY-MM-DD"})
		}
		asOf = parsed
	}

	listing, err := h.service.ListStock(c.Context(), asOf)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(listing)
}

func (h *StockHandler) RegisterEntry(c *fiber.Ctx) error {
	var req service.EntryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.RegisterEntry(c.Context(), &req, getUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Entry registered", "data": product})
}

func (h *StockHandler) EditBatch(c *fiber.Ctx) error {
	productID, err := parseIDParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	batchIndex, err := c.ParamsInt("index")
	if err != nil || batchIndex < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid batch index"})
	}

	var req service.BatchEditRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.EditBatch(c.Context(), productID, batchIndex, &req, getUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Batch updated", "data": product})
}

func (h *StockHandler) DeleteProduct(c *fiber.Ctx) error {
	productID, err := parseIDParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.service.DeleteProduct(c.Context(), productID, getUserID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

func (h *StockHandler) GetMovements(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	movements, err := h.service.RecentMovements(limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(movements)
}
