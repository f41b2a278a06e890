package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-socialstore-ws/internal/service"
)

type DonationHandler struct {
	service service.DonationService
}

func NewDonationHandler(s service.DonationService) *DonationHandler {
	return &DonationHandler{service: s}
}

func (h *DonationHandler) Register(c *fiber.Ctx) error {
	var req service.DonationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	donation, err := h.service.Register(c.Context(), &req, getUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Donation registered", "data": donation})
}

func (h *DonationHandler) GetDonations(c *fiber.Ctx) error {
	donations, err := h.service.List()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(donations)
}

func (h *DonationHandler) CreateCampaign(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	campaign, err := h.service.CreateCampaign(c.Context(), req.Name, getUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Campaign created", "data": campaign})
}

func (h *DonationHandler) GetCampaigns(c *fiber.Ctx) error {
	campaigns, err := h.service.ListCampaigns()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(campaigns)
}
