package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-socialstore-ws/internal/model"
	"go-socialstore-ws/internal/service"
)

type CandidatureHandler struct {
	service service.CandidatureService
}

func NewCandidatureHandler(s service.CandidatureService) *CandidatureHandler {
	return &CandidatureHandler{service: s}
}

func (h *CandidatureHandler) Submit(c *fiber.Ctx) error {
	var req service.CandidatureRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	candidature, err := h.service.Submit(c.Context(), &req, getUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Candidature submitted", "data": candidature})
}

func (h *CandidatureHandler) Approve(c *fiber.Ctx) error {
	candidatureID, err := parseIDParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid candidature ID"})
	}

	candidature, err := h.service.Approve(c.Context(), candidatureID, getUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Candidature approved", "data": candidature})
}

func (h *CandidatureHandler) Reject(c *fiber.Ctx) error {
	candidatureID, err := parseIDParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid candidature ID"})
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	candidature, err := h.service.Reject(c.Context(), candidatureID, req.Reason, getUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Candidature rejected", "data": candidature})
}

func (h *CandidatureHandler) GetCandidatures(c *fiber.Ctx) error {
	if raw := c.Query("status"); raw != "" {
		status, err := model.ParseStatus(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		candidatures, err := h.service.ListByStatus(status)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(candidatures)
	}

	candidatures, err := h.service.ListAll()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(candidatures)
}
