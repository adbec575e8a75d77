package handlers

import (
	"errors"
	"strings"

	"nuvana-site/internal/dto"
	"nuvana-site/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ContactHandler struct {
	contactService *service.ContactService
	logger         *zap.Logger
}

func NewContactHandler(contactService *service.ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		logger:         logger,
	}
}

// Submit godoc
// @Summary Submit the contact form
// @Description Stores the message for the NuvanaCore team
// @Tags contact
// @Accept json
// @Produce json
// @Param request body dto.ContactRequest true "Contact form"
// @Success 201 {object} dto.ContactResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/contact [post]
func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var req dto.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	resp, err := h.contactService.Submit(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidContact) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": strings.TrimPrefix(err.Error(), service.ErrInvalidContact.Error()+": "),
			})
		}
		h.logger.Error("Contact submission failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to send message.",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// List godoc
// @Summary List contact submissions
// @Tags admin
// @Produce json
// @Param limit query int false "Limit" default(20)
// @Param offset query int false "Offset" default(0)
// @Security Bearer
// @Success 200 {array} dto.ContactSubmissionResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/admin/contacts [get]
func (h *ContactHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	items, err := h.contactService.List(c.UserContext(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list contact submissions", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list contact submissions",
		})
	}

	return c.JSON(items)
}

// MarkHandled godoc
// @Summary Mark a contact submission as handled
// @Tags admin
// @Param id path string true "Submission ID"
// @Security Bearer
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/admin/contacts/{id}/handled [post]
func (h *ContactHandler) MarkHandled(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid submission ID",
		})
	}

	if err := h.contactService.MarkHandled(c.UserContext(), id); err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Submission not found",
			})
		}
		h.logger.Error("Failed to update contact submission", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update contact submission",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
