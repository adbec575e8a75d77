package handlers

import (
	"nuvana-site/internal/dto"
	"nuvana-site/internal/models"
	"nuvana-site/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AssistantHandler struct {
	replyService *service.ReplyService
	greeting     string
	prompts      []dto.QuickPromptResponse
	faq          []dto.FAQItemResponse
	logger       *zap.Logger
}

func NewAssistantHandler(
	replyService *service.ReplyService,
	greeting string,
	prompts []models.QuickPrompt,
	faq []models.FAQItem,
	logger *zap.Logger,
) *AssistantHandler {
	h := &AssistantHandler{
		replyService: replyService,
		greeting:     greeting,
		prompts:      make([]dto.QuickPromptResponse, 0, len(prompts)),
		faq:          make([]dto.FAQItemResponse, 0, len(faq)),
		logger:       logger,
	}
	for _, p := range prompts {
		h.prompts = append(h.prompts, dto.QuickPromptResponse{Label: p.Label, Value: p.Value})
	}
	for _, f := range faq {
		h.faq = append(h.faq, dto.FAQItemResponse{Question: f.Question, Answer: f.Answer})
	}
	return h
}

// Reply godoc
// @Summary Ask the assistant
// @Description Returns the canned answer that best matches the message. Any text is accepted, including an empty string.
// @Tags assistant
// @Accept json
// @Produce json
// @Param request body dto.ReplyRequest true "User message"
// @Success 200 {object} dto.ReplyResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/assistant/reply [post]
func (h *AssistantHandler) Reply(c *fiber.Ctx) error {
	var req dto.ReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	match := h.replyService.Reply(c.UserContext(), req.Message)

	return c.JSON(dto.ReplyResponse{
		Reply:    match.Answer,
		Outcome:  string(match.Outcome),
		RecordID: match.RecordID,
		Score:    match.Score,
	})
}

// Prompts godoc
// @Summary Chat widget prompts
// @Description Opening bot message and quick prompt buttons
// @Tags assistant
// @Produce json
// @Success 200 {object} dto.PromptsResponse
// @Router /api/v1/assistant/prompts [get]
func (h *AssistantHandler) Prompts(c *fiber.Ctx) error {
	return c.JSON(dto.PromptsResponse{
		Greeting: h.greeting,
		Prompts:  h.prompts,
	})
}

// FAQ godoc
// @Summary Frequently asked questions
// @Tags faq
// @Produce json
// @Success 200 {array} dto.FAQItemResponse
// @Router /api/v1/faq [get]
func (h *AssistantHandler) FAQ(c *fiber.Ctx) error {
	return c.JSON(h.faq)
}
