package handlers

import (
	"errors"
	"time"

	"nuvana-site/internal/conversation"
	"nuvana-site/internal/dto"
	"nuvana-site/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ChatHandler struct {
	manager *conversation.Manager
	logger  *zap.Logger
}

func NewChatHandler(manager *conversation.Manager, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		manager: manager,
		logger:  logger,
	}
}

// CreateSession godoc
// @Summary Start a chat session
// @Description Opens a conversation seeded with the assistant's greeting
// @Tags chat
// @Produce json
// @Success 201 {object} dto.ChatSessionResponse
// @Router /api/v1/chat/sessions [post]
func (h *ChatHandler) CreateSession(c *fiber.Ctx) error {
	s := h.manager.Create()
	return c.Status(fiber.StatusCreated).JSON(toSessionResponse(s))
}

// GetSession godoc
// @Summary Get a chat transcript
// @Tags chat
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.ChatSessionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/chat/sessions/{id} [get]
func (h *ChatHandler) GetSession(c *fiber.Ctx) error {
	s, err := h.lookup(c)
	if err != nil {
		return h.sessionError(c, err)
	}
	return c.JSON(toSessionResponse(s))
}

// SendMessage godoc
// @Summary Send a chat message
// @Description Appends the user message and waits for the assistant's delayed reply
// @Tags chat
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.SendMessageRequest true "Message"
// @Success 200 {object} dto.ChatMessageResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 410 {object} map[string]string
// @Router /api/v1/chat/sessions/{id}/messages [post]
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	s, err := h.lookup(c)
	if err != nil {
		return h.sessionError(c, err)
	}

	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	pending, err := s.Send(req.Content)
	if err != nil {
		return h.sessionError(c, err)
	}

	msg, err := pending.Wait(c.UserContext())
	if err != nil {
		return h.sessionError(c, err)
	}

	return c.JSON(toMessageResponse(msg))
}

// CloseSession godoc
// @Summary Close a chat session
// @Description Closes the session and cancels replies that have not been delivered
// @Tags chat
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /api/v1/chat/sessions/{id} [delete]
func (h *ChatHandler) CloseSession(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID",
		})
	}
	if err := h.manager.Close(id); err != nil {
		return h.sessionError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ChatHandler) lookup(c *fiber.Ctx) (*conversation.Session, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, errInvalidSessionID
	}
	return h.manager.Get(id)
}

var errInvalidSessionID = errors.New("invalid session id")

func (h *ChatHandler) sessionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errInvalidSessionID):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session ID"})
	case errors.Is(err, conversation.ErrSessionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	case errors.Is(err, conversation.ErrSessionClosed):
		return c.Status(fiber.StatusGone).JSON(fiber.Map{"error": "Session is closed"})
	case errors.Is(err, conversation.ErrEmptyMessage):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Message is empty"})
	default:
		h.logger.Warn("Chat request failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Reply not available"})
	}
}

func toSessionResponse(s *conversation.Session) dto.ChatSessionResponse {
	msgs := s.Messages()
	out := dto.ChatSessionResponse{
		ID:       s.ID.String(),
		Messages: make([]dto.ChatMessageResponse, 0, len(msgs)),
	}
	for _, m := range msgs {
		out.Messages = append(out.Messages, toMessageResponse(m))
	}
	return out
}

func toMessageResponse(m models.ChatMessage) dto.ChatMessageResponse {
	return dto.ChatMessageResponse{
		Role:      string(m.Role),
		Content:   m.Content,
		CreatedAt: m.CreatedAt.Format(time.RFC3339Nano),
	}
}
