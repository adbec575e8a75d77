package handlers

import (
	"context"
	"time"

	"nuvana-site/internal/dto"
	"nuvana-site/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type LookupLister interface {
	List(ctx context.Context) ([]*models.ReplyLookup, error)
}

type StatsHandler struct {
	lookups LookupLister
	logger  *zap.Logger
}

func NewStatsHandler(lookups LookupLister, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		lookups: lookups,
		logger:  logger,
	}
}

// ReplyStats godoc
// @Summary Assistant reply statistics
// @Description How often each knowledge record, the greeting and the generic fallback were returned
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.ReplyLookupResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/admin/reply-stats [get]
func (h *StatsHandler) ReplyStats(c *fiber.Ctx) error {
	lookups, err := h.lookups.List(c.UserContext())
	if err != nil {
		h.logger.Error("Failed to list reply lookups", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load reply statistics",
		})
	}

	out := make([]dto.ReplyLookupResponse, 0, len(lookups))
	for _, l := range lookups {
		out = append(out, dto.ReplyLookupResponse{
			Outcome:    string(l.Outcome),
			RecordID:   l.RecordID,
			Count:      l.Count,
			LastSeenAt: l.LastSeenAt.Format(time.RFC3339),
		})
	}
	return c.JSON(out)
}
