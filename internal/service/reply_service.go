package service

import (
	"context"

	"nuvana-site/internal/knowledge"
	"nuvana-site/internal/models"

	"go.uber.org/zap"
)

// LookupRecorder persists reply statistics.
type LookupRecorder interface {
	Record(ctx context.Context, outcome models.ReplyOutcome, recordID string) error
}

type ReplyService struct {
	records  []models.KnowledgeRecord
	recorder LookupRecorder
	logger   *zap.Logger
}

// NewReplyService snapshots the knowledge base. recorder may be nil.
func NewReplyService(base *knowledge.Base, recorder LookupRecorder, logger *zap.Logger) *ReplyService {
	return &ReplyService{
		records:  base.Records(),
		recorder: recorder,
		logger:   logger,
	}
}

// Reply selects the answer for input and records the outcome. Statistics
// failures are logged and never affect the answer.
func (s *ReplyService) Reply(ctx context.Context, input string) ReplyMatch {
	match := MatchReply(input, s.records)

	s.logger.Debug("Reply selected",
		zap.String("outcome", string(match.Outcome)),
		zap.String("record_id", match.RecordID),
		zap.Int("score", match.Score),
	)

	if s.recorder != nil {
		if err := s.recorder.Record(ctx, match.Outcome, match.RecordID); err != nil {
			s.logger.Warn("Failed to record reply lookup", zap.Error(err))
		}
	}

	return match
}
