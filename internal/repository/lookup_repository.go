package repository

import (
	"context"
	"time"

	"nuvana-site/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// LookupRepository keeps one counter row per (outcome, record_id).
type LookupRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewLookupRepository(db *pgxpool.Pool, logger *zap.Logger) *LookupRepository {
	return &LookupRepository{
		db:     db,
		logger: logger,
	}
}

func (r *LookupRepository) Record(ctx context.Context, outcome models.ReplyOutcome, recordID string) error {
	sql, args, err := buildLookupUpsert(outcome, recordID, time.Now()).ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// List returns counters, most frequent first.
func (r *LookupRepository) List(ctx context.Context) ([]*models.ReplyLookup, error) {
	sql, args, err := squirrel.Select("l.outcome", "l.record_id", "l.count", "l.last_seen_at").
		From("reply_lookups l").
		LeftJoin("knowledge_records k ON k.id = l.record_id").
		OrderBy("l.count DESC", "k.position ASC NULLS LAST").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lookups []*models.ReplyLookup
	for rows.Next() {
		var l models.ReplyLookup
		if err := rows.Scan(&l.Outcome, &l.RecordID, &l.Count, &l.LastSeenAt); err != nil {
			return nil, err
		}
		lookups = append(lookups, &l)
	}

	return lookups, rows.Err()
}

func buildLookupUpsert(outcome models.ReplyOutcome, recordID string, now time.Time) squirrel.InsertBuilder {
	return squirrel.Insert("reply_lookups").
		Columns("outcome", "record_id", "count", "last_seen_at").
		Values(outcome, recordID, 1, now).
		Suffix("ON CONFLICT (outcome, record_id) DO UPDATE SET count = reply_lookups.count + 1, last_seen_at = EXCLUDED.last_seen_at").
		PlaceholderFormat(squirrel.Dollar)
}
