package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"nuvana-site/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// KnowledgeRepository mirrors the knowledge base into Postgres so reply
// statistics can be joined with record positions and answers.
type KnowledgeRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewKnowledgeRepository(db *pgxpool.Pool, logger *zap.Logger) *KnowledgeRepository {
	return &KnowledgeRepository{
		db:     db,
		logger: logger,
	}
}

// Sync upserts records by id in their current order and deletes rows for
// records that no longer exist. It returns how many rows changed content.
func (r *KnowledgeRepository) Sync(ctx context.Context, records []models.KnowledgeRecord) (int, error) {
	existing, err := r.hashes(ctx)
	if err != nil {
		return 0, err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	changed := 0
	ids := make([]string, 0, len(records))
	for i, rec := range records {
		ids = append(ids, rec.ID)
		hash := ContentHash(i, rec)
		if existing[rec.ID] == hash {
			continue
		}
		sql, args, err := buildKnowledgeUpsert(i, rec, hash, now).ToSql()
		if err != nil {
			return 0, err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return 0, err
		}
		changed++
	}

	del := squirrel.Delete("knowledge_records").PlaceholderFormat(squirrel.Dollar)
	if len(ids) > 0 {
		del = del.Where(squirrel.NotEq{"id": ids})
	}
	sql, args, err := del.ToSql()
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	r.logger.Info("Knowledge base synced",
		zap.Int("records", len(records)),
		zap.Int("changed", changed),
		zap.Int64("removed", tag.RowsAffected()),
	)
	return changed, nil
}

func (r *KnowledgeRepository) List(ctx context.Context) ([]models.KnowledgeRecord, error) {
	sql, args, err := squirrel.Select("id", "keywords", "answer").
		From("knowledge_records").
		OrderBy("position ASC").
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

	var records []models.KnowledgeRecord
	for rows.Next() {
		var rec models.KnowledgeRecord
		if err := rows.Scan(&rec.ID, &rec.Keywords, &rec.Answer); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (r *KnowledgeRepository) hashes(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.Query(ctx, "SELECT id, content_hash FROM knowledge_records")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var id, hash string
		if err := rows.Scan(&id, &hash); err != nil {
			return nil, err
		}
		out[id] = hash
	}
	return out, rows.Err()
}

// ContentHash identifies a record's position, keywords and answer. Position
// is included because reordering changes which record wins ties.
func ContentHash(position int, rec models.KnowledgeRecord) string {
	h := sha256.New()
	h.Write([]byte(strconv.Itoa(position)))
	h.Write([]byte{0x01})
	h.Write([]byte(strings.Join(rec.Keywords, "\x00")))
	h.Write([]byte{0x01})
	h.Write([]byte(rec.Answer))
	return hex.EncodeToString(h.Sum(nil))
}

func buildKnowledgeUpsert(position int, rec models.KnowledgeRecord, hash string, now time.Time) squirrel.InsertBuilder {
	return squirrel.Insert("knowledge_records").
		Columns("id", "position", "keywords", "answer", "content_hash", "updated_at").
		Values(rec.ID, position, rec.Keywords, rec.Answer, hash, now).
		Suffix("ON CONFLICT (id) DO UPDATE SET position = EXCLUDED.position, keywords = EXCLUDED.keywords, " +
			"answer = EXCLUDED.answer, content_hash = EXCLUDED.content_hash, updated_at = EXCLUDED.updated_at").
		PlaceholderFormat(squirrel.Dollar)
}
