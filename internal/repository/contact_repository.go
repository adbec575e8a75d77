package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nuvana-site/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("not found")

var contactColumns = []string{
	"id", "name", "email", "message", "subject", "status", "created_at", "updated_at",
}

type ContactRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewContactRepository(db *pgxpool.Pool, logger *zap.Logger) *ContactRepository {
	return &ContactRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ContactRepository) Create(ctx context.Context, sub *models.ContactSubmission) error {
	sql, args, err := buildContactInsert(sub).ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *ContactRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ContactStatus) error {
	sql, args, err := buildContactStatusUpdate(id, status, time.Now()).ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("contact submission %s: %w", id, ErrNotFound)
	}
	return nil
}

// List returns submissions newest first.
func (r *ContactRepository) List(ctx context.Context, limit, offset int) ([]*models.ContactSubmission, error) {
	sql, args, err := squirrel.Select(contactColumns...).
		From("contact_submissions").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
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

	var subs []*models.ContactSubmission
	for rows.Next() {
		var s models.ContactSubmission
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Email, &s.Message, &s.Subject, &s.Status, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		subs = append(subs, &s)
	}

	return subs, rows.Err()
}

func buildContactInsert(sub *models.ContactSubmission) squirrel.InsertBuilder {
	return squirrel.Insert("contact_submissions").
		Columns(contactColumns...).
		Values(sub.ID, sub.Name, sub.Email, sub.Message, sub.Subject, sub.Status, sub.CreatedAt, sub.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)
}

func buildContactStatusUpdate(id uuid.UUID, status models.ContactStatus, now time.Time) squirrel.UpdateBuilder {
	return squirrel.Update("contact_submissions").
		Set("status", status).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)
}
