package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/mail"
	"strings"
	"time"

	"nuvana-site/internal/dto"
	"nuvana-site/internal/models"
	"nuvana-site/internal/repository"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

var (
	ErrInvalidContact  = errors.New("invalid contact submission")
	ErrContactNotFound = errors.New("contact submission not found")
)

const (
	maxNameLen    = 200
	maxEmailLen   = 320
	maxMessageLen = 5000

	maxUnescapeRounds = 4
)

type ContactStore interface {
	Create(ctx context.Context, sub *models.ContactSubmission) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ContactStatus) error
	List(ctx context.Context, limit, offset int) ([]*models.ContactSubmission, error)
}

type ContactService struct {
	store         ContactStore
	subjectPrefix string
	policy        *bluemonday.Policy
	logger        *zap.Logger
	now           func() time.Time
}

func NewContactService(store ContactStore, subjectPrefix string, logger *zap.Logger) *ContactService {
	return &ContactService{
		store:         store,
		subjectPrefix: subjectPrefix,
		policy:        bluemonday.StrictPolicy(),
		logger:        logger,
		now:           time.Now,
	}
}

// Submit validates the form and stores it for the team's inbox.
func (s *ContactService) Submit(ctx context.Context, req *dto.ContactRequest) (*dto.ContactResponse, error) {
	name, email, message, err := s.clean(req)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sub := &models.ContactSubmission{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Message:   message,
		Subject:   s.subjectPrefix + name,
		Status:    models.ContactStatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to store contact submission: %w", err)
	}

	s.logger.Info("Contact submission received", zap.String("submission_id", sub.ID.String()))
	return &dto.ContactResponse{
		ID:      sub.ID.String(),
		Status:  string(sub.Status),
		Message: "The Nuvanacore team will get back to you soon.",
	}, nil
}

func (s *ContactService) List(ctx context.Context, limit, offset int) ([]dto.ContactSubmissionResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	subs, err := s.store.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ContactSubmissionResponse, 0, len(subs))
	for _, sub := range subs {
		out = append(out, dto.ContactSubmissionResponse{
			ID:        sub.ID.String(),
			Name:      sub.Name,
			Email:     sub.Email,
			Message:   sub.Message,
			Subject:   sub.Subject,
			Status:    string(sub.Status),
			CreatedAt: sub.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

// MarkHandled flags a submission as answered by the team.
func (s *ContactService) MarkHandled(ctx context.Context, id uuid.UUID) error {
	if err := s.store.UpdateStatus(ctx, id, models.ContactStatusHandled); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrContactNotFound
		}
		return err
	}
	s.logger.Info("Contact submission handled", zap.String("submission_id", id.String()))
	return nil
}

func (s *ContactService) clean(req *dto.ContactRequest) (name, email, message string, err error) {
	name = s.stripMarkup(req.Name)
	email = strings.TrimSpace(sanitizeUTF8(req.Email))
	message = s.stripMarkup(req.Message)

	switch {
	case name == "":
		return "", "", "", fmt.Errorf("%w: name is required", ErrInvalidContact)
	case email == "":
		return "", "", "", fmt.Errorf("%w: email is required", ErrInvalidContact)
	case message == "":
		return "", "", "", fmt.Errorf("%w: message is required", ErrInvalidContact)
	case len(name) > maxNameLen, len(email) > maxEmailLen, len(message) > maxMessageLen:
		return "", "", "", fmt.Errorf("%w: field too long", ErrInvalidContact)
	}

	addr, perr := mail.ParseAddress(email)
	if perr != nil || addr.Address != email {
		return "", "", "", fmt.Errorf("%w: email is invalid", ErrInvalidContact)
	}
	return name, email, message, nil
}

// stripMarkup returns plain text. Entities are decoded before sanitizing so
// entity-encoded tags are stripped too; the loop runs until decoding yields
// nothing new for the policy to remove. Text still holding angle brackets is
// kept in its escaped form.
func (s *ContactService) stripMarkup(v string) string {
	text := sanitizeUTF8(v)
	for i := 0; i < maxUnescapeRounds; i++ {
		next := html.UnescapeString(s.policy.Sanitize(html.UnescapeString(text)))
		if next == text {
			break
		}
		text = next
	}
	if strings.ContainsAny(text, "<>") {
		text = s.policy.Sanitize(text)
	}
	return strings.TrimSpace(text)
}
