package models

import (
	"time"

	"github.com/google/uuid"
)

type ContactStatus string

const (
	ContactStatusNew     ContactStatus = "new"
	ContactStatusHandled ContactStatus = "handled"
)

type ContactSubmission struct {
	ID        uuid.UUID     `db:"id"`
	Name      string        `db:"name"`
	Email     string        `db:"email"`
	Message   string        `db:"message"`
	Subject   string        `db:"subject"`
	Status    ContactStatus `db:"status"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
}
