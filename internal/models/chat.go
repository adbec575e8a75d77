package models

import "time"

type ChatRole string

const (
	RoleBot  ChatRole = "bot"
	RoleUser ChatRole = "user"
)

type ChatMessage struct {
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
