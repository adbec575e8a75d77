package dto

type ChatMessageResponse struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

type ChatSessionResponse struct {
	ID       string                `json:"id"`
	Messages []ChatMessageResponse `json:"messages"`
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}
