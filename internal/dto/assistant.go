package dto

type ReplyRequest struct {
	Message string `json:"message"`
}

type ReplyResponse struct {
	Reply    string `json:"reply"`
	Outcome  string `json:"outcome"`
	RecordID string `json:"record_id,omitempty"`
	Score    int    `json:"score"`
}

type QuickPromptResponse struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type PromptsResponse struct {
	Greeting string                `json:"greeting"`
	Prompts  []QuickPromptResponse `json:"prompts"`
}

type FAQItemResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
