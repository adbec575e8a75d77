package dto

type ReplyLookupResponse struct {
	Outcome    string `json:"outcome"`
	RecordID   string `json:"record_id,omitempty"`
	Count      int64  `json:"count"`
	LastSeenAt string `json:"last_seen_at"`
}
