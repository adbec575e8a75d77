package models

import "time"

type ReplyOutcome string

const (
	OutcomeMatched  ReplyOutcome = "matched"
	OutcomeGreeting ReplyOutcome = "greeting"
	OutcomeFallback ReplyOutcome = "fallback"
)

// ReplyLookup counts how often the assistant answered with a given outcome.
// RecordID is empty for greeting and fallback replies.
type ReplyLookup struct {
	Outcome    ReplyOutcome `db:"outcome"`
	RecordID   string       `db:"record_id"`
	Count      int64        `db:"count"`
	LastSeenAt time.Time    `db:"last_seen_at"`
}
