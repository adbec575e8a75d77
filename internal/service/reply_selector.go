package service

import (
	"strings"

	"nuvana-site/internal/models"
)

const (
	GreetingReply = "Hello! I'm Bloom. How can I help you explore NuvanaCore today?"
	FallbackReply = "I'm Bloom, your expert on NuvanaCore. I can tell you about our Corebook hardware, Classroom OS, AI systems (Drona & Archer), or our managed internet (Nuvananet). What would you like to know?"
)

var greetingWords = []string{"hello", "hi", "hey"}

// ReplyMatch describes how a reply was chosen.
type ReplyMatch struct {
	Answer   string
	RecordID string
	Score    int
	Outcome  models.ReplyOutcome
}

// SelectReply returns the canned answer for userInput. It never returns an
// empty string.
func SelectReply(userInput string, kb []models.KnowledgeRecord) string {
	return MatchReply(userInput, kb).Answer
}

// MatchReply scores every record by how many of its keywords occur as
// substrings of the lowercased input. Only a strictly higher score replaces
// the current best, so earlier records win ties.
func MatchReply(userInput string, kb []models.KnowledgeRecord) ReplyMatch {
	t := strings.ToLower(userInput)

	best := -1
	highest := 0
	for i, record := range kb {
		score := 0
		for _, kw := range record.Keywords {
			if strings.Contains(t, kw) {
				score++
			}
		}
		if score > highest {
			highest = score
			best = i
		}
	}

	if highest > 0 {
		return ReplyMatch{
			Answer:   kb[best].Answer,
			RecordID: kb[best].ID,
			Score:    highest,
			Outcome:  models.OutcomeMatched,
		}
	}

	for _, g := range greetingWords {
		if strings.Contains(t, g) {
			return ReplyMatch{Answer: GreetingReply, Outcome: models.OutcomeGreeting}
		}
	}
	return ReplyMatch{Answer: FallbackReply, Outcome: models.OutcomeFallback}
}
