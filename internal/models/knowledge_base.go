package models

// KnowledgeRecord maps a set of lowercase keywords to one canned answer.
// Records are matched in slice order; the first record wins ties.
type KnowledgeRecord struct {
	ID       string   `yaml:"id" json:"id" db:"id"`
	Keywords []string `yaml:"keywords" json:"keywords" db:"keywords"`
	Answer   string   `yaml:"answer" json:"answer" db:"answer"`
}

type FAQItem struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

// QuickPrompt is a canned question offered as a one-click button in the chat widget.
type QuickPrompt struct {
	Label string `yaml:"label" json:"label"`
	Value string `yaml:"value" json:"value"`
}
