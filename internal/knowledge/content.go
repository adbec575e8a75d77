package knowledge

import (
	"fmt"

	"nuvana-site/internal/models"

	"gopkg.in/yaml.v3"
)

type promptFile struct {
	Greeting string               `yaml:"greeting"`
	Prompts  []models.QuickPrompt `yaml:"prompts"`
}

// FAQ returns the landing page's frequently asked questions in display order.
func FAQ() ([]models.FAQItem, error) {
	data, err := dataFS.ReadFile("data/faq.yaml")
	if err != nil {
		return nil, err
	}
	var items []models.FAQItem
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode faq: %w", err)
	}
	return items, nil
}

// Prompts returns the bot's opening message and the quick prompt buttons.
func Prompts() (string, []models.QuickPrompt, error) {
	data, err := dataFS.ReadFile("data/prompts.yaml")
	if err != nil {
		return "", nil, err
	}
	var pf promptFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return "", nil, fmt.Errorf("failed to decode prompts: %w", err)
	}
	return pf.Greeting, pf.Prompts, nil
}
