// Package knowledge holds the assistant's static content: the keyword
// knowledge base, the FAQ and the chat widget's quick prompts.
package knowledge

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"nuvana-site/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

var ErrEmptyKnowledgeBase = errors.New("knowledge base has no records")

// Base is an immutable, ordered knowledge base.
type Base struct {
	records []models.KnowledgeRecord
}

// Records returns a copy of the records in match order.
func (b *Base) Records() []models.KnowledgeRecord {
	out := make([]models.KnowledgeRecord, len(b.records))
	for i, r := range b.records {
		r.Keywords = append([]string(nil), r.Keywords...)
		out[i] = r
	}
	return out
}

func (b *Base) Len() int {
	return len(b.records)
}

// Load parses and validates a YAML sequence of records.
func Load(r io.Reader) (*Base, error) {
	var records []models.KnowledgeRecord
	if err := yaml.NewDecoder(r).Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyKnowledgeBase
		}
		return nil, fmt.Errorf("failed to decode knowledge base: %w", err)
	}
	if err := Validate(records); err != nil {
		return nil, err
	}
	return &Base{records: records}, nil
}

func LoadFile(path string) (*Base, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open knowledge base: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the embedded knowledge base.
func Default() *Base {
	data, err := dataFS.ReadFile("data/knowledge.yaml")
	if err != nil {
		panic(err)
	}
	base, err := Load(bytes.NewReader(data))
	if err != nil {
		panic(fmt.Sprintf("embedded knowledge base is invalid: %v", err))
	}
	return base
}

// Validate rejects knowledge bases the reply selector cannot use. Keywords must
// already be lowercase since the selector only lowercases the input side.
func Validate(records []models.KnowledgeRecord) error {
	if len(records) == 0 {
		return ErrEmptyKnowledgeBase
	}
	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		if r.ID == "" {
			return fmt.Errorf("record %d: missing id", i)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("record %d: duplicate id %q", i, r.ID)
		}
		seen[r.ID] = struct{}{}
		if strings.TrimSpace(r.Answer) == "" {
			return fmt.Errorf("record %q: empty answer", r.ID)
		}
		if len(r.Keywords) == 0 {
			return fmt.Errorf("record %q: no keywords", r.ID)
		}
		for _, kw := range r.Keywords {
			if kw == "" {
				return fmt.Errorf("record %q: empty keyword", r.ID)
			}
			if kw != strings.ToLower(kw) {
				return fmt.Errorf("record %q: keyword %q is not lowercase", r.ID, kw)
			}
		}
	}
	return nil
}
