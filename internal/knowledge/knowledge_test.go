package knowledge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeepsRecordOrder(t *testing.T) {
	base := Default()
	require.Equal(t, 10, base.Len())

	var ids []string
	for _, r := range base.Records() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{
		"about", "hardware", "classroom-os", "ai-systems", "nuvanet",
		"pilot", "pricing", "support", "contact", "bloom",
	}, ids)
}

func TestRecordsReturnsCopy(t *testing.T) {
	base := Default()
	records := base.Records()
	records[0].Keywords[0] = "mutated"
	records[0].Answer = "mutated"

	again := base.Records()
	assert.Equal(t, "what is", again[0].Keywords[0])
	assert.NotEqual(t, "mutated", again[0].Answer)
}

func TestLoadRejectsInvalidBases(t *testing.T) {
	cases := map[string]string{
		"empty document": ``,
		"empty list":     `[]`,
		"missing id":     `- {keywords: [a], answer: x}`,
		"duplicate id": `
- {id: a, keywords: [a], answer: x}
- {id: a, keywords: [b], answer: y}`,
		"no keywords":         `- {id: a, keywords: [], answer: x}`,
		"empty keyword":       `- {id: a, keywords: [""], answer: x}`,
		"uppercase keyword":   `- {id: a, keywords: [Hardware], answer: x}`,
		"blank answer":        `- {id: a, keywords: [a], answer: "  "}`,
		"not a yaml sequence": `id: a`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadCustomBase(t *testing.T) {
	base, err := Load(strings.NewReader(`
- id: hw
  keywords: [hardware, specs]
  answer: HW_ANSWER
- id: price
  keywords: [pricing]
  answer: PRICE_ANSWER
`))
	require.NoError(t, err)
	records := base.Records()
	require.Len(t, records, 2)
	assert.Equal(t, []string{"hardware", "specs"}, records[0].Keywords)
	assert.Equal(t, "PRICE_ANSWER", records[1].Answer)
}

func TestFAQAndPrompts(t *testing.T) {
	items, err := FAQ()
	require.NoError(t, err)
	require.Len(t, items, 5)
	assert.Equal(t, "What is NuvanaCore?", items[0].Question)

	greeting, prompts, err := Prompts()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(greeting, "Hi! I'm Bloom"))
	require.Len(t, prompts, 4)
	assert.Equal(t, "Tell me hardware specs", prompts[1].Value)
}
