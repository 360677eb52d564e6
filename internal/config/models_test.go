package config

import (
	"testing"

	"github.com/bkyoung/gridbench/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validModels = `
models:
  - name: gpt-5-nano-high
    model_name: gpt-5-nano
    provider: openai
    api_type: responses
    reasoning:
      effort: high
      summary: detailed
    pricing:
      prompt: 0.05
      completion: 0.40
      reasoning: 0.40
  - name: gpt-5-nano-low
    model_name: gpt-5-nano
    provider: openai
    api_type: chat_completions
    reasoning:
      effort: low
    pricing:
      prompt: 0.05
      completion: 0.40
`

func TestParseRegistry(t *testing.T) {
	registry, err := ParseRegistry([]byte(validModels))
	require.NoError(t, err)

	assert.Equal(t, []string{"gpt-5-nano-high", "gpt-5-nano-low"}, registry.Names())

	model, err := registry.Get("gpt-5-nano-high")
	require.NoError(t, err)
	assert.Equal(t, "gpt-5-nano", model.ModelName)
	assert.Equal(t, domain.APITypeResponses, model.APIType)
	require.NotNil(t, model.Reasoning)
	assert.Equal(t, domain.EffortHigh, model.Reasoning.Effort)
	assert.Equal(t, domain.SummaryDetailed, model.Reasoning.Summary)
	assert.Equal(t, 0.05, model.Pricing.PromptPer1M)
}

func TestRegistryGetUnknown(t *testing.T) {
	registry, err := ParseRegistry([]byte(validModels))
	require.NoError(t, err)

	_, err = registry.Get("nonexistent")
	assert.ErrorIs(t, err, ErrUnknownModel)
}

func TestParseRegistryRejectsDuplicateNames(t *testing.T) {
	data := `
models:
  - name: m1
    model_name: gpt-5-nano
    provider: openai
    api_type: responses
  - name: m1
    model_name: gpt-5-mini
    provider: openai
    api_type: responses
`
	_, err := ParseRegistry([]byte(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate model name")
}

func TestParseRegistryRejectsSummaryOnChatFlavor(t *testing.T) {
	data := `
models:
  - name: m1
    model_name: gpt-5-nano
    provider: openai
    api_type: chat_completions
    reasoning:
      summary: detailed
`
	_, err := ParseRegistry([]byte(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires api_type")
}

func TestParseRegistryAllowsSummaryNoneOnChatFlavor(t *testing.T) {
	data := `
models:
  - name: m1
    model_name: gpt-5-nano
    provider: openai
    api_type: chat_completions
    reasoning:
      effort: medium
      summary: none
`
	_, err := ParseRegistry([]byte(data))
	assert.NoError(t, err)
}

func TestParseRegistryValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing name", `
models:
  - model_name: gpt-5-nano
    provider: openai
    api_type: responses
`},
		{"missing model_name", `
models:
  - name: m1
    provider: openai
    api_type: responses
`},
		{"missing provider", `
models:
  - name: m1
    model_name: gpt-5-nano
    api_type: responses
`},
		{"bad api_type", `
models:
  - name: m1
    model_name: gpt-5-nano
    provider: openai
    api_type: batch
`},
		{"empty file", `models: []`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseRegistry([]byte(tc.yaml))
			assert.Error(t, err)
		})
	}
}
