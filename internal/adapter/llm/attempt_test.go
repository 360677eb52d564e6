package llm

import (
	"errors"
	"testing"
	"time"

	llmhttp "github.com/bkyoung/gridbench/internal/adapter/llm/http"
	"github.com/bkyoung/gridbench/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModelConfig() domain.ModelConfig {
	return domain.ModelConfig{
		Name:      "gpt-5-nano-high",
		ModelName: "gpt-5-nano-2025-08-07",
		APIType:   domain.APITypeResponses,
		Provider:  "openai",
		Reasoning: &domain.ReasoningOptions{Effort: domain.EffortHigh, Summary: domain.SummaryDetailed},
		Pricing:   domain.Pricing{PromptPer1M: 0.05, CompletionPer1M: 0.40, ReasoningPer1M: 0.40},
	}
}

func TestBuildAttempt(t *testing.T) {
	cfg := testModelConfig()
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	resp := ProviderResponse{
		Model:         "gpt-5-nano-2025-08-07",
		Text:          "[[1,0],[0,1]]",
		ReasoningText: "The grid is transposed.",
		Usage: domain.Usage{
			PromptTokens:            1000,
			CompletionTokens:        200,
			TotalTokens:             1200,
			CompletionTokensDetails: domain.CompletionTokensDetails{ReasoningTokens: 150},
		},
	}

	attempt, err := BuildAttempt(cfg, resp, AttemptInfo{TaskID: "0a1b2c3d", AttemptIndex: 2, Timestamp: now})
	require.NoError(t, err)

	assert.Equal(t, domain.Grid{{1, 0}, {0, 1}}, attempt.Answer)
	assert.Equal(t, "gpt-5-nano-2025-08-07", attempt.Metadata.Model)
	assert.Equal(t, "openai", attempt.Metadata.Provider)
	assert.Equal(t, 2, attempt.Metadata.AttemptIndex)
	assert.Equal(t, "0a1b2c3d", attempt.Metadata.TaskID)
	assert.Equal(t, now, attempt.Metadata.Timestamp)
	require.NotNil(t, attempt.Metadata.ReasoningSummary)
	assert.Equal(t, "The grid is transposed.", *attempt.Metadata.ReasoningSummary)

	cost := attempt.Metadata.Cost
	assert.InDelta(t, cost.PromptCost+cost.CompletionCost+cost.ReasoningCost, cost.TotalCost, 1e-9)
}

func TestBuildAttempt_NoGridIsParseError(t *testing.T) {
	cfg := testModelConfig()

	_, err := BuildAttempt(cfg, ProviderResponse{Text: "I give up."}, AttemptInfo{AttemptIndex: 1})

	require.Error(t, err)
	var typed *llmhttp.Error
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, llmhttp.KindParse, typed.Kind)
}

func TestBuildAttempt_SummaryAbsentWhenNotRequested(t *testing.T) {
	cfg := testModelConfig()
	cfg.Reasoning = &domain.ReasoningOptions{Effort: domain.EffortLow, Summary: domain.SummaryNone}

	// Even if the provider volunteers reasoning content, an
	// unrequested summary stays absent.
	attempt, err := BuildAttempt(cfg, ProviderResponse{
		Text:          "[[1]]",
		ReasoningText: "volunteered trace",
	}, AttemptInfo{AttemptIndex: 1})

	require.NoError(t, err)
	assert.Nil(t, attempt.Metadata.ReasoningSummary)
}

func TestBuildAttempt_SummaryAbsentWhenProviderOmitsIt(t *testing.T) {
	cfg := testModelConfig()

	// Requested but not returned: a valid outcome for simple prompts,
	// recorded as absence rather than an empty placeholder.
	attempt, err := BuildAttempt(cfg, ProviderResponse{Text: "[[1]]"}, AttemptInfo{AttemptIndex: 1})

	require.NoError(t, err)
	assert.Nil(t, attempt.Metadata.ReasoningSummary)
}

func TestBuildAttempt_FallsBackToConfiguredModelName(t *testing.T) {
	cfg := testModelConfig()

	attempt, err := BuildAttempt(cfg, ProviderResponse{Text: "[[1]]"}, AttemptInfo{AttemptIndex: 1})

	require.NoError(t, err)
	assert.Equal(t, cfg.ModelName, attempt.Metadata.Model)
}
