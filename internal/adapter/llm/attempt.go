package llm

import (
	"time"

	llmhttp "github.com/bkyoung/gridbench/internal/adapter/llm/http"
	"github.com/bkyoung/gridbench/internal/domain"
)

// AttemptInfo carries the request-side provenance an Attempt records.
type AttemptInfo struct {
	TaskID       string
	AttemptIndex int
	Timestamp    time.Time
}

// BuildAttempt assembles the immutable Attempt from a normalized
// provider response. Cost accounting is deterministic in usage and
// pricing; the reasoning summary is attached only when a trace was
// requested AND the provider returned one, so an absent field keeps
// its meaning for callers.
func BuildAttempt(cfg domain.ModelConfig, resp ProviderResponse, info AttemptInfo) (domain.Attempt, error) {
	answer, ok := ParseAnswerGrid(resp.Text)
	if !ok {
		return domain.Attempt{}, llmhttp.NewParseError(cfg.Provider, "response text contains no answer grid")
	}

	model := resp.Model
	if model == "" {
		model = cfg.ModelName
	}

	metadata := domain.AttemptMetadata{
		Model:        model,
		Provider:     cfg.Provider,
		Usage:        resp.Usage,
		Cost:         domain.ComputeCost(resp.Usage, cfg.Pricing),
		Timestamp:    info.Timestamp,
		AttemptIndex: info.AttemptIndex,
		TaskID:       info.TaskID,
	}

	if summaryRequested(cfg) && resp.ReasoningText != "" {
		summary := resp.ReasoningText
		metadata.ReasoningSummary = &summary
	}

	return domain.Attempt{Answer: answer, Metadata: metadata}, nil
}

func summaryRequested(cfg domain.ModelConfig) bool {
	return cfg.Reasoning != nil &&
		cfg.Reasoning.Summary != "" &&
		cfg.Reasoning.Summary != domain.SummaryNone
}
