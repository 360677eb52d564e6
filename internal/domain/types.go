package domain

import "time"

// Grid is a rectangular puzzle grid of color indices.
type Grid [][]int

// TrainPair is one demonstrated input/output transformation.
type TrainPair struct {
	Input  Grid `json:"input"`
	Output Grid `json:"output"`
}

// Task is one puzzle: demonstration pairs plus the test inputs the
// model must transform.
type Task struct {
	ID    string
	Train []TrainPair
	Test  []Grid
}

// APIType selects the provider request/response flavor.
type APIType string

const (
	APITypeChatCompletions APIType = "chat_completions"
	APITypeResponses       APIType = "responses"
)

// Reasoning effort levels accepted by reasoning-capable models.
const (
	EffortLow    = "low"
	EffortMedium = "medium"
	EffortHigh   = "high"
)

// Reasoning summary settings for requesting a reasoning trace.
const (
	SummaryNone     = "none"
	SummaryConcise  = "concise"
	SummaryDetailed = "detailed"
)

// Verbosity settings for the responses API output length control.
const (
	VerbosityLow    = "low"
	VerbosityMedium = "medium"
	VerbosityHigh   = "high"
)

// ReasoningOptions configures provider-side reasoning behavior.
// Effort is accepted by both API flavors. For OpenAI models a
// Summary request requires the responses flavor.
type ReasoningOptions struct {
	Effort  string `yaml:"effort" json:"effort"`
	Summary string `yaml:"summary" json:"summary"`
}

// Pricing is the per-million-token rate table for one model.
// A zero rate prices that component at 0.
type Pricing struct {
	PromptPer1M     float64 `yaml:"prompt" json:"prompt"`
	CompletionPer1M float64 `yaml:"completion" json:"completion"`
	ReasoningPer1M  float64 `yaml:"reasoning" json:"reasoning"`
}

// ModelConfig is an immutable description of one callable model
// variant. Name is the registry key; ModelName is what the provider
// sees on the wire.
type ModelConfig struct {
	Name            string            `yaml:"name"`
	ModelName       string            `yaml:"model_name"`
	APIType         APIType           `yaml:"api_type"`
	Provider        string            `yaml:"provider"`
	BaseURL         string            `yaml:"base_url"`
	Verbosity       string            `yaml:"verbosity"`
	Reasoning       *ReasoningOptions `yaml:"reasoning"`
	Pricing         Pricing           `yaml:"pricing"`
	MaxOutputTokens int               `yaml:"max_output_tokens"`
}

// CompletionTokensDetails breaks down the completion token count.
type CompletionTokensDetails struct {
	ReasoningTokens int `json:"reasoning_tokens"`
}

// Usage records provider-reported token counts. Totals are preserved
// exactly as reported, even when they disagree with the component sum.
type Usage struct {
	PromptTokens            int                     `json:"prompt_tokens"`
	CompletionTokens        int                     `json:"completion_tokens"`
	TotalTokens             int                     `json:"total_tokens"`
	CompletionTokensDetails CompletionTokensDetails `json:"completion_tokens_details"`
}

// Cost is the monetary breakdown derived from Usage and Pricing.
type Cost struct {
	PromptCost     float64 `json:"prompt_cost"`
	CompletionCost float64 `json:"completion_cost"`
	ReasoningCost  float64 `json:"reasoning_cost"`
	TotalCost      float64 `json:"total_cost"`
}

// AttemptMetadata carries the provenance of one model answer.
// ReasoningSummary is nil unless a trace was both requested and
// returned, so callers can tell "not requested" from "omitted".
type AttemptMetadata struct {
	Model            string    `json:"model"`
	Provider         string    `json:"provider"`
	Usage            Usage     `json:"usage"`
	Cost             Cost      `json:"cost"`
	ReasoningSummary *string   `json:"reasoning_summary,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
	AttemptIndex     int       `json:"attempt_index"`
	TaskID           string    `json:"task_id,omitempty"`
}

// Attempt is one recorded model response to one prompt. It is never
// mutated after the provider call returns, only serialized.
type Attempt struct {
	Answer   Grid            `json:"answer"`
	Metadata AttemptMetadata `json:"metadata"`
}

// AttemptMap holds the attempts for one test input, keyed attempt_1,
// attempt_2, ... in request order. A nil entry marks a slot that
// exhausted its retries and serializes as JSON null.
type AttemptMap map[string]*Attempt

// TaskResult is the outcome of one orchestrator run for one task:
// one AttemptMap per test input, in corpus order.
type TaskResult struct {
	TaskID   string
	Attempts []AttemptMap
}

// TotalCost sums the cost of every successful attempt in the result.
func (r TaskResult) TotalCost() float64 {
	var total float64
	for _, m := range r.Attempts {
		for _, a := range m {
			if a != nil {
				total += a.Metadata.Cost.TotalCost
			}
		}
	}
	return total
}
