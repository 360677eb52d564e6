package llm

import "github.com/bkyoung/gridbench/internal/domain"

// ProviderResponse is the standardized single-call result from any
// provider client. Each API flavor has one normalization routine that
// converges to this shape; everything downstream (cost accounting,
// attempt assembly) is flavor-agnostic.
type ProviderResponse struct {
	// Model is the provider-reported model identifier.
	Model string

	// Text is the final answer content of the response.
	Text string

	// ReasoningText is the reasoning trace the provider returned,
	// empty when the provider emitted none.
	ReasoningText string

	// Usage is the canonical token accounting. Reasoning tokens
	// default to 0 when the provider does not report them.
	Usage domain.Usage
}
