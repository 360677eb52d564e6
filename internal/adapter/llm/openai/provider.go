package openai

import (
	"context"
	"time"

	"github.com/bkyoung/gridbench/internal/adapter/llm"
	"github.com/bkyoung/gridbench/internal/domain"
	"github.com/bkyoung/gridbench/internal/usecase/solve"
)

// Provider adapts the OpenAI client to the orchestrator's provider
// port: one Predict is one provider round-trip producing an Attempt.
type Provider struct {
	client *HTTPClient
	cfg    domain.ModelConfig
	clock  func() time.Time
}

// NewProvider creates a provider for one registered model.
func NewProvider(cfg domain.ModelConfig, apiKey string) *Provider {
	return &Provider{
		client: NewHTTPClient(cfg, apiKey),
		cfg:    cfg,
		clock:  time.Now,
	}
}

// Client exposes the underlying HTTP client for configuration.
func (p *Provider) Client() *HTTPClient {
	return p.client
}

// Predict implements solve.Provider.
func (p *Provider) Predict(ctx context.Context, req solve.ProviderRequest) (domain.Attempt, error) {
	resp, err := p.client.Complete(ctx, req.Prompt, req.Seed)
	if err != nil {
		return domain.Attempt{}, err
	}

	return llm.BuildAttempt(p.cfg, resp, llm.AttemptInfo{
		TaskID:       req.TaskID,
		AttemptIndex: req.AttemptIndex,
		Timestamp:    p.clock(),
	})
}

// Close releases client resources.
func (p *Provider) Close() error {
	return p.client.Close()
}
