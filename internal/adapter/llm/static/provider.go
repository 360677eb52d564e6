package static

import (
	"context"
	"time"

	"github.com/bkyoung/gridbench/internal/domain"
	"github.com/bkyoung/gridbench/internal/usecase/solve"
)

const providerName = "static"

// Provider implements the usecase Provider port without any network
// calls. It answers every prompt with a fixed 1x1 grid at zero cost,
// which makes it useful for exercising the full solve pipeline
// (submissions, reports, run history) without an API key.
type Provider struct {
	model string
	clock func() time.Time
}

// NewProvider constructs a static Provider.
func NewProvider(model string) *Provider {
	return &Provider{
		model: model,
		clock: time.Now,
	}
}

// Predict returns a fixed answer regardless of the prompt.
func (p *Provider) Predict(ctx context.Context, req solve.ProviderRequest) (domain.Attempt, error) {
	if err := ctx.Err(); err != nil {
		return domain.Attempt{}, err
	}

	return domain.Attempt{
		Answer: domain.Grid{{0}},
		Metadata: domain.AttemptMetadata{
			Model:        p.model,
			Provider:     providerName,
			Timestamp:    p.clock(),
			AttemptIndex: req.AttemptIndex,
			TaskID:       req.TaskID,
		},
	}, nil
}

// Close is a no-op; the static provider holds no resources.
func (p *Provider) Close() error {
	return nil
}
