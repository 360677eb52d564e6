package static

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bkyoung/gridbench/internal/domain"
	"github.com/bkyoung/gridbench/internal/usecase/solve"
)

func TestPredictReturnsFixedAnswer(t *testing.T) {
	provider := NewProvider("offline-model")

	attempt, err := provider.Predict(context.Background(), solve.ProviderRequest{
		Prompt:       "does not matter",
		TaskID:       "0a1b2c3d",
		AttemptIndex: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.Grid{{0}}, attempt.Answer)
	assert.Equal(t, "static", attempt.Metadata.Provider)
	assert.Equal(t, "offline-model", attempt.Metadata.Model)
	assert.Equal(t, "0a1b2c3d", attempt.Metadata.TaskID)
	assert.Zero(t, attempt.Metadata.Cost.TotalCost)
}

func TestPredictHonorsCancelledContext(t *testing.T) {
	provider := NewProvider("offline-model")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := provider.Predict(ctx, solve.ProviderRequest{TaskID: "t"})
	assert.ErrorIs(t, err, context.Canceled)
}
