package llm

import (
	"strings"
	"testing"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		minTokens int
		maxTokens int
	}{
		{
			name:      "empty string",
			text:      "",
			minTokens: 0,
			maxTokens: 0,
		},
		{
			name:      "single word",
			text:      "hello",
			minTokens: 1,
			maxTokens: 2,
		},
		{
			name:      "simple sentence",
			text:      "The quick brown fox jumps over the lazy dog.",
			minTokens: 8,
			maxTokens: 12,
		},
		{
			name:      "grid snippet",
			text:      "[[0, 1, 2], [3, 4, 5], [6, 7, 8]]",
			minTokens: 10,
			maxTokens: 30,
		},
		{
			name:      "longer text",
			text:      strings.Repeat("This is a test sentence. ", 100),
			minTokens: 500,
			maxTokens: 700,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateTokens(tt.text)
			if got < tt.minTokens || got > tt.maxTokens {
				t.Errorf("EstimateTokens() = %d, want between %d and %d",
					got, tt.minTokens, tt.maxTokens)
			}
		})
	}
}

func TestEstimateTokens_Consistency(t *testing.T) {
	// Same input should always produce same output
	text := "Transform the test input grid following the demonstrated rule."

	first := EstimateTokens(text)
	for i := 0; i < 10; i++ {
		got := EstimateTokens(text)
		if got != first {
			t.Errorf("EstimateTokens() inconsistent: got %d, want %d", got, first)
		}
	}
}

func TestEstimateTokens_LargeInput(t *testing.T) {
	// A corpus prompt with many serialized grids
	largeText := strings.Repeat("[[1, 2, 3, 4, 5], [6, 7, 8, 9, 0]]\n", 1000)

	tokens := EstimateTokens(largeText)

	// Should be roughly proportional to input size
	if tokens < 10000 || tokens > 40000 {
		t.Errorf("EstimateTokens() for large input = %d, expected 10000-40000", tokens)
	}
}
