package llm

import (
	"testing"

	"github.com/bkyoung/gridbench/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestVerbosity(t *testing.T) {
	cases := []struct {
		name string
		cfg  domain.ModelConfig
		want string
	}{
		{
			name: "default when unset",
			cfg:  domain.ModelConfig{APIType: domain.APITypeResponses},
			want: domain.VerbosityMedium,
		},
		{
			name: "configured value respected",
			cfg:  domain.ModelConfig{APIType: domain.APITypeResponses, Verbosity: domain.VerbosityLow},
			want: domain.VerbosityLow,
		},
		{
			name: "detailed summary escalates over explicit low",
			cfg: domain.ModelConfig{
				APIType:   domain.APITypeResponses,
				Verbosity: domain.VerbosityLow,
				Reasoning: &domain.ReasoningOptions{Effort: domain.EffortHigh, Summary: domain.SummaryDetailed},
			},
			want: domain.VerbosityHigh,
		},
		{
			name: "concise summary keeps configured verbosity",
			cfg: domain.ModelConfig{
				APIType:   domain.APITypeResponses,
				Verbosity: domain.VerbosityLow,
				Reasoning: &domain.ReasoningOptions{Effort: domain.EffortLow, Summary: domain.SummaryConcise},
			},
			want: domain.VerbosityLow,
		},
		{
			name: "detailed summary on chat flavor has no rule",
			cfg: domain.ModelConfig{
				APIType:   domain.APITypeChatCompletions,
				Verbosity: domain.VerbosityLow,
				Reasoning: &domain.ReasoningOptions{Effort: domain.EffortHigh, Summary: domain.SummaryDetailed},
			},
			want: domain.VerbosityLow,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Verbosity(tc.cfg))
		})
	}
}
