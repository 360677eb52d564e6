package http_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bkyoung/gridbench/internal/adapter/llm/http"
	"github.com/bkyoung/gridbench/internal/config"
)

func TestParseTimeout(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		defaultVal time.Duration
		expected   time.Duration
	}{
		{
			name:       "valid duration",
			configured: "90s",
			defaultVal: 60 * time.Second,
			expected:   90 * time.Second,
		},
		{
			name:       "empty falls back to default",
			configured: "",
			defaultVal: 45 * time.Second,
			expected:   45 * time.Second,
		},
		{
			name:       "malformed falls back to default",
			configured: "ninety seconds",
			defaultVal: 30 * time.Second,
			expected:   30 * time.Second,
		},
		{
			name:       "negative duration rejected",
			configured: "-5s",
			defaultVal: 30 * time.Second,
			expected:   30 * time.Second,
		},
		{
			name:       "negative default replaced",
			configured: "",
			defaultVal: -1,
			expected:   60 * time.Second,
		},
		{
			name:       "zero accepted",
			configured: "0s",
			defaultVal: 30 * time.Second,
			expected:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, http.ParseTimeout(tt.configured, tt.defaultVal))
		})
	}
}

func TestBuildRetryConfig(t *testing.T) {
	cfg := http.BuildRetryConfig(config.HTTPConfig{
		InitialBackoff:    "1s",
		MaxBackoff:        "10s",
		BackoffMultiplier: 3.0,
	})

	assert.Equal(t, 1*time.Second, cfg.InitialBackoff)
	assert.Equal(t, 10*time.Second, cfg.MaxBackoff)
	assert.Equal(t, 3.0, cfg.Multiplier)
}

func TestBuildRetryConfigFallsBackToDefaults(t *testing.T) {
	cfg := http.BuildRetryConfig(config.HTTPConfig{
		InitialBackoff:    "not a duration",
		BackoffMultiplier: -1,
	})

	defaults := http.DefaultRetryConfig()
	assert.Equal(t, defaults.InitialBackoff, cfg.InitialBackoff)
	assert.Equal(t, defaults.MaxBackoff, cfg.MaxBackoff)
	assert.Equal(t, defaults.Multiplier, cfg.Multiplier)
}
