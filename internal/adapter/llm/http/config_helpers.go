package http

import (
	"time"

	"github.com/bkyoung/gridbench/internal/config"
)

// ParseTimeout parses the configured timeout, falling back to the
// default. Negative durations are rejected (would cause a runtime
// panic in http.Client.Timeout).
func ParseTimeout(configured string, defaultVal time.Duration) time.Duration {
	if configured != "" {
		if d, err := time.ParseDuration(configured); err == nil && d >= 0 {
			return d
		}
	}

	if defaultVal < 0 {
		return 60 * time.Second
	}
	return defaultVal
}

// BuildRetryConfig creates backoff settings from the global HTTP config.
func BuildRetryConfig(httpCfg config.HTTPConfig) RetryConfig {
	cfg := DefaultRetryConfig()

	if d, err := time.ParseDuration(httpCfg.InitialBackoff); err == nil && d >= 0 {
		cfg.InitialBackoff = d
	}
	if d, err := time.ParseDuration(httpCfg.MaxBackoff); err == nil && d >= 0 {
		cfg.MaxBackoff = d
	}
	if httpCfg.BackoffMultiplier > 0 {
		cfg.Multiplier = httpCfg.BackoffMultiplier
	}

	return cfg
}
