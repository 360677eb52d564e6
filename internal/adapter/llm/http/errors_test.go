package http

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	cases := []struct {
		name      string
		err       *Error
		kind      Kind
		retryable bool
	}{
		{"config", NewConfigError("openai", "reasoning summary unsupported"), KindConfig, false},
		{"rate limit", NewRateLimitError("openai", "slow down"), KindProvider, true},
		{"timeout", NewTimeoutError("anthropic", "deadline exceeded"), KindProvider, true},
		{"server", NewProviderError("openai", "bad gateway", 502), KindProvider, true},
		{"parse", NewParseError("openai", "no message output"), KindParse, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.kind, tc.err.Kind)
			assert.Equal(t, tc.retryable, tc.err.IsRetryable())
			assert.Equal(t, tc.kind, KindOf(tc.err))
		})
	}
}

func TestErrorIs(t *testing.T) {
	err := NewRateLimitError("openai", "429")

	assert.True(t, errors.Is(err, &Error{Kind: KindProvider}))
	assert.False(t, errors.Is(err, &Error{Kind: KindConfig}))

	// Kind matching survives wrapping.
	wrapped := fmt.Errorf("attempt 2: %w", err)
	assert.True(t, errors.Is(wrapped, &Error{Kind: KindProvider}))
	assert.Equal(t, KindProvider, KindOf(wrapped))
}

func TestFromStatusCode(t *testing.T) {
	cases := []struct {
		status int
		kind   Kind
	}{
		{400, KindConfig},
		{401, KindConfig},
		{403, KindConfig},
		{404, KindConfig},
		{408, KindProvider},
		{429, KindProvider},
		{500, KindProvider},
		{502, KindProvider},
		{503, KindProvider},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("status %d", tc.status), func(t *testing.T) {
			err := FromStatusCode("openai", tc.status, "boom")
			assert.Equal(t, tc.kind, err.Kind)
			assert.Equal(t, tc.status, err.StatusCode)
		})
	}
}

func TestKindOfUntypedError(t *testing.T) {
	assert.Equal(t, KindParse, KindOf(errors.New("unexpected EOF")))
}

func TestErrorString(t *testing.T) {
	err := NewProviderError("openai", "service unavailable", 503)
	assert.Contains(t, err.Error(), "openai")
	assert.Contains(t, err.Error(), "provider error")
	assert.Contains(t, err.Error(), "503")
}
