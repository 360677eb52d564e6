package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bkyoung/gridbench/internal/adapter/llm"
	llmhttp "github.com/bkyoung/gridbench/internal/adapter/llm/http"
	"github.com/bkyoung/gridbench/internal/domain"
)

const (
	defaultBaseURL          = "https://api.anthropic.com"
	defaultTimeout          = 300 * time.Second
	defaultAnthropicVersion = "2023-06-01"

	defaultMaxTokens = 16384

	// Anthropic rejects thinking budgets below this floor.
	minThinkingBudget = 1024
)

// effortBudgetRatio maps reasoning effort to the share of max_tokens
// granted as the extended-thinking budget.
var effortBudgetRatio = map[string]float64{
	domain.EffortLow:    0.2,
	domain.EffortMedium: 0.5,
	domain.EffortHigh:   0.8,
}

// HTTPClient is a single-shot client for the Anthropic messages API.
// One Complete call is exactly one request; retry policy belongs to
// the caller.
type HTTPClient struct {
	cfg     domain.ModelConfig
	apiKey  string
	baseURL string
	client  *http.Client
	logger  llmhttp.Logger
	metrics llmhttp.Metrics
}

// NewHTTPClient creates an Anthropic client for one registered model.
func NewHTTPClient(cfg domain.ModelConfig, apiKey string) *HTTPClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &HTTPClient{
		cfg:     cfg,
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

// SetBaseURL sets a custom base URL (for testing).
func (c *HTTPClient) SetBaseURL(url string) {
	c.baseURL = strings.TrimRight(url, "/")
}

// SetTimeout sets the HTTP timeout.
func (c *HTTPClient) SetTimeout(timeout time.Duration) {
	c.client.Timeout = timeout
}

// SetLogger installs a request/response logger.
func (c *HTTPClient) SetLogger(logger llmhttp.Logger) {
	c.logger = logger
}

// SetMetrics installs a metrics recorder.
func (c *HTTPClient) SetMetrics(metrics llmhttp.Metrics) {
	c.metrics = metrics
}

// Complete sends one prompt to the messages API and normalizes the
// response. The seed parameter is ignored: the messages API has no
// seed control.
func (c *HTTPClient) Complete(ctx context.Context, prompt string, _ uint64) (llm.ProviderResponse, error) {
	started := time.Now()

	if c.logger != nil {
		c.logger.LogRequest(ctx, llmhttp.RequestLog{
			Provider:     c.cfg.Provider,
			Model:        c.cfg.ModelName,
			APIType:      string(c.cfg.APIType),
			Timestamp:    started,
			PromptChars:  len(prompt),
			PromptTokens: llm.EstimateTokens(prompt),
			APIKey:       c.apiKey,
		})
	}
	if c.metrics != nil {
		c.metrics.RecordRequest(c.cfg.Provider, c.cfg.ModelName)
	}

	resp, err := c.complete(ctx, prompt)
	duration := time.Since(started)
	if err != nil {
		c.observeError(ctx, err, duration)
		return llm.ProviderResponse{}, err
	}
	c.observeResponse(ctx, resp, duration)
	return resp, nil
}

func (c *HTTPClient) complete(ctx context.Context, prompt string) (llm.ProviderResponse, error) {
	maxTokens := c.cfg.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	reqBody := MessagesRequest{
		Model: c.cfg.ModelName,
		Messages: []Message{
			{Role: "user", Content: prompt},
		},
		MaxTokens: maxTokens,
	}
	if budget, ok := thinkingBudget(c.cfg, maxTokens); ok {
		reqBody.Thinking = &Thinking{Type: "enabled", BudgetTokens: budget}
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return llm.ProviderResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewBuffer(jsonData))
	if err != nil {
		return llm.ProviderResponse{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", defaultAnthropicVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return llm.ProviderResponse{}, llmhttp.NewTimeoutError(c.cfg.Provider, "request timed out")
		}
		return llm.ProviderResponse{}, llmhttp.NewTimeoutError(c.cfg.Provider, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return llm.ProviderResponse{}, llmhttp.NewProviderError(c.cfg.Provider, fmt.Sprintf("read response: %v", err), resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return llm.ProviderResponse{}, c.handleErrorResponse(resp.StatusCode, body)
	}

	var msgResp MessagesResponse
	if err := json.Unmarshal(body, &msgResp); err != nil {
		return llm.ProviderResponse{}, llmhttp.NewParseError(c.cfg.Provider, fmt.Sprintf("decode messages body: %v", err))
	}

	var text, reasoningText strings.Builder
	for _, block := range msgResp.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.Text)
		case "thinking":
			if reasoningText.Len() > 0 {
				reasoningText.WriteString("\n\n")
			}
			reasoningText.WriteString(block.Thinking)
		}
	}
	if text.Len() == 0 {
		return llm.ProviderResponse{}, llmhttp.NewParseError(c.cfg.Provider, "message has no text block")
	}

	// Anthropic reports thinking inside output_tokens with no
	// separate count, so reasoning tokens stay 0.
	return llm.ProviderResponse{
		Model:         msgResp.Model,
		Text:          text.String(),
		ReasoningText: reasoningText.String(),
		Usage: domain.Usage{
			PromptTokens:     msgResp.Usage.InputTokens,
			CompletionTokens: msgResp.Usage.OutputTokens,
			TotalTokens:      msgResp.Usage.InputTokens + msgResp.Usage.OutputTokens,
		},
	}, nil
}

// thinkingBudget derives the extended-thinking token budget from the
// configured effort as a share of max_tokens, clamped to the API floor.
func thinkingBudget(cfg domain.ModelConfig, maxTokens int) (int, bool) {
	if cfg.Reasoning == nil || cfg.Reasoning.Effort == "" {
		return 0, false
	}
	ratio, ok := effortBudgetRatio[cfg.Reasoning.Effort]
	if !ok {
		return 0, false
	}
	budget := int(float64(maxTokens) * ratio)
	if budget < minThinkingBudget {
		budget = minThinkingBudget
	}
	return budget, true
}

// handleErrorResponse converts HTTP error responses to typed errors.
func (c *HTTPClient) handleErrorResponse(statusCode int, body []byte) error {
	message := fmt.Sprintf("HTTP %d", statusCode)

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	} else if len(body) > 0 && len(body) < 200 {
		message = string(body)
	}

	return llmhttp.FromStatusCode(c.cfg.Provider, statusCode, message)
}

func (c *HTTPClient) observeResponse(ctx context.Context, resp llm.ProviderResponse, duration time.Duration) {
	cost := domain.ComputeCost(resp.Usage, c.cfg.Pricing)
	if c.logger != nil {
		c.logger.LogResponse(ctx, llmhttp.ResponseLog{
			Provider:        c.cfg.Provider,
			Model:           resp.Model,
			Timestamp:       time.Now(),
			Duration:        duration,
			PromptTokens:    resp.Usage.PromptTokens,
			OutputTokens:    resp.Usage.CompletionTokens,
			ReasoningTokens: resp.Usage.CompletionTokensDetails.ReasoningTokens,
			Cost:            cost.TotalCost,
			StatusCode:      http.StatusOK,
		})
	}
	if c.metrics != nil {
		c.metrics.RecordDuration(c.cfg.Provider, c.cfg.ModelName, duration)
		c.metrics.RecordTokens(c.cfg.Provider, c.cfg.ModelName,
			resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Usage.CompletionTokensDetails.ReasoningTokens)
		c.metrics.RecordCost(c.cfg.Provider, c.cfg.ModelName, cost.TotalCost)
	}
}

func (c *HTTPClient) observeError(ctx context.Context, err error, duration time.Duration) {
	kind := llmhttp.KindOf(err)
	if c.logger != nil {
		c.logger.LogError(ctx, llmhttp.ErrorLog{
			Provider:  c.cfg.Provider,
			Model:     c.cfg.ModelName,
			Timestamp: time.Now(),
			Duration:  duration,
			Error:     err,
			Kind:      kind,
			Retryable: llmhttp.ShouldRetry(err),
		})
	}
	if c.metrics != nil {
		c.metrics.RecordError(c.cfg.Provider, c.cfg.ModelName, kind)
	}
}

// Close cleans up resources.
func (c *HTTPClient) Close() error {
	return nil
}
