package openai

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
	defaultBaseURL = "https://api.openai.com"
	defaultTimeout = 300 * time.Second
)

// HTTPClient is a single-shot client for the OpenAI API. One Complete
// call is exactly one request; retry policy belongs to the caller.
type HTTPClient struct {
	cfg     domain.ModelConfig
	apiKey  string
	baseURL string
	client  *http.Client
	logger  llmhttp.Logger
	metrics llmhttp.Metrics
}

// NewHTTPClient creates an OpenAI client for one registered model.
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

// Complete sends one prompt through the model's configured API flavor
// and normalizes the provider response.
func (c *HTTPClient) Complete(ctx context.Context, prompt string, seed uint64) (llm.ProviderResponse, error) {
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

	var (
		resp llm.ProviderResponse
		err  error
	)
	switch c.cfg.APIType {
	case domain.APITypeChatCompletions:
		resp, err = c.completeChat(ctx, prompt, seed)
	case domain.APITypeResponses:
		resp, err = c.completeResponses(ctx, prompt)
	default:
		err = llmhttp.NewConfigError(c.cfg.Provider, fmt.Sprintf("unsupported api_type %q", c.cfg.APIType))
	}

	duration := time.Since(started)
	if err != nil {
		c.observeError(ctx, err, duration)
		return llm.ProviderResponse{}, err
	}
	c.observeResponse(ctx, resp, duration)
	return resp, nil
}

func (c *HTTPClient) completeChat(ctx context.Context, prompt string, seed uint64) (llm.ProviderResponse, error) {
	reqBody := ChatCompletionRequest{
		Model: c.cfg.ModelName,
		Messages: []Message{
			{Role: "user", Content: prompt},
		},
		Seed:                &seed,
		MaxCompletionTokens: c.cfg.MaxOutputTokens,
	}
	if c.cfg.Reasoning != nil && c.cfg.Reasoning.Effort != "" {
		reqBody.ReasoningEffort = c.cfg.Reasoning.Effort
	}

	body, err := c.post(ctx, "/v1/chat/completions", reqBody)
	if err != nil {
		return llm.ProviderResponse{}, err
	}

	var chatResp ChatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return llm.ProviderResponse{}, llmhttp.NewParseError(c.cfg.Provider, fmt.Sprintf("decode chat completion: %v", err))
	}
	if len(chatResp.Choices) == 0 {
		return llm.ProviderResponse{}, llmhttp.NewParseError(c.cfg.Provider, "chat completion has no choices")
	}

	return llm.ProviderResponse{
		Model: chatResp.Model,
		Text:  chatResp.Choices[0].Message.Content,
		Usage: domain.Usage{
			PromptTokens:     chatResp.Usage.PromptTokens,
			CompletionTokens: chatResp.Usage.CompletionTokens,
			TotalTokens:      chatResp.Usage.TotalTokens,
			CompletionTokensDetails: domain.CompletionTokensDetails{
				ReasoningTokens: chatResp.Usage.CompletionTokensDetails.ReasoningTokens,
			},
		},
	}, nil
}

func (c *HTTPClient) completeResponses(ctx context.Context, prompt string) (llm.ProviderResponse, error) {
	reqBody := ResponsesRequest{
		Model:           c.cfg.ModelName,
		Input:           prompt,
		Text:            &ResponsesText{Verbosity: llm.Verbosity(c.cfg)},
		MaxOutputTokens: c.cfg.MaxOutputTokens,
	}
	if c.cfg.Reasoning != nil {
		reasoning := &ResponsesReasoning{Effort: c.cfg.Reasoning.Effort}
		if c.cfg.Reasoning.Summary != "" && c.cfg.Reasoning.Summary != domain.SummaryNone {
			reasoning.Summary = c.cfg.Reasoning.Summary
		}
		if reasoning.Effort != "" || reasoning.Summary != "" {
			reqBody.Reasoning = reasoning
		}
	}

	body, err := c.post(ctx, "/v1/responses", reqBody)
	if err != nil {
		return llm.ProviderResponse{}, err
	}

	var apiResp ResponsesResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return llm.ProviderResponse{}, llmhttp.NewParseError(c.cfg.Provider, fmt.Sprintf("decode responses body: %v", err))
	}

	var text, reasoningText strings.Builder
	for _, block := range apiResp.Output {
		switch block.Type {
		case "message":
			for _, part := range block.Content {
				if part.Type == "output_text" {
					text.WriteString(part.Text)
				}
			}
		case "reasoning":
			for _, part := range block.Summary {
				if part.Type == "summary_text" {
					if reasoningText.Len() > 0 {
						reasoningText.WriteString("\n\n")
					}
					reasoningText.WriteString(part.Text)
				}
			}
		}
	}
	if text.Len() == 0 {
		return llm.ProviderResponse{}, llmhttp.NewParseError(c.cfg.Provider, "responses output has no message block")
	}

	return llm.ProviderResponse{
		Model:         apiResp.Model,
		Text:          text.String(),
		ReasoningText: reasoningText.String(),
		Usage: domain.Usage{
			PromptTokens:     apiResp.Usage.InputTokens,
			CompletionTokens: apiResp.Usage.OutputTokens,
			TotalTokens:      apiResp.Usage.TotalTokens,
			CompletionTokensDetails: domain.CompletionTokensDetails{
				ReasoningTokens: apiResp.Usage.OutputTokensDetails.ReasoningTokens,
			},
		},
	}, nil
}

// post performs one JSON POST and returns the success body. Error
// statuses are mapped to the typed taxonomy.
func (c *HTTPClient) post(ctx context.Context, path string, reqBody interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, llmhttp.NewTimeoutError(c.cfg.Provider, "request timed out")
		}
		return nil, llmhttp.NewTimeoutError(c.cfg.Provider, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, llmhttp.NewProviderError(c.cfg.Provider, fmt.Sprintf("read response: %v", err), resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp.StatusCode, body)
	}
	return body, nil
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
