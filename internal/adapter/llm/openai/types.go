package openai

// Message is a chat completion conversation message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionRequest is the chat completions request body.
type ChatCompletionRequest struct {
	Model               string    `json:"model"`
	Messages            []Message `json:"messages"`
	ReasoningEffort     string    `json:"reasoning_effort,omitempty"`
	Seed                *uint64   `json:"seed,omitempty"`
	MaxCompletionTokens int       `json:"max_completion_tokens,omitempty"`
}

// ChatUsageDetails breaks down completion tokens as reported by the
// chat completions flavor.
type ChatUsageDetails struct {
	ReasoningTokens int `json:"reasoning_tokens"`
}

// ChatUsage is the chat completions token accounting.
type ChatUsage struct {
	PromptTokens            int              `json:"prompt_tokens"`
	CompletionTokens        int              `json:"completion_tokens"`
	TotalTokens             int              `json:"total_tokens"`
	CompletionTokensDetails ChatUsageDetails `json:"completion_tokens_details"`
}

// ChatChoice is one completion choice.
type ChatChoice struct {
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// ChatCompletionResponse is the chat completions response body.
type ChatCompletionResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
	Usage   ChatUsage    `json:"usage"`
}

// ResponsesReasoning configures reasoning on the responses flavor.
type ResponsesReasoning struct {
	Effort  string `json:"effort,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// ResponsesText configures output shaping on the responses flavor.
type ResponsesText struct {
	Verbosity string `json:"verbosity,omitempty"`
}

// ResponsesRequest is the responses API request body.
type ResponsesRequest struct {
	Model           string              `json:"model"`
	Input           string              `json:"input"`
	Reasoning       *ResponsesReasoning `json:"reasoning,omitempty"`
	Text            *ResponsesText      `json:"text,omitempty"`
	MaxOutputTokens int                 `json:"max_output_tokens,omitempty"`
}

// ResponsesContent is one content part of an output message block.
type ResponsesContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ResponsesSummary is one part of a reasoning block's summary.
type ResponsesSummary struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ResponsesOutput is one block of the responses output array. Type is
// "message" for answer content and "reasoning" for the trace.
type ResponsesOutput struct {
	Type    string             `json:"type"`
	Content []ResponsesContent `json:"content,omitempty"`
	Summary []ResponsesSummary `json:"summary,omitempty"`
}

// ResponsesUsageDetails breaks down output tokens on the responses
// flavor.
type ResponsesUsageDetails struct {
	ReasoningTokens int `json:"reasoning_tokens"`
}

// ResponsesUsage is the responses API token accounting. Note the
// different field names from the chat flavor.
type ResponsesUsage struct {
	InputTokens         int                   `json:"input_tokens"`
	OutputTokens        int                   `json:"output_tokens"`
	TotalTokens         int                   `json:"total_tokens"`
	OutputTokensDetails ResponsesUsageDetails `json:"output_tokens_details"`
}

// ResponsesResponse is the responses API response body.
type ResponsesResponse struct {
	ID     string            `json:"id"`
	Model  string            `json:"model"`
	Status string            `json:"status"`
	Output []ResponsesOutput `json:"output"`
	Usage  ResponsesUsage    `json:"usage"`
}

// ErrorResponse is the OpenAI error envelope.
type ErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}
