package anthropic

// Message is a messages API conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Thinking enables extended thinking with a token budget.
type Thinking struct {
	Type         string `json:"type"`
	BudgetTokens int    `json:"budget_tokens"`
}

// MessagesRequest is the messages API request body.
type MessagesRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens"`
	Thinking  *Thinking `json:"thinking,omitempty"`
}

// ContentBlock is one block of the response content array. Type is
// "text" for answer content and "thinking" for the trace.
type ContentBlock struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Thinking string `json:"thinking,omitempty"`
}

// MessagesUsage is the messages API token accounting. Anthropic does
// not break out thinking tokens; they are part of output_tokens.
type MessagesUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// MessagesResponse is the messages API response body.
type MessagesResponse struct {
	ID         string         `json:"id"`
	Model      string         `json:"model"`
	Content    []ContentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      MessagesUsage  `json:"usage"`
}

// ErrorResponse is the Anthropic error envelope.
type ErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
