package observability

import (
	"context"

	llmhttp "github.com/bkyoung/gridbench/internal/adapter/llm/http"
	"github.com/bkyoung/gridbench/internal/usecase/solve"
)

// SolveLogger adapts llmhttp.Logger to the solve.Logger interface so
// the orchestrator shares the structured logging infrastructure of the
// LLM HTTP clients.
type SolveLogger struct {
	logger llmhttp.Logger
}

// NewSolveLogger creates a new solve logger adapter.
func NewSolveLogger(logger llmhttp.Logger) solve.Logger {
	return &SolveLogger{logger: logger}
}

// LogWarning logs a warning message with structured fields.
func (l *SolveLogger) LogWarning(ctx context.Context, message string, fields map[string]interface{}) {
	l.logger.LogWarning(ctx, message, fields)
}

// LogInfo logs an informational message with structured fields.
func (l *SolveLogger) LogInfo(ctx context.Context, message string, fields map[string]interface{}) {
	l.logger.LogInfo(ctx, message, fields)
}
