package solve

import "context"

// Logger provides structured logging for the solve use case.
// This interface allows the orchestrator to log warnings and info messages
// with structured fields for better observability in production.
type Logger interface {
	// LogWarning logs a warning message with structured fields.
	// Fields typically include error details, IDs, and context.
	LogWarning(ctx context.Context, message string, fields map[string]interface{})

	// LogInfo logs an informational message with structured fields.
	// Fields typically include operation details and metadata.
	LogInfo(ctx context.Context, message string, fields map[string]interface{})
}
