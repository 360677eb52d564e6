// Package static provides an offline LLM provider that answers every
// prompt with a fixed grid. This is useful for exercising the solve
// pipeline end to end without making live API calls.
package static
