package http

import (
	"sync"
	"time"
)

// Metrics tracks aggregate statistics for API calls.
type Metrics interface {
	// RecordRequest records an API request
	RecordRequest(provider, model string)

	// RecordDuration records request duration
	RecordDuration(provider, model string, duration time.Duration)

	// RecordTokens records token usage
	RecordTokens(provider, model string, promptTokens, outputTokens, reasoningTokens int)

	// RecordCost records API cost
	RecordCost(provider, model string, cost float64)

	// RecordError records an error
	RecordError(provider, model string, kind Kind)

	// GetStats returns current statistics
	GetStats() Stats
}

// Stats contains aggregate statistics.
type Stats struct {
	TotalRequests        int
	TotalPromptTokens    int
	TotalOutputTokens    int
	TotalReasoningTokens int
	TotalCost            float64
	TotalDuration        time.Duration
	ErrorCount           int
	ByProvider           map[string]ProviderStats
}

// ProviderStats contains per-provider statistics.
type ProviderStats struct {
	Requests        int
	PromptTokens    int
	OutputTokens    int
	ReasoningTokens int
	Cost            float64
	Duration        time.Duration
	Errors          int
}

// DefaultMetrics provides in-memory metrics tracking.
type DefaultMetrics struct {
	mu    sync.RWMutex
	stats Stats
}

// NewDefaultMetrics creates a metrics tracker.
func NewDefaultMetrics() *DefaultMetrics {
	return &DefaultMetrics{
		stats: Stats{
			ByProvider: make(map[string]ProviderStats),
		},
	}
}

// RecordRequest increments request counter.
func (m *DefaultMetrics) RecordRequest(provider, model string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.TotalRequests++

	ps := m.stats.ByProvider[provider]
	ps.Requests++
	m.stats.ByProvider[provider] = ps
}

// RecordDuration records API call duration.
func (m *DefaultMetrics) RecordDuration(provider, model string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.TotalDuration += duration

	ps := m.stats.ByProvider[provider]
	ps.Duration += duration
	m.stats.ByProvider[provider] = ps
}

// RecordTokens records token usage.
func (m *DefaultMetrics) RecordTokens(provider, model string, promptTokens, outputTokens, reasoningTokens int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.TotalPromptTokens += promptTokens
	m.stats.TotalOutputTokens += outputTokens
	m.stats.TotalReasoningTokens += reasoningTokens

	ps := m.stats.ByProvider[provider]
	ps.PromptTokens += promptTokens
	ps.OutputTokens += outputTokens
	ps.ReasoningTokens += reasoningTokens
	m.stats.ByProvider[provider] = ps
}

// RecordCost records API cost.
func (m *DefaultMetrics) RecordCost(provider, model string, cost float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.TotalCost += cost

	ps := m.stats.ByProvider[provider]
	ps.Cost += cost
	m.stats.ByProvider[provider] = ps
}

// RecordError records an error.
func (m *DefaultMetrics) RecordError(provider, model string, kind Kind) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.ErrorCount++

	ps := m.stats.ByProvider[provider]
	ps.Errors++
	m.stats.ByProvider[provider] = ps
}

// GetStats returns a copy of current statistics.
func (m *DefaultMetrics) GetStats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	statsCopy := Stats{
		TotalRequests:        m.stats.TotalRequests,
		TotalPromptTokens:    m.stats.TotalPromptTokens,
		TotalOutputTokens:    m.stats.TotalOutputTokens,
		TotalReasoningTokens: m.stats.TotalReasoningTokens,
		TotalCost:            m.stats.TotalCost,
		TotalDuration:        m.stats.TotalDuration,
		ErrorCount:           m.stats.ErrorCount,
		ByProvider:           make(map[string]ProviderStats),
	}

	for k, v := range m.stats.ByProvider {
		statsCopy.ByProvider[k] = v
	}

	return statsCopy
}
