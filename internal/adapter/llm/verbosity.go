package llm

import "github.com/bkyoung/gridbench/internal/domain"

// verbosityRule keys the escalation table on the request flavor and
// the requested reasoning summary level.
type verbosityRule struct {
	APIType domain.APIType
	Summary string
}

// verbosityOverrides encodes provider quirks that couple output
// verbosity to reasoning controls. A detailed reasoning summary on the
// responses API is truncated unless verbosity is forced to its maximal
// setting, so the escalation lives here once instead of in every
// caller. New quirks are additive rows.
var verbosityOverrides = map[verbosityRule]string{
	{domain.APITypeResponses, domain.SummaryDetailed}: domain.VerbosityHigh,
}

// Verbosity resolves the output verbosity for a request built from cfg:
// the configured default (medium when unset), escalated by the quirk
// table. The override wins over any explicitly configured lower value.
func Verbosity(cfg domain.ModelConfig) string {
	v := cfg.Verbosity
	if v == "" {
		v = domain.VerbosityMedium
	}

	if cfg.Reasoning != nil {
		key := verbosityRule{APIType: cfg.APIType, Summary: cfg.Reasoning.Summary}
		if override, ok := verbosityOverrides[key]; ok {
			v = override
		}
	}

	return v
}
