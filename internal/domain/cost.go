package domain

// ComputeCost derives the monetary cost of one attempt from provider
// token usage and the model's rate table. Rates are USD per million
// tokens; a zero or missing rate prices that component at 0, it never
// fails. TotalCost is always the sum of the three components.
func ComputeCost(usage Usage, pricing Pricing) Cost {
	cost := Cost{
		PromptCost:     tokenCost(usage.PromptTokens, pricing.PromptPer1M),
		CompletionCost: tokenCost(usage.CompletionTokens, pricing.CompletionPer1M),
		ReasoningCost:  tokenCost(usage.CompletionTokensDetails.ReasoningTokens, pricing.ReasoningPer1M),
	}
	cost.TotalCost = cost.PromptCost + cost.CompletionCost + cost.ReasoningCost
	return cost
}

func tokenCost(tokens int, per1M float64) float64 {
	if tokens <= 0 || per1M <= 0 {
		return 0
	}
	return float64(tokens) / 1_000_000.0 * per1M
}
