package model

// Pricing defines USD cost per 1M tokens for input/output.
type Pricing struct {
	InputPerM  float64
	OutputPerM float64
}

// defaultPricing provides hardcoded USD pricing per 1M text tokens.
var defaultPricing = map[string]Pricing{
	"gpt-4o-mini":           {InputPerM: 0.15, OutputPerM: 0.60},
	"gpt-4o":                {InputPerM: 2.50, OutputPerM: 10.00},
	"gpt-4.1-mini":          {InputPerM: 0.40, OutputPerM: 1.60},
	"gpt-3.5-turbo":         {InputPerM: 0.50, OutputPerM: 1.50},
	"gemini-2.5-flash":      {InputPerM: 0.30, OutputPerM: 2.50},
	"gemini-2.5-flash-lite": {InputPerM: 0.10, OutputPerM: 0.40},
}

// ResolvePricing returns pricing for a model, zero if unknown.
func ResolvePricing(model string) Pricing {
	return defaultPricing[model]
}

// ComputeCost converts token usage to USD cost using per-1M Pricing.
func ComputeCost(promptTokens, completionTokens int, p Pricing) (inputCost, outputCost, total float64) {
	inputCost = p.InputPerM * float64(promptTokens) / 1_000_000.0
	outputCost = p.OutputPerM * float64(completionTokens) / 1_000_000.0
	total = inputCost + outputCost
	return
}
