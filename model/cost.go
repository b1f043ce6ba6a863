package model

import "math"

// Pricing holds USD per 1,000 tokens for a model.
type Pricing struct {
	InputPer1K  float64 `json:"input_per_1k" yaml:"input_per_1k"`
	OutputPer1K float64 `json:"output_per_1k" yaml:"output_per_1k"`
}

// PriceTable maps model families to pricing.
type PriceTable map[ModelName]Pricing

// DefaultPrices contains list prices for the supported OpenAI chat models.
var DefaultPrices = PriceTable{
	ModelGPT4:          {InputPer1K: 0.03, OutputPer1K: 0.06},
	ModelGPT4Turbo:     {InputPer1K: 0.01, OutputPer1K: 0.03},
	ModelGPT4o:         {InputPer1K: 0.005, OutputPer1K: 0.015},
	ModelGPT4oMini:     {InputPer1K: 0.00015, OutputPer1K: 0.0006},
	ModelGPT35Turbo:    {InputPer1K: 0.0005, OutputPer1K: 0.0015},
	ModelGPT35Turbo16k: {InputPer1K: 0.003, OutputPer1K: 0.004},
}

// Lookup returns pricing for model, normalizing dated snapshot names.
func (p PriceTable) Lookup(model string) (Pricing, bool) {
	if pr, ok := p[ModelName(model)]; ok {
		return pr, true
	}
	pr, ok := p[NormalizeModelName(model)]
	return pr, ok
}

// Breakdown is the priced split of a request.
type Breakdown struct {
	InputCost  float64
	OutputCost float64
	TotalCost  float64
}

// Price returns the input, output, and total cost for the token counts.
// ok is false for unknown models, in which case every cost is zero.
func (p PriceTable) Price(model string, inputTokens, outputTokens int) (Breakdown, bool) {
	pr, ok := p.Lookup(model)
	if !ok {
		return Breakdown{}, false
	}
	in := float64(inputTokens) / 1000 * pr.InputPer1K
	out := float64(outputTokens) / 1000 * pr.OutputPer1K
	return Breakdown{
		InputCost:  Round6(in),
		OutputCost: Round6(out),
		TotalCost:  Round6(in + out),
	}, true
}

// Cost returns the total cost for the token counts.
func (p PriceTable) Cost(model string, inputTokens, outputTokens int) (float64, bool) {
	b, ok := p.Price(model, inputTokens, outputTokens)
	return b.TotalCost, ok
}

// Clone returns a copy that can be modified without affecting p.
func (p PriceTable) Clone() PriceTable {
	out := make(PriceTable, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Round6 rounds v to six decimal places, the precision costs are reported in.
func Round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
