// Package usage prices token counts and keeps running session totals.
package usage

import (
	"fmt"

	"pkt.systems/addschat/schema"
)

// Price is the USD cost per one million tokens.
type Price struct {
	Input  float64
	Output float64
}

// fallbackModel prices models missing from the table.
const fallbackModel schema.ModelID = "gpt-4o-mini"

var pricing = map[schema.ModelID]Price{
	"gpt-4o":        {Input: 2.50, Output: 10.00},
	"gpt-4o-mini":   {Input: 0.15, Output: 0.60},
	"gpt-4-turbo":   {Input: 10.00, Output: 30.00},
	"gpt-3.5-turbo": {Input: 0.50, Output: 1.50},
}

// PriceFor returns the price of model, falling back to gpt-4o-mini.
func PriceFor(model schema.ModelID) Price {
	if price, ok := pricing[model]; ok {
		return price
	}
	return pricing[fallbackModel]
}

// Cost computes the USD cost of a single exchange.
func Cost(model schema.ModelID, inputTokens, outputTokens int64) float64 {
	price := PriceFor(model)
	return float64(inputTokens)/1_000_000*price.Input + float64(outputTokens)/1_000_000*price.Output
}

// Totals accumulates accounting across exchanges.
type Totals struct {
	Tokens  int64
	CostUSD float64
}

// Add merges one completed exchange.
func (t *Totals) Add(done schema.Completed) {
	if t == nil {
		return
	}
	tokens := done.TotalTokens
	if tokens == 0 {
		tokens = done.InputTokens + done.OutputTokens
	}
	t.Tokens += tokens
	t.CostUSD += done.CostUSD
}

// FormatCost renders a cost with enough precision for fractions of a cent.
func FormatCost(cost float64) string {
	if cost >= 0.01 {
		return fmt.Sprintf("$%.2f", cost)
	}
	return fmt.Sprintf("$%.4f", cost)
}
