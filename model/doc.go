// Package model provides model names, per-model pricing, and usage tracking.
//
// # Pricing
//
// Prices are USD per 1,000 tokens. Costs are rounded to six decimal places,
// and unknown models price at zero:
//
//	cost, ok := model.DefaultPrices.Cost("gpt-3.5-turbo-0125", 1000, 500)
//	// cost == 0.00125, ok == true (dated snapshots normalize to their family)
//
// # Usage Tracking
//
//	tracker := model.NewUsageTracker()
//	tracker.RecordSuccess("gpt-3.5-turbo", 120, 80, 0.00018)
//	tracker.RecordFailure("gpt-3.5-turbo")
//	stats := tracker.Snapshot()
package model
