// Package pricing computes bounded, step-aligned monetization prices.
// Both modes clamp to the budget window first and then align to the price
// step; rounding at exact .5 boundaries is half-up.
package pricing

import (
	"math"

	"chatbrain/internal/contracts"
)

var tierMultiplier = map[string]float64{
	contracts.TierSilver:  1.0,
	contracts.TierGold:    1.3,
	contracts.TierDiamond: 2.0,
	contracts.TierEmerald: 3.0,
}

// TierMultiplier returns the price multiplier for an account tier. Unknown
// tiers scale by 1.0.
func TierMultiplier(tier string) float64 {
	if m, ok := tierMultiplier[tier]; ok {
		return m
	}
	return 1.0
}

// CatalogPrice picks the cheapest viable item's base price (or the floor
// when no catalog is supplied), clamps it to the budget window, and aligns
// it to the price step.
func CatalogPrice(budgets contracts.Budgets, catalog []contracts.CatalogItem) float64 {
	base := budgets.PriceFloor
	if len(catalog) > 0 {
		base = catalog[0].BasePrice
		for _, item := range catalog[1:] {
			if item.BasePrice < base {
				base = item.BasePrice
			}
		}
	}
	return clampAndStep(base, budgets)
}

// TierPrice scales one item's base price by the account tier multiplier,
// then applies the same clamp-then-step alignment. This is the PPV-offer
// path in a mission-gated decision.
func TierPrice(budgets contracts.Budgets, item contracts.CatalogItem, tier string) float64 {
	return clampAndStep(item.BasePrice*TierMultiplier(tier), budgets)
}

func clampAndStep(price float64, budgets contracts.Budgets) float64 {
	if price < budgets.PriceFloor {
		price = budgets.PriceFloor
	}
	if price > budgets.PriceCeiling {
		price = budgets.PriceCeiling
	}
	// math.Round is half-away-from-zero; prices are non-negative here, so
	// this is the pinned half-up behavior.
	return math.Round(price/budgets.PriceStep) * budgets.PriceStep
}
