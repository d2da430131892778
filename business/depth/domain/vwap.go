// Package domain implements the Stage-2 Depth Checker's core algorithms:
// the VWAP order-book walk and the DepthResult outcome type.
package domain

import (
	"github.com/shopspring/decimal"

	venuedomain "github.com/fd1az/spreadscanner/business/venue/domain"
)

// WalkVWAP accumulates levels in their given order until the cumulative
// notional reaches wantNotional or maxLevels is exhausted, returning the
// volume-weighted average price actually achieved.
//
// total_qty is the sum of take_i/price_i across every level actually
// consumed, never filled_notional divided by the last level's price: a
// walk that fills 100 notional at 10.0 and 400 notional at 10.1 fills
// 10 + 400/10.1 ≈ 49.604 units for 500 notional, VWAP ≈ 10.0798 — not
// 500/(500/10.1) ≈ 10.1, which is what dividing by the final level's price
// alone would (incorrectly) produce.
//
// ok is false if wantNotional could not be reached within maxLevels.
func WalkVWAP(levels []venuedomain.OrderBookLevel, wantNotional decimal.Decimal, maxLevels int) (vwap decimal.Decimal, ok bool) {
	if maxLevels > len(levels) {
		maxLevels = len(levels)
	}

	filledNotional := decimal.Zero
	totalQty := decimal.Zero
	cost := decimal.Zero

	for i := 0; i < maxLevels; i++ {
		lvl := levels[i]
		if !lvl.Price.IsPositive() || !lvl.Qty.IsPositive() {
			continue
		}

		levelNotional := lvl.Price.Mul(lvl.Qty)
		remaining := wantNotional.Sub(filledNotional)
		take := levelNotional
		if take.GreaterThan(remaining) {
			take = remaining
		}

		filledNotional = filledNotional.Add(take)
		totalQty = totalQty.Add(take.Div(lvl.Price))
		cost = cost.Add(take)

		if filledNotional.GreaterThanOrEqual(wantNotional) {
			break
		}
	}

	if filledNotional.LessThan(wantNotional) || totalQty.IsZero() {
		return decimal.Zero, false
	}

	return cost.Div(totalQty), true
}
