package domain

import (
	"testing"

	"github.com/shopspring/decimal"

	venuedomain "github.com/fd1az/spreadscanner/business/venue/domain"
)

func lvl(price, qty string) venuedomain.OrderBookLevel {
	return venuedomain.OrderBookLevel{
		Price: decimal.RequireFromString(price),
		Qty:   decimal.RequireFromString(qty),
	}
}

func TestWalkVWAPAccumulatesPerLevelQuantity(t *testing.T) {
	// want=500, asks=[(10.0,10),(10.1,50)]: level1 fills 100 notional at
	// qty 10; level2 needs 400 more notional, taking 400/10.1 units.
	// total_qty = 10 + 400/10.1 ≈ 49.60396, VWAP = 500/49.60396 ≈ 10.0798.
	asks := []venuedomain.OrderBookLevel{lvl("10.0", "10"), lvl("10.1", "50")}

	vwap, ok := WalkVWAP(asks, decimal.RequireFromString("500"), 10)
	if !ok {
		t.Fatalf("WalkVWAP() ok = false, want true")
	}

	want := decimal.RequireFromString("10.0798")
	if diff := vwap.Sub(want).Abs(); diff.GreaterThan(decimal.RequireFromString("0.001")) {
		t.Fatalf("VWAP = %s, want ~%s", vwap, want)
	}
}

func TestWalkVWAPInsufficientDepthReturnsNotOk(t *testing.T) {
	// want=500, asks=[(10.0,10),(10.1,30)]: total notional ≈ 403 < 500.
	asks := []venuedomain.OrderBookLevel{lvl("10.0", "10"), lvl("10.1", "30")}

	if _, ok := WalkVWAP(asks, decimal.RequireFromString("500"), 10); ok {
		t.Fatalf("WalkVWAP() ok = true, want false (insufficient depth)")
	}
}

func TestWalkVWAPRespectsMaxLevels(t *testing.T) {
	asks := []venuedomain.OrderBookLevel{lvl("10.0", "1000"), lvl("9.0", "1000")}

	// Depth cap of 1 level only sees the first (worse) level; since it
	// alone covers the notional this still succeeds at that level's price.
	vwap, ok := WalkVWAP(asks, decimal.RequireFromString("100"), 1)
	if !ok {
		t.Fatalf("WalkVWAP() ok = false, want true")
	}
	if !vwap.Equal(decimal.RequireFromString("10.0")) {
		t.Fatalf("VWAP = %s, want 10.0", vwap)
	}
}
