package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	venuedomain "github.com/fd1az/spreadscanner/business/venue/domain"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestBestSpreadDirection(t *testing.T) {
	// Scenario: ETH_USDT, venue A {bid:2000, ask:2001}, venue B
	// {bid:2020, ask:2021}. Buying at A and selling at B nets roughly
	// 0.9495%; the reverse direction is negative, so A->B must win.
	a := venuedomain.Quote{Bid: dec("2000"), Ask: dec("2001")}
	b := venuedomain.Quote{Bid: dec("2020"), Ask: dec("2021")}

	spreadA2B, spreadB2A, ok := BestSpread(a, b)
	if !ok {
		t.Fatalf("BestSpread() ok = false, want true")
	}

	wantA2B := dec("0.9495252373813093")
	if diff := spreadA2B.Sub(wantA2B).Abs(); diff.GreaterThan(dec("0.0001")) {
		t.Fatalf("spreadA2B = %s, want ~%s", spreadA2B, wantA2B)
	}
	if !spreadB2A.IsNegative() {
		t.Fatalf("spreadB2A = %s, want negative", spreadB2A)
	}
}

func TestEvaluatePairAppliesMinProfitThreshold(t *testing.T) {
	a := venuedomain.Quote{Bid: dec("2000"), Ask: dec("2001")}
	b := venuedomain.Quote{Bid: dec("2020"), Ask: dec("2021")}
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	cand, _, ok := EvaluatePair("ETH_USDT", venuedomain.Binance, venuedomain.OKX, a, b, dec("0.5"), now)
	if !ok {
		t.Fatalf("EvaluatePair() ok = false, want true (0.95%% clears 0.5%% threshold)")
	}
	if cand.BuyVenue != venuedomain.Binance || cand.SellVenue != venuedomain.OKX {
		t.Fatalf("direction = buy %s sell %s, want buy binance sell okx", cand.BuyVenue, cand.SellVenue)
	}

	if _, _, ok := EvaluatePair("ETH_USDT", venuedomain.Binance, venuedomain.OKX, a, b, dec("5"), now); ok {
		t.Fatalf("EvaluatePair() ok = true, want false (0.95%% does not clear 5%% threshold)")
	}
}

func TestBestSpreadRejectsNonPositiveSides(t *testing.T) {
	a := venuedomain.Quote{Bid: dec("0"), Ask: dec("100")}
	b := venuedomain.Quote{Bid: dec("101"), Ask: dec("102")}

	if _, _, ok := BestSpread(a, b); ok {
		t.Fatalf("BestSpread() ok = true, want false for zero bid")
	}
}
