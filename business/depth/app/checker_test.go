package app

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	spreaddomain "github.com/fd1az/spreadscanner/business/spread/domain"
	venueapp "github.com/fd1az/spreadscanner/business/venue/app"
	venuedomain "github.com/fd1az/spreadscanner/business/venue/domain"
	depthdomain "github.com/fd1az/spreadscanner/business/depth/domain"
	"github.com/fd1az/spreadscanner/internal/logger"
)

func lvl(price, qty string) venuedomain.OrderBookLevel {
	return venuedomain.OrderBookLevel{
		Price: decimal.RequireFromString(price),
		Qty:   decimal.RequireFromString(qty),
	}
}

type fakeBookAdapter struct {
	venue venuedomain.VenueId
	book  venuedomain.OrderBook
	err   error
}

func (f *fakeBookAdapter) Venue() venuedomain.VenueId { return f.venue }
func (f *fakeBookAdapter) FetchTickers(ctx context.Context) ([]venueapp.TickerRecord, error) {
	return nil, nil
}
func (f *fakeBookAdapter) FetchTopOfBook(ctx context.Context) ([]venueapp.TopOfBookRecord, error) {
	return nil, nil
}
func (f *fakeBookAdapter) FetchOrderBook(ctx context.Context, native venuedomain.NativeSymbol, depth int) (venuedomain.OrderBook, error) {
	return f.book, f.err
}
func (f *fakeBookAdapter) NativeSymbolFor(pair venuedomain.CanonicalPair) venuedomain.NativeSymbol {
	return venuedomain.NativeSymbol(pair)
}

func newTestChecker(buy, sell *fakeBookAdapter, targetNetProfitPct string) *Checker {
	registry := venueapp.NewRegistry(buy, sell)
	queue := spreaddomain.NewQueue(4)
	return NewChecker(registry, queue, nil, Config{
		MinExecutionNotionalUSDT: decimal.RequireFromString("500"),
		MaxBookDepthLevels:       10,
		OrderBookDepth:           10,
		SafetyFeeBufferPct:      decimal.RequireFromString("0"),
		TargetNetProfitPct:      decimal.RequireFromString(targetNetProfitPct),
		TakerFeesPct:            map[string]decimal.Decimal{},
		FetchTimeout:            time.Second,
	}, logger.Discard())
}

func TestCheckerConfirmsWhenDepthAndSpreadSurvive(t *testing.T) {
	buy := &fakeBookAdapter{venue: venuedomain.Binance, book: venuedomain.OrderBook{
		Asks: []venuedomain.OrderBookLevel{lvl("10.0", "10"), lvl("10.1", "50")},
	}}
	sell := &fakeBookAdapter{venue: venuedomain.OKX, book: venuedomain.OrderBook{
		Bids: []venuedomain.OrderBookLevel{lvl("10.5", "100")},
	}}
	c := newTestChecker(buy, sell, "0.1")

	cand := spreaddomain.Candidate{Pair: "BTC_USDT", BuyVenue: venuedomain.Binance, SellVenue: venuedomain.OKX}
	result := c.check(context.Background(), cand)

	if result.Status != depthdomain.StatusConfirmed {
		t.Fatalf("Status = %q, reason = %q, want confirmed", result.Status, result.Reason)
	}
}

func TestCheckerRejectsOnInsufficientDepth(t *testing.T) {
	// Scenario D: asks=[(10.0,10),(10.1,30)] total notional ~403 < want 500.
	buy := &fakeBookAdapter{venue: venuedomain.Binance, book: venuedomain.OrderBook{
		Asks: []venuedomain.OrderBookLevel{lvl("10.0", "10"), lvl("10.1", "30")},
	}}
	sell := &fakeBookAdapter{venue: venuedomain.OKX, book: venuedomain.OrderBook{
		Bids: []venuedomain.OrderBookLevel{lvl("10.5", "100")},
	}}
	c := newTestChecker(buy, sell, "0.1")

	cand := spreaddomain.Candidate{Pair: "BTC_USDT", BuyVenue: venuedomain.Binance, SellVenue: venuedomain.OKX}
	result := c.check(context.Background(), cand)

	if result.Status != depthdomain.StatusRejected || result.Reason != depthdomain.ReasonInsufficientDepth {
		t.Fatalf("Status = %q, Reason = %q, want rejected/insufficient_depth", result.Status, result.Reason)
	}
}

func TestCheckerRejectsOnEmptyOrderBook(t *testing.T) {
	buy := &fakeBookAdapter{venue: venuedomain.Binance, book: venuedomain.OrderBook{}}
	sell := &fakeBookAdapter{venue: venuedomain.OKX, book: venuedomain.OrderBook{
		Bids: []venuedomain.OrderBookLevel{lvl("10.5", "100")},
	}}
	c := newTestChecker(buy, sell, "0.1")

	cand := spreaddomain.Candidate{Pair: "BTC_USDT", BuyVenue: venuedomain.Binance, SellVenue: venuedomain.OKX}
	result := c.check(context.Background(), cand)

	if result.Status != depthdomain.StatusRejected || result.Reason != depthdomain.ReasonFetchFailedOrEmptyOrderBook {
		t.Fatalf("Status = %q, Reason = %q, want rejected/fetch_failed_or_empty_orderbook", result.Status, result.Reason)
	}
}

func TestCheckerRejectsWhenFeesErodeSpread(t *testing.T) {
	buy := &fakeBookAdapter{venue: venuedomain.Binance, book: venuedomain.OrderBook{
		Asks: []venuedomain.OrderBookLevel{lvl("10.0", "1000")},
	}}
	sell := &fakeBookAdapter{venue: venuedomain.OKX, book: venuedomain.OrderBook{
		Bids: []venuedomain.OrderBookLevel{lvl("10.01", "1000")},
	}}
	c := newTestChecker(buy, sell, "5")

	cand := spreaddomain.Candidate{Pair: "BTC_USDT", BuyVenue: venuedomain.Binance, SellVenue: venuedomain.OKX}
	result := c.check(context.Background(), cand)

	if result.Status != depthdomain.StatusRejected || result.Reason != depthdomain.ReasonSpreadAfterFeesTooLow {
		t.Fatalf("Status = %q, Reason = %q, want rejected/spread_after_fees_too_low", result.Status, result.Reason)
	}
}
