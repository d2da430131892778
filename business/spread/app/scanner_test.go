package app

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	pairsdomain "github.com/fd1az/spreadscanner/business/pairs/domain"
	spreaddomain "github.com/fd1az/spreadscanner/business/spread/domain"
	venueapp "github.com/fd1az/spreadscanner/business/venue/app"
	venuedomain "github.com/fd1az/spreadscanner/business/venue/domain"
	"github.com/fd1az/spreadscanner/internal/logger"
)

type fakeAdapter struct {
	venue venuedomain.VenueId
	quote venuedomain.Quote
}

func (f *fakeAdapter) Venue() venuedomain.VenueId { return f.venue }
func (f *fakeAdapter) FetchTickers(ctx context.Context) ([]venueapp.TickerRecord, error) {
	return nil, nil
}
func (f *fakeAdapter) FetchTopOfBook(ctx context.Context) ([]venueapp.TopOfBookRecord, error) {
	return []venueapp.TopOfBookRecord{{Native: venuedomain.NativeSymbol(string(f.venue) + "USDT"), Quote: f.quote}}, nil
}
func (f *fakeAdapter) FetchOrderBook(ctx context.Context, native venuedomain.NativeSymbol, depth int) (venuedomain.OrderBook, error) {
	return venuedomain.OrderBook{}, nil
}
func (f *fakeAdapter) NativeSymbolFor(pair venuedomain.CanonicalPair) venuedomain.NativeSymbol {
	return venuedomain.NativeSymbol(string(f.venue) + "USDT")
}

func TestScannerCycleEmitsCandidateAboveThreshold(t *testing.T) {
	a := &fakeAdapter{venue: venuedomain.Binance, quote: venuedomain.Quote{Bid: decimal.RequireFromString("2000"), Ask: decimal.RequireFromString("2001")}}
	b := &fakeAdapter{venue: venuedomain.OKX, quote: venuedomain.Quote{Bid: decimal.RequireFromString("2020"), Ask: decimal.RequireFromString("2021")}}

	registry := venueapp.NewRegistry(a, b)
	slot := pairsdomain.NewSlot()
	slot.Publish(venuedomain.SymbolMap{
		"ETH_USDT": {
			venuedomain.Binance: venuedomain.NativeSymbol("binanceUSDT"),
			venuedomain.OKX:     venuedomain.NativeSymbol("okxUSDT"),
		},
	})
	queue := spreaddomain.NewQueue(4)

	s := NewScanner(registry, slot, queue, nil, decimal.RequireFromString("0.5"), time.Minute, time.Second, time.Millisecond, logger.Discard())

	if err := s.cycle(context.Background()); err != nil {
		t.Fatalf("cycle() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	cand, err := queue.Pop(ctx)
	if err != nil {
		t.Fatalf("queue.Pop() error = %v", err)
	}
	if cand.Pair != "ETH_USDT" {
		t.Fatalf("Candidate.Pair = %q, want ETH_USDT", cand.Pair)
	}
	if cand.BuyVenue != venuedomain.Binance || cand.SellVenue != venuedomain.OKX {
		t.Fatalf("direction = buy %s sell %s, want buy binance sell okx", cand.BuyVenue, cand.SellVenue)
	}
	if cand.BestSpreadPct.LessThan(decimal.RequireFromString("0.5")) {
		t.Fatalf("BestSpreadPct = %s, want >= 0.5", cand.BestSpreadPct)
	}
}

func TestScannerCycleSkipsPairBelowThreshold(t *testing.T) {
	a := &fakeAdapter{venue: venuedomain.Binance, quote: venuedomain.Quote{Bid: decimal.RequireFromString("2000"), Ask: decimal.RequireFromString("2000.1")}}
	b := &fakeAdapter{venue: venuedomain.OKX, quote: venuedomain.Quote{Bid: decimal.RequireFromString("2000.2"), Ask: decimal.RequireFromString("2000.3")}}

	registry := venueapp.NewRegistry(a, b)
	slot := pairsdomain.NewSlot()
	slot.Publish(venuedomain.SymbolMap{
		"ETH_USDT": {
			venuedomain.Binance: venuedomain.NativeSymbol("binanceUSDT"),
			venuedomain.OKX:     venuedomain.NativeSymbol("okxUSDT"),
		},
	})
	queue := spreaddomain.NewQueue(4)

	s := NewScanner(registry, slot, queue, nil, decimal.RequireFromString("5"), time.Minute, time.Second, time.Millisecond, logger.Discard())

	if err := s.cycle(context.Background()); err != nil {
		t.Fatalf("cycle() error = %v", err)
	}
	if queue.Len() != 0 {
		t.Fatalf("queue.Len() = %d, want 0 (spread below 5%% threshold)", queue.Len())
	}
}
