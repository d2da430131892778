package app

import (
	"context"
	"testing"
	"time"

	venueapp "github.com/fd1az/spreadscanner/business/venue/app"
	venuedomain "github.com/fd1az/spreadscanner/business/venue/domain"
	pairsdomain "github.com/fd1az/spreadscanner/business/pairs/domain"
	"github.com/fd1az/spreadscanner/internal/logger"
)

type fakeAdapter struct {
	venue   venuedomain.VenueId
	tickers []venueapp.TickerRecord
	err     error
}

func (f *fakeAdapter) Venue() venuedomain.VenueId { return f.venue }
func (f *fakeAdapter) FetchTickers(ctx context.Context) ([]venueapp.TickerRecord, error) {
	return f.tickers, f.err
}
func (f *fakeAdapter) FetchTopOfBook(ctx context.Context) ([]venueapp.TopOfBookRecord, error) {
	return nil, nil
}
func (f *fakeAdapter) FetchOrderBook(ctx context.Context, native venuedomain.NativeSymbol, depth int) (venuedomain.OrderBook, error) {
	return venuedomain.OrderBook{}, nil
}
func (f *fakeAdapter) NativeSymbolFor(pair venuedomain.CanonicalPair) venuedomain.NativeSymbol {
	return venuedomain.NativeSymbol(pair)
}

func TestNormalizerCycleFiltersByVolumeAndCanonicalizes(t *testing.T) {
	binanceAdapter := &fakeAdapter{
		venue: venuedomain.Binance,
		tickers: []venueapp.TickerRecord{
			{Native: "BTCUSDT", QuoteVolumeUSDT: 1_000_000},
			{Native: "LOWVOLUSDT", QuoteVolumeUSDT: 1},
			{Native: "ETHBTC", QuoteVolumeUSDT: 1_000_000},
		},
	}
	bybitAdapter := &fakeAdapter{venue: venuedomain.Bybit, err: context.DeadlineExceeded}

	registry := venueapp.NewRegistry(binanceAdapter, bybitAdapter)
	slot := pairsdomain.NewSlot()
	n := NewNormalizer(registry, slot, 1000, time.Minute, time.Second, logger.Discard())

	if err := n.cycle(context.Background()); err != nil {
		t.Fatalf("cycle() error = %v", err)
	}

	snap := slot.Load()
	if _, ok := snap["BTC_USDT"]; !ok {
		t.Fatalf("expected BTC_USDT to be published, got %+v", snap)
	}
	if _, ok := snap["LOWVOL_USDT"]; ok {
		t.Fatalf("low volume pair should have been filtered out")
	}
	if len(snap) != 1 {
		t.Fatalf("expected exactly 1 pair, got %d: %+v", len(snap), snap)
	}
}
