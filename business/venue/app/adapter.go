// Package app defines the venue adapter port and the registry Stage-0/1/2
// use to fan out across every supported exchange.
package app

import (
	"context"

	"github.com/fd1az/spreadscanner/business/venue/domain"
)

// TickerRecord is one row of a venue's 24h ticker feed, reduced to the
// fields the normalizer needs.
type TickerRecord struct {
	Native          domain.NativeSymbol
	QuoteVolumeUSDT float64
}

// TopOfBookRecord is one row of a venue's top-of-book feed.
type TopOfBookRecord struct {
	Native domain.NativeSymbol
	Quote  domain.Quote
}

// Adapter is the port every venue infra package implements. All three
// fetch operations are idempotent network reads: they must respect ctx's
// deadline, and a failure becomes an error the caller treats as a local
// FetchFailure rather than aborting the whole cycle.
type Adapter interface {
	Venue() domain.VenueId

	FetchTickers(ctx context.Context) ([]TickerRecord, error)
	FetchTopOfBook(ctx context.Context) ([]TopOfBookRecord, error)
	FetchOrderBook(ctx context.Context, native domain.NativeSymbol, depth int) (domain.OrderBook, error)

	// NativeSymbolFor derives the venue's native spelling of a canonical
	// pair directly, without consulting any SymbolMap snapshot. This is a
	// pure function of the venue's symbol convention, so Stage-2 can
	// resolve a symbol for a venue pair even if Stage-0 hasn't (re)seen it
	// this cycle; the SymbolMap is only needed to prove liquidity.
	NativeSymbolFor(pair domain.CanonicalPair) domain.NativeSymbol
}

// Registry is the fixed set of configured venue adapters.
type Registry struct {
	adapters map[domain.VenueId]Adapter
}

// NewRegistry builds a Registry from a set of adapters.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[domain.VenueId]Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.Venue()] = a
	}
	return r
}

// Get returns the adapter for venue, if configured.
func (r *Registry) Get(venue domain.VenueId) (Adapter, bool) {
	a, ok := r.adapters[venue]
	return a, ok
}

// All returns every configured adapter, in domain.AllVenues order.
func (r *Registry) All() []Adapter {
	out := make([]Adapter, 0, len(r.adapters))
	for _, v := range domain.AllVenues {
		if a, ok := r.adapters[v]; ok {
			out = append(out, a)
		}
	}
	return out
}
