// Package app implements the Stage-0 Normalizer: it polls every venue's
// 24h ticker feed, keeps symbols with enough quote volume, canonicalizes
// them, and publishes the resulting SymbolMap to the shared snapshot slot.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/sourcegraph/conc/panics"

	pairsdomain "github.com/fd1az/spreadscanner/business/pairs/domain"
	venueapp "github.com/fd1az/spreadscanner/business/venue/app"
	venuedomain "github.com/fd1az/spreadscanner/business/venue/domain"
	"github.com/fd1az/spreadscanner/internal/logger"
)

const (
	tracerName = "business/pairs"
	meterName  = "business/pairs"
)

// Reporter receives Stage-0 snapshot events for display (e.g. the TUI
// dashboard). A nil Reporter on a Normalizer is a no-op.
type Reporter interface {
	Snapshot(pairsTracked int)
	VenueStatus(venue venuedomain.VenueId, reachable bool)
}

// Normalizer is the Stage-0 worker.
type Normalizer struct {
	registry      *venueapp.Registry
	slot          *pairsdomain.Slot
	minVolumeUSDT float64
	period        time.Duration
	fetchTimeout  time.Duration
	log           logger.LoggerInterface
	metrics       *normalizerMetrics

	// Reporter is optional; set it after construction to observe snapshot
	// events (e.g. pkg/ui's dashboard reporter).
	Reporter Reporter
}

// NewNormalizer builds a Stage-0 worker publishing into slot.
func NewNormalizer(registry *venueapp.Registry, slot *pairsdomain.Slot, minVolumeUSDT float64, period, fetchTimeout time.Duration, log logger.LoggerInterface) *Normalizer {
	n := &Normalizer{
		registry:      registry,
		slot:          slot,
		minVolumeUSDT: minVolumeUSDT,
		period:        period,
		fetchTimeout:  fetchTimeout,
		log:           log,
	}
	n.metrics = newNormalizerMetrics()
	return n
}

// Run loops until ctx is cancelled, running one normalization cycle per
// period. Transient per-cycle errors are logged and do not stop the loop.
func (n *Normalizer) Run(ctx context.Context) error {
	for {
		if err := n.cycle(ctx); err != nil {
			n.log.Error(ctx, "pairs normalizer cycle failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(n.period):
		}
	}
}

type venueResult struct {
	venue   venuedomain.VenueId
	records []venueapp.TickerRecord
	err     error
}

func (n *Normalizer) cycle(ctx context.Context) error {
	start := time.Now()
	fetchCtx, cancel := context.WithTimeout(ctx, n.fetchTimeout)
	defer cancel()

	adapters := n.registry.All()
	results := make([]venueResult, len(adapters))

	var wg sync.WaitGroup
	for i, a := range adapters {
		wg.Add(1)
		go func(i int, a venueapp.Adapter) {
			defer wg.Done()

			var catcher panics.Catcher
			var records []venueapp.TickerRecord
			var err error
			catcher.Try(func() {
				records, err = a.FetchTickers(fetchCtx)
			})
			if rec := catcher.Recovered(); rec != nil {
				err = rec.AsError()
			}

			results[i] = venueResult{venue: a.Venue(), records: records, err: err}
		}(i, a)
	}
	wg.Wait()

	next := venuedomain.SymbolMap{}
	for _, r := range results {
		if n.Reporter != nil {
			n.Reporter.VenueStatus(r.venue, r.err == nil)
		}
		if r.err != nil {
			n.log.Warn(ctx, "venue ticker fetch failed", "venue", r.venue, "error", r.err)
			n.metrics.fetchFailures.Add(ctx, 1)
			continue
		}
		for _, rec := range r.records {
			if rec.QuoteVolumeUSDT < n.minVolumeUSDT {
				continue
			}
			pair, ok := venuedomain.Canonicalize(rec.Native)
			if !ok {
				continue
			}
			entry, ok := next[pair]
			if !ok {
				entry = make(map[venuedomain.VenueId]venuedomain.NativeSymbol, len(venuedomain.AllVenues))
				next[pair] = entry
			}
			entry[r.venue] = rec.Native
		}
	}

	n.slot.Publish(next)
	n.metrics.pairsPublished.Record(ctx, int64(len(next)))
	n.metrics.cycleDuration.Record(ctx, time.Since(start).Seconds())
	n.log.Info(ctx, "pairs normalized", "pairs", len(next), "duration", time.Since(start))

	if n.Reporter != nil {
		n.Reporter.Snapshot(len(next))
	}

	return nil
}
