// Package app implements the Stage-1 Spread Scanner: it reads the latest
// SymbolMap, fetches top-of-book from every venue in parallel, and emits
// Candidate signals for venue pairs clearing the minimum profit threshold.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/panics"

	pairsdomain "github.com/fd1az/spreadscanner/business/pairs/domain"
	spreaddomain "github.com/fd1az/spreadscanner/business/spread/domain"
	venueapp "github.com/fd1az/spreadscanner/business/venue/app"
	venuedomain "github.com/fd1az/spreadscanner/business/venue/domain"
	"github.com/fd1az/spreadscanner/internal/csvlog"
	"github.com/fd1az/spreadscanner/internal/logger"
)

const meterName = "business/spread"

// Reporter receives Stage-1 candidate events for display. A nil Reporter
// on a Scanner is a no-op.
type Reporter interface {
	Candidate(c spreaddomain.Candidate)
}

// Scanner is the Stage-1 worker.
type Scanner struct {
	registry     *venueapp.Registry
	slot         *pairsdomain.Slot
	queue        *spreaddomain.Queue
	signalLog    *csvlog.SpreadSignalWriter
	minProfitPct decimal.Decimal
	period       time.Duration
	fetchTimeout time.Duration
	emptyRetry   time.Duration
	log          logger.LoggerInterface
	metrics      *scannerMetrics
	now          func() time.Time

	// Reporter is optional; set it after construction to observe emitted
	// candidates (e.g. pkg/ui's dashboard reporter).
	Reporter Reporter
}

// NewScanner builds a Stage-1 worker.
func NewScanner(registry *venueapp.Registry, slot *pairsdomain.Slot, queue *spreaddomain.Queue, signalLog *csvlog.SpreadSignalWriter, minProfitPct decimal.Decimal, period, fetchTimeout, emptyRetry time.Duration, log logger.LoggerInterface) *Scanner {
	return &Scanner{
		registry:     registry,
		slot:         slot,
		queue:        queue,
		signalLog:    signalLog,
		minProfitPct: minProfitPct,
		period:       period,
		fetchTimeout: fetchTimeout,
		emptyRetry:   emptyRetry,
		log:          log,
		metrics:      newScannerMetrics(),
		now:          time.Now,
	}
}

// Run loops until ctx is cancelled.
func (s *Scanner) Run(ctx context.Context) error {
	for {
		sleep := s.period
		if s.slot.Empty() {
			s.log.Debug(ctx, "symbol map snapshot empty, retrying shortly")
			sleep = s.emptyRetry
		} else if err := s.cycle(ctx); err != nil {
			s.log.Error(ctx, "spread scanner cycle failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
	}
}

type bookResult struct {
	venue venuedomain.VenueId
	book  venuedomain.QuoteBook
	err   error
}

func (s *Scanner) cycle(ctx context.Context) error {
	start := s.now()
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	snapshot := s.slot.Load()
	adapters := s.registry.All()
	results := make([]bookResult, len(adapters))

	var wg sync.WaitGroup
	for i, a := range adapters {
		wg.Add(1)
		go func(i int, a venueapp.Adapter) {
			defer wg.Done()

			var catcher panics.Catcher
			var records []venueapp.TopOfBookRecord
			var err error
			catcher.Try(func() {
				records, err = a.FetchTopOfBook(fetchCtx)
			})
			if rec := catcher.Recovered(); rec != nil {
				err = rec.AsError()
			}

			book := venuedomain.QuoteBook{}
			for _, r := range records {
				book[r.Native] = r.Quote
			}
			results[i] = bookResult{venue: a.Venue(), book: book, err: err}
		}(i, a)
	}
	wg.Wait()

	books := make(map[venuedomain.VenueId]venuedomain.QuoteBook, len(results))
	for _, r := range results {
		if r.err != nil {
			s.log.Warn(ctx, "venue top-of-book fetch failed", "venue", r.venue, "error", r.err)
			s.metrics.fetchFailures.Add(ctx, 1)
			continue
		}
		books[r.venue] = r.book
	}

	emitted := 0
	for pair, venues := range snapshot {
		best, bestSpread, found := s.bestCandidateFor(pair, venues, books)
		if !found {
			continue
		}

		if err := s.queue.Push(ctx, best); err != nil {
			return err
		}
		if s.signalLog != nil {
			if err := s.signalLog.Write(best); err != nil {
				s.log.Warn(ctx, "failed to write spread signal log", "error", err)
			}
		}
		if s.Reporter != nil {
			s.Reporter.Candidate(best)
		}
		emitted++
		s.metrics.candidateSpread.Record(ctx, bestSpread.InexactFloat64())
	}

	s.metrics.candidatesEmitted.Add(ctx, int64(emitted))
	s.metrics.cycleDuration.Record(ctx, s.now().Sub(start).Seconds())
	s.log.Info(ctx, "spread scan cycle complete", "candidates", emitted, "pairs", len(snapshot))

	return nil
}

// bestCandidateFor evaluates every unordered venue pair present for pair
// and returns the one with the largest best_spread, if any clears the
// minimum profit threshold. Ties are broken by iterating venues in the
// fixed domain.AllVenues order, so the first venue pair encountered at the
// maximum spread wins deterministically.
func (s *Scanner) bestCandidateFor(pair venuedomain.CanonicalPair, venues map[venuedomain.VenueId]venuedomain.NativeSymbol, books map[venuedomain.VenueId]venuedomain.QuoteBook) (spreaddomain.Candidate, decimal.Decimal, bool) {
	present := make([]venuedomain.VenueId, 0, len(venues))
	for _, v := range venuedomain.AllVenues {
		native, ok := venues[v]
		if !ok {
			continue
		}
		book, ok := books[v]
		if !ok {
			continue
		}
		q, ok := book[native]
		if !ok || !q.Valid() {
			continue
		}
		present = append(present, v)
	}
	if len(present) < 2 {
		return spreaddomain.Candidate{}, decimal.Zero, false
	}

	var (
		bestCand   spreaddomain.Candidate
		bestRaw    decimal.Decimal
		haveBest   bool
	)

	for i := 0; i < len(present); i++ {
		for j := i + 1; j < len(present); j++ {
			a, b := present[i], present[j]
			aQuote := books[a][venues[a]]
			bQuote := books[b][venues[b]]

			cand, raw, ok := spreaddomain.EvaluatePair(pair, a, b, aQuote, bQuote, s.minProfitPct, s.now())
			if !ok {
				continue
			}
			if !haveBest || raw.GreaterThan(bestRaw) {
				bestCand, bestRaw, haveBest = cand, raw, true
			}
		}
	}

	return bestCand, bestRaw, haveBest
}
