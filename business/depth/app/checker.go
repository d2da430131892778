// Package app implements the Stage-2 Depth Checker: for every Candidate
// dequeued from Stage-1, it fetches real order-book depth on both venues,
// walks the VWAP to the configured execution notional, applies taker fees
// and the safety buffer, and confirms or rejects the signal.
package app

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	depthdomain "github.com/fd1az/spreadscanner/business/depth/domain"
	spreaddomain "github.com/fd1az/spreadscanner/business/spread/domain"
	venueapp "github.com/fd1az/spreadscanner/business/venue/app"
	venuedomain "github.com/fd1az/spreadscanner/business/venue/domain"
	"github.com/fd1az/spreadscanner/internal/csvlog"
	"github.com/fd1az/spreadscanner/internal/logger"
)

const meterName = "business/depth"

// DefaultTakerFeePct is used for any venue missing from the configured
// fee table, matching the conservative default the original collector
// fell back to.
var DefaultTakerFeePct = decimal.RequireFromString("0.10")

// Reporter receives Stage-2 depth-check outcomes for display. A nil
// Reporter on a Checker is a no-op.
type Reporter interface {
	Result(r depthdomain.DepthResult)
}

// Checker is the Stage-2 worker.
type Checker struct {
	registry             *venueapp.Registry
	queue                *spreaddomain.Queue
	confirmedLog         *csvlog.ConfirmedSignalWriter
	minExecutionNotional decimal.Decimal
	maxBookDepthLevels   int
	orderBookDepth       int
	safetyBufferPct      decimal.Decimal
	targetNetProfitPct   decimal.Decimal
	takerFees            map[string]decimal.Decimal
	fetchTimeout         time.Duration
	log                  logger.LoggerInterface
	metrics              *checkerMetrics
	now                  func() time.Time

	// Reporter is optional; set it after construction to observe
	// depth-check outcomes (e.g. pkg/ui's dashboard reporter).
	Reporter Reporter
}

// Config bundles the Stage-2 thresholds.
type Config struct {
	MinExecutionNotionalUSDT decimal.Decimal
	MaxBookDepthLevels       int
	OrderBookDepth           int
	SafetyFeeBufferPct      decimal.Decimal
	TargetNetProfitPct      decimal.Decimal
	TakerFeesPct            map[string]decimal.Decimal
	FetchTimeout            time.Duration
}

// NewChecker builds a Stage-2 worker.
func NewChecker(registry *venueapp.Registry, queue *spreaddomain.Queue, confirmedLog *csvlog.ConfirmedSignalWriter, cfg Config, log logger.LoggerInterface) *Checker {
	return &Checker{
		registry:             registry,
		queue:                queue,
		confirmedLog:         confirmedLog,
		minExecutionNotional: cfg.MinExecutionNotionalUSDT,
		maxBookDepthLevels:   cfg.MaxBookDepthLevels,
		orderBookDepth:       cfg.OrderBookDepth,
		safetyBufferPct:      cfg.SafetyFeeBufferPct,
		targetNetProfitPct:   cfg.TargetNetProfitPct,
		takerFees:            cfg.TakerFeesPct,
		fetchTimeout:         cfg.FetchTimeout,
		log:                  log,
		metrics:              newCheckerMetrics(),
		now:                  time.Now,
	}
}

// Run loops until ctx is cancelled, processing one Candidate at a time.
func (c *Checker) Run(ctx context.Context) error {
	for {
		cand, err := c.queue.Pop(ctx)
		if err != nil {
			return err
		}

		start := c.now()
		result := c.check(ctx, cand)
		c.metrics.checkDuration.Record(ctx, c.now().Sub(start).Seconds())

		c.log.Info(ctx, "depth check complete",
			"pair", result.Pair, "status", result.Status, "reason", result.Reason)

		if c.Reporter != nil {
			c.Reporter.Result(result)
		}

		c.metrics.results.Add(ctx, 1)
		if result.Status == depthdomain.StatusConfirmed {
			c.metrics.confirmed.Add(ctx, 1)
			c.metrics.netSpreadPct.Record(ctx, result.ExecSpreadPctNet.InexactFloat64())
			if c.confirmedLog != nil {
				if err := c.confirmedLog.Write(result); err != nil {
					c.log.Warn(ctx, "failed to write confirmed signal log", "error", err)
				}
			}
		} else {
			c.metrics.rejected.Add(ctx, 1)
		}
	}
}

func (c *Checker) check(ctx context.Context, cand spreaddomain.Candidate) depthdomain.DepthResult {
	result := depthdomain.DepthResult{
		ID:        cand.ID,
		Pair:      cand.Pair,
		BuyVenue:  cand.BuyVenue,
		SellVenue: cand.SellVenue,
		TsUTC:     c.now().UTC(),
	}

	buyAdapter, ok := c.registry.Get(cand.BuyVenue)
	if !ok {
		result.Status = depthdomain.StatusRejected
		result.Reason = depthdomain.ReasonFetchFailedOrEmptyOrderBook
		return result
	}
	sellAdapter, ok := c.registry.Get(cand.SellVenue)
	if !ok {
		result.Status = depthdomain.StatusRejected
		result.Reason = depthdomain.ReasonFetchFailedOrEmptyOrderBook
		return result
	}

	// The native symbol is derived directly from the canonical pair per
	// venue, independent of whether Stage-0 has (re)seen this venue pair
	// this cycle; the SymbolMap only proves liquidity presence.
	buySymbol := buyAdapter.NativeSymbolFor(cand.Pair)
	sellSymbol := sellAdapter.NativeSymbolFor(cand.Pair)

	fetchCtx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	type obFetch struct {
		book venuedomain.OrderBook
		err  error
	}
	buyCh := make(chan obFetch, 1)
	sellCh := make(chan obFetch, 1)

	go func() {
		book, err := buyAdapter.FetchOrderBook(fetchCtx, buySymbol, c.orderBookDepth)
		buyCh <- obFetch{book: book, err: err}
	}()
	go func() {
		book, err := sellAdapter.FetchOrderBook(fetchCtx, sellSymbol, c.orderBookDepth)
		sellCh <- obFetch{book: book, err: err}
	}()

	buyFetch := <-buyCh
	sellFetch := <-sellCh

	if buyFetch.err != nil || sellFetch.err != nil || len(buyFetch.book.Asks) == 0 || len(sellFetch.book.Bids) == 0 {
		result.Status = depthdomain.StatusRejected
		result.Reason = depthdomain.ReasonFetchFailedOrEmptyOrderBook
		return result
	}

	execBuyPrice, ok := depthdomain.WalkVWAP(buyFetch.book.Asks, c.minExecutionNotional, c.maxBookDepthLevels)
	if !ok {
		result.Status = depthdomain.StatusRejected
		result.Reason = depthdomain.ReasonInsufficientDepth
		return result
	}
	execSellPrice, ok := depthdomain.WalkVWAP(sellFetch.book.Bids, c.minExecutionNotional, c.maxBookDepthLevels)
	if !ok {
		result.Status = depthdomain.StatusRejected
		result.Reason = depthdomain.ReasonInsufficientDepth
		return result
	}

	feeBuy := c.feeFor(cand.BuyVenue)
	feeSell := c.feeFor(cand.SellVenue)

	netSpreadPct, confirmed := depthdomain.ApplyFees(execBuyPrice, execSellPrice, feeBuy, feeSell, c.safetyBufferPct, c.targetNetProfitPct)

	result.ExecBuyPrice = execBuyPrice
	result.ExecSellPrice = execSellPrice
	result.ExecSpreadPctNet = netSpreadPct
	result.ExecNotionalUSDT = c.minExecutionNotional

	if !confirmed {
		result.Status = depthdomain.StatusRejected
		result.Reason = depthdomain.ReasonSpreadAfterFeesTooLow
		return result
	}

	result.Status = depthdomain.StatusConfirmed
	return result
}

func (c *Checker) feeFor(venue venuedomain.VenueId) decimal.Decimal {
	if fee, ok := c.takerFees[string(venue)]; ok {
		return fee
	}
	return DefaultTakerFeePct
}
