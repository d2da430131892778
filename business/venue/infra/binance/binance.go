// Package binance implements the venue adapter for Binance spot.
package binance

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/fd1az/spreadscanner/business/venue/app"
	"github.com/fd1az/spreadscanner/business/venue/domain"
	"github.com/fd1az/spreadscanner/internal/apperror"
	"github.com/fd1az/spreadscanner/business/venue/infra/parseutil"
	"github.com/fd1az/spreadscanner/internal/circuitbreaker"
	"github.com/fd1az/spreadscanner/internal/httpclient"
	"github.com/fd1az/spreadscanner/internal/ratelimit"
)

const baseURL = "https://api.binance.com"

type tickerRow struct {
	Symbol      string `json:"symbol"`
	QuoteVolume string `json:"quoteVolume"`
}

type bookTickerRow struct {
	Symbol   string `json:"symbol"`
	BidPrice string `json:"bidPrice"`
	BidQty   string `json:"bidQty"`
	AskPrice string `json:"askPrice"`
	AskQty   string `json:"askQty"`
}

type depthResponse struct {
	Bids [][2]string `json:"bids"`
	Asks [][2]string `json:"asks"`
}

// Adapter implements app.Adapter for Binance.
type Adapter struct {
	client  httpclient.Client
	limiter *ratelimit.Limiter
	tickers *circuitbreaker.Breaker[[]tickerRow]
	book    *circuitbreaker.Breaker[[]bookTickerRow]
	depth   *circuitbreaker.Breaker[depthResponse]
}

// New builds a Binance adapter using client for transport, limited to
// requestsPerMinute requests per minute.
func New(client httpclient.Client, requestsPerMinute int) *Adapter {
	return &Adapter{
		client:  client,
		limiter: ratelimit.New(requestsPerMinute),
		tickers: circuitbreaker.New[[]tickerRow]("binance.tickers", 30*time.Second),
		book:    circuitbreaker.New[[]bookTickerRow]("binance.book", 30*time.Second),
		depth:   circuitbreaker.New[depthResponse]("binance.depth", 30*time.Second),
	}
}

func (a *Adapter) Venue() domain.VenueId { return domain.Binance }

func (a *Adapter) FetchTickers(ctx context.Context) ([]app.TickerRecord, error) {
	rows, err := a.tickers.Execute(ctx, func(ctx context.Context) ([]tickerRow, error) {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		var result []tickerRow
		resp, err := a.client.NewRequest().SetResult(&result).Get(ctx, baseURL+"/api/v3/ticker/24hr")
		if err != nil {
			return nil, apperror.External(apperror.CodeFetchFailure, "binance.24hr", err)
		}
		if resp.IsError() {
			return nil, apperror.External(apperror.CodeFetchFailure, "binance.24hr", nil)
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]app.TickerRecord, 0, len(rows))
	for _, r := range rows {
		vol, err := strconv.ParseFloat(r.QuoteVolume, 64)
		if err != nil {
			vol = 0
		}
		out = append(out, app.TickerRecord{
			Native:          domain.NativeSymbol(r.Symbol),
			QuoteVolumeUSDT: vol,
		})
	}
	return out, nil
}

func (a *Adapter) FetchTopOfBook(ctx context.Context) ([]app.TopOfBookRecord, error) {
	rows, err := a.book.Execute(ctx, func(ctx context.Context) ([]bookTickerRow, error) {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		var result []bookTickerRow
		resp, err := a.client.NewRequest().SetResult(&result).Get(ctx, baseURL+"/api/v3/ticker/bookTicker")
		if err != nil {
			return nil, apperror.External(apperror.CodeFetchFailure, "binance.bookTicker", err)
		}
		if resp.IsError() {
			return nil, apperror.External(apperror.CodeFetchFailure, "binance.bookTicker", nil)
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]app.TopOfBookRecord, 0, len(rows))
	for _, r := range rows {
		q, ok := parseQuote(r.BidPrice, r.AskPrice, r.BidQty, r.AskQty)
		if !ok {
			continue
		}
		out = append(out, app.TopOfBookRecord{Native: domain.NativeSymbol(r.Symbol), Quote: q})
	}
	return out, nil
}

func (a *Adapter) FetchOrderBook(ctx context.Context, native domain.NativeSymbol, depth int) (domain.OrderBook, error) {
	d, err := a.depth.Execute(ctx, func(ctx context.Context) (depthResponse, error) {
		if err := a.limiter.Wait(ctx); err != nil {
			return depthResponse{}, err
		}
		var result depthResponse
		resp, err := a.client.NewRequest().
			SetQueryParam("symbol", string(native)).
			SetQueryParam("limit", strconv.Itoa(depth)).
			SetResult(&result).
			Get(ctx, baseURL+"/api/v3/depth")
		if err != nil {
			return depthResponse{}, apperror.External(apperror.CodeFetchFailure, "binance.depth", err)
		}
		if resp.IsError() {
			return depthResponse{}, apperror.External(apperror.CodeFetchFailure, "binance.depth", nil)
		}
		return result, nil
	})
	if err != nil {
		return domain.OrderBook{}, err
	}

	return domain.OrderBook{
		Bids: levelsFrom(d.Bids, depth),
		Asks: levelsFrom(d.Asks, depth),
	}, nil
}

// NativeSymbolFor derives the Binance spelling of a canonical pair: no
// separator, e.g. "BTC_USDT" -> "BTCUSDT".
func (a *Adapter) NativeSymbolFor(pair domain.CanonicalPair) domain.NativeSymbol {
	return domain.NativeSymbol(strings.ReplaceAll(string(pair), "_", ""))
}

func parseQuote(bid, ask, bidSize, askSize string) (domain.Quote, bool) {
	q := domain.Quote{
		Bid:     parseutil.DecimalOr0(bid),
		Ask:     parseutil.DecimalOr0(ask),
		BidSize: parseutil.DecimalOr0(bidSize),
		AskSize: parseutil.DecimalOr0(askSize),
	}
	return q, q.Valid()
}

func levelsFrom(raw [][2]string, depth int) []domain.OrderBookLevel {
	if len(raw) > depth {
		raw = raw[:depth]
	}
	out := make([]domain.OrderBookLevel, 0, len(raw))
	for _, lvl := range raw {
		out = append(out, domain.OrderBookLevel{
			Price: parseutil.DecimalOr0(lvl[0]),
			Qty:   parseutil.DecimalOr0(lvl[1]),
		})
	}
	return out
}
