// Package okx implements the venue adapter for OKX spot.
package okx

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/fd1az/spreadscanner/business/venue/app"
	"github.com/fd1az/spreadscanner/business/venue/domain"
	"github.com/fd1az/spreadscanner/business/venue/infra/parseutil"
	"github.com/fd1az/spreadscanner/internal/apperror"
	"github.com/fd1az/spreadscanner/internal/circuitbreaker"
	"github.com/fd1az/spreadscanner/internal/httpclient"
	"github.com/fd1az/spreadscanner/internal/ratelimit"
)

const baseURL = "https://www.okx.com"

type tickerRow struct {
	InstId      string `json:"instId"`
	BidPx       string `json:"bidPx"`
	BidSz       string `json:"bidSz"`
	AskPx       string `json:"askPx"`
	AskSz       string `json:"askSz"`
	VolCcy24h   string `json:"volCcy24h"`
}

type tickerResponse struct {
	Data []tickerRow `json:"data"`
}

// obRow holds OKX's documented order-book level shape per side:
// [price, size, number of liquidated orders, number of orders]. Only the
// first two elements are read; treating any other position as price/size
// is the index mix-up spec calls out to avoid.
type obRow struct {
	Bids [][4]string `json:"bids"`
	Asks [][4]string `json:"asks"`
}

type obResponse struct {
	Data []obRow `json:"data"`
}

// Adapter implements app.Adapter for OKX spot.
type Adapter struct {
	client  httpclient.Client
	limiter *ratelimit.Limiter
	tickers *circuitbreaker.Breaker[tickerResponse]
	depth   *circuitbreaker.Breaker[obResponse]
}

func New(client httpclient.Client, requestsPerMinute int) *Adapter {
	return &Adapter{
		client:  client,
		limiter: ratelimit.New(requestsPerMinute),
		tickers: circuitbreaker.New[tickerResponse]("okx.tickers", 30*time.Second),
		depth:   circuitbreaker.New[obResponse]("okx.depth", 30*time.Second),
	}
}

func (a *Adapter) Venue() domain.VenueId { return domain.OKX }

func (a *Adapter) fetchTickers(ctx context.Context) (tickerResponse, error) {
	return a.tickers.Execute(ctx, func(ctx context.Context) (tickerResponse, error) {
		if err := a.limiter.Wait(ctx); err != nil {
			return tickerResponse{}, err
		}
		var result tickerResponse
		resp, err := a.client.NewRequest().
			SetQueryParam("instType", "SPOT").
			SetResult(&result).
			Get(ctx, baseURL+"/api/v5/market/tickers")
		if err != nil {
			return tickerResponse{}, apperror.External(apperror.CodeFetchFailure, "okx.tickers", err)
		}
		if resp.IsError() {
			return tickerResponse{}, apperror.External(apperror.CodeFetchFailure, "okx.tickers", nil)
		}
		return result, nil
	})
}

func (a *Adapter) FetchTickers(ctx context.Context) ([]app.TickerRecord, error) {
	resp, err := a.fetchTickers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]app.TickerRecord, 0, len(resp.Data))
	for _, r := range resp.Data {
		vol, err := strconv.ParseFloat(r.VolCcy24h, 64)
		if err != nil {
			vol = 0
		}
		out = append(out, app.TickerRecord{Native: domain.NativeSymbol(r.InstId), QuoteVolumeUSDT: vol})
	}
	return out, nil
}

func (a *Adapter) FetchTopOfBook(ctx context.Context) ([]app.TopOfBookRecord, error) {
	resp, err := a.fetchTickers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]app.TopOfBookRecord, 0, len(resp.Data))
	for _, r := range resp.Data {
		q := domain.Quote{
			Bid:     parseutil.DecimalOr0(r.BidPx),
			Ask:     parseutil.DecimalOr0(r.AskPx),
			BidSize: parseutil.DecimalOr0(r.BidSz),
			AskSize: parseutil.DecimalOr0(r.AskSz),
		}
		if !q.Valid() {
			continue
		}
		out = append(out, app.TopOfBookRecord{Native: domain.NativeSymbol(r.InstId), Quote: q})
	}
	return out, nil
}

func (a *Adapter) FetchOrderBook(ctx context.Context, native domain.NativeSymbol, depth int) (domain.OrderBook, error) {
	resp, err := a.depth.Execute(ctx, func(ctx context.Context) (obResponse, error) {
		if err := a.limiter.Wait(ctx); err != nil {
			return obResponse{}, err
		}
		var result obResponse
		httpResp, err := a.client.NewRequest().
			SetQueryParam("instId", string(native)).
			SetQueryParam("sz", strconv.Itoa(depth)).
			SetResult(&result).
			Get(ctx, baseURL+"/api/v5/market/books")
		if err != nil {
			return obResponse{}, apperror.External(apperror.CodeFetchFailure, "okx.books", err)
		}
		if httpResp.IsError() {
			return obResponse{}, apperror.External(apperror.CodeFetchFailure, "okx.books", nil)
		}
		return result, nil
	})
	if err != nil {
		return domain.OrderBook{}, err
	}
	if len(resp.Data) == 0 {
		return domain.OrderBook{}, apperror.New(apperror.CodeEmptyOrderBook, apperror.WithContext("okx"))
	}

	row := resp.Data[0]
	return domain.OrderBook{
		Bids: levelsFrom(row.Bids, depth),
		Asks: levelsFrom(row.Asks, depth),
	}, nil
}

// NativeSymbolFor derives the OKX spelling of a canonical pair: dash
// separated, e.g. "BTC_USDT" -> "BTC-USDT".
func (a *Adapter) NativeSymbolFor(pair domain.CanonicalPair) domain.NativeSymbol {
	return domain.NativeSymbol(strings.ReplaceAll(string(pair), "_", "-"))
}

func levelsFrom(raw [][4]string, depth int) []domain.OrderBookLevel {
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
