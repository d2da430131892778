// Package bybit implements the venue adapter for Bybit spot.
package bybit

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

const baseURL = "https://api.bybit.com"

type tickerRow struct {
	Symbol      string `json:"symbol"`
	Bid1Price   string `json:"bid1Price"`
	Bid1Size    string `json:"bid1Size"`
	Ask1Price   string `json:"ask1Price"`
	Ask1Size    string `json:"ask1Size"`
	Turnover24h string `json:"turnover24h"`
}

type tickerResult struct {
	List []tickerRow `json:"list"`
}

type tickerResponse struct {
	Result tickerResult `json:"result"`
}

type obResult struct {
	Bids [][2]string `json:"b"`
	Asks [][2]string `json:"a"`
}

type obResponse struct {
	Result obResult `json:"result"`
}

// Adapter implements app.Adapter for Bybit spot.
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
		tickers: circuitbreaker.New[tickerResponse]("bybit.tickers", 30*time.Second),
		depth:   circuitbreaker.New[obResponse]("bybit.depth", 30*time.Second),
	}
}

func (a *Adapter) Venue() domain.VenueId { return domain.Bybit }

func (a *Adapter) fetchTickers(ctx context.Context) (tickerResponse, error) {
	return a.tickers.Execute(ctx, func(ctx context.Context) (tickerResponse, error) {
		if err := a.limiter.Wait(ctx); err != nil {
			return tickerResponse{}, err
		}
		var result tickerResponse
		resp, err := a.client.NewRequest().
			SetQueryParam("category", "spot").
			SetResult(&result).
			Get(ctx, baseURL+"/v5/market/tickers")
		if err != nil {
			return tickerResponse{}, apperror.External(apperror.CodeFetchFailure, "bybit.tickers", err)
		}
		if resp.IsError() {
			return tickerResponse{}, apperror.External(apperror.CodeFetchFailure, "bybit.tickers", nil)
		}
		return result, nil
	})
}

func (a *Adapter) FetchTickers(ctx context.Context) ([]app.TickerRecord, error) {
	resp, err := a.fetchTickers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]app.TickerRecord, 0, len(resp.Result.List))
	for _, r := range resp.Result.List {
		vol, err := strconv.ParseFloat(r.Turnover24h, 64)
		if err != nil {
			vol = 0
		}
		out = append(out, app.TickerRecord{Native: domain.NativeSymbol(r.Symbol), QuoteVolumeUSDT: vol})
	}
	return out, nil
}

func (a *Adapter) FetchTopOfBook(ctx context.Context) ([]app.TopOfBookRecord, error) {
	resp, err := a.fetchTickers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]app.TopOfBookRecord, 0, len(resp.Result.List))
	for _, r := range resp.Result.List {
		q := domain.Quote{
			Bid:     parseutil.DecimalOr0(r.Bid1Price),
			Ask:     parseutil.DecimalOr0(r.Ask1Price),
			BidSize: parseutil.DecimalOr0(r.Bid1Size),
			AskSize: parseutil.DecimalOr0(r.Ask1Size),
		}
		if !q.Valid() {
			continue
		}
		out = append(out, app.TopOfBookRecord{Native: domain.NativeSymbol(r.Symbol), Quote: q})
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
			SetQueryParam("category", "spot").
			SetQueryParam("symbol", string(native)).
			SetQueryParam("limit", strconv.Itoa(depth)).
			SetResult(&result).
			Get(ctx, baseURL+"/v5/market/orderbook")
		if err != nil {
			return obResponse{}, apperror.External(apperror.CodeFetchFailure, "bybit.orderbook", err)
		}
		if httpResp.IsError() {
			return obResponse{}, apperror.External(apperror.CodeFetchFailure, "bybit.orderbook", nil)
		}
		return result, nil
	})
	if err != nil {
		return domain.OrderBook{}, err
	}

	return domain.OrderBook{
		Bids: levelsFrom(resp.Result.Bids, depth),
		Asks: levelsFrom(resp.Result.Asks, depth),
	}, nil
}

// NativeSymbolFor derives the Bybit spelling of a canonical pair: no
// separator, e.g. "BTC_USDT" -> "BTCUSDT".
func (a *Adapter) NativeSymbolFor(pair domain.CanonicalPair) domain.NativeSymbol {
	return domain.NativeSymbol(strings.ReplaceAll(string(pair), "_", ""))
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
