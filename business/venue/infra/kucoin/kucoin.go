// Package kucoin implements the venue adapter for KuCoin spot.
package kucoin

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

const baseURL = "https://api.kucoin.com"

type tickerRow struct {
	Symbol   string  `json:"symbol"`
	Buy      *string `json:"buy"`
	Sell     *string `json:"sell"`
	VolValue string  `json:"volValue"`
}

type tickerData struct {
	Ticker []tickerRow `json:"ticker"`
}

type tickerResponse struct {
	Data tickerData `json:"data"`
}

type obData struct {
	Bids [][2]string `json:"bids"`
	Asks [][2]string `json:"asks"`
}

type obResponse struct {
	Data obData `json:"data"`
}

// Adapter implements app.Adapter for KuCoin spot.
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
		tickers: circuitbreaker.New[tickerResponse]("kucoin.tickers", 30*time.Second),
		depth:   circuitbreaker.New[obResponse]("kucoin.depth", 30*time.Second),
	}
}

func (a *Adapter) Venue() domain.VenueId { return domain.KuCoin }

func (a *Adapter) fetchTickers(ctx context.Context) (tickerResponse, error) {
	return a.tickers.Execute(ctx, func(ctx context.Context) (tickerResponse, error) {
		if err := a.limiter.Wait(ctx); err != nil {
			return tickerResponse{}, err
		}
		var result tickerResponse
		resp, err := a.client.NewRequest().SetResult(&result).Get(ctx, baseURL+"/api/v1/market/allTickers")
		if err != nil {
			return tickerResponse{}, apperror.External(apperror.CodeFetchFailure, "kucoin.allTickers", err)
		}
		if resp.IsError() {
			return tickerResponse{}, apperror.External(apperror.CodeFetchFailure, "kucoin.allTickers", nil)
		}
		return result, nil
	})
}

func (a *Adapter) FetchTickers(ctx context.Context) ([]app.TickerRecord, error) {
	resp, err := a.fetchTickers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]app.TickerRecord, 0, len(resp.Data.Ticker))
	for _, r := range resp.Data.Ticker {
		vol, err := strconv.ParseFloat(r.VolValue, 64)
		if err != nil {
			vol = 0
		}
		out = append(out, app.TickerRecord{Native: domain.NativeSymbol(r.Symbol), QuoteVolumeUSDT: vol})
	}
	return out, nil
}

// FetchTopOfBook treats a null buy or sell field as an inactive market and
// skips the row, matching the original collector's tolerance for KuCoin's
// resting-market rows.
func (a *Adapter) FetchTopOfBook(ctx context.Context) ([]app.TopOfBookRecord, error) {
	resp, err := a.fetchTickers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]app.TopOfBookRecord, 0, len(resp.Data.Ticker))
	for _, r := range resp.Data.Ticker {
		if r.Buy == nil || r.Sell == nil {
			continue
		}
		q := domain.Quote{
			Bid: parseutil.DecimalOr0(*r.Buy),
			Ask: parseutil.DecimalOr0(*r.Sell),
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
			SetQueryParam("symbol", string(native)).
			SetResult(&result).
			Get(ctx, baseURL+"/api/v1/market/orderbook/level2_100")
		if err != nil {
			return obResponse{}, apperror.External(apperror.CodeFetchFailure, "kucoin.orderbook", err)
		}
		if httpResp.IsError() {
			return obResponse{}, apperror.External(apperror.CodeFetchFailure, "kucoin.orderbook", nil)
		}
		return result, nil
	})
	if err != nil {
		return domain.OrderBook{}, err
	}

	return domain.OrderBook{
		Bids: levelsFrom(resp.Data.Bids, depth),
		Asks: levelsFrom(resp.Data.Asks, depth),
	}, nil
}

// NativeSymbolFor derives the KuCoin spelling of a canonical pair: dash
// separated, e.g. "BTC_USDT" -> "BTC-USDT".
func (a *Adapter) NativeSymbolFor(pair domain.CanonicalPair) domain.NativeSymbol {
	return domain.NativeSymbol(strings.ReplaceAll(string(pair), "_", "-"))
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
