// Package gate implements the venue adapter for Gate.io spot.
package gate

import (
	"context"
	"strconv"
	"time"

	"github.com/fd1az/spreadscanner/business/venue/app"
	"github.com/fd1az/spreadscanner/business/venue/domain"
	"github.com/fd1az/spreadscanner/business/venue/infra/parseutil"
	"github.com/fd1az/spreadscanner/internal/apperror"
	"github.com/fd1az/spreadscanner/internal/circuitbreaker"
	"github.com/fd1az/spreadscanner/internal/httpclient"
	"github.com/fd1az/spreadscanner/internal/ratelimit"
)

const baseURL = "https://api.gateio.ws"

type tickerRow struct {
	CurrencyPair string `json:"currency_pair"`
	HighestBid   string `json:"highest_bid"`
	LowestAsk    string `json:"lowest_ask"`
	QuoteVolume  string `json:"quote_volume"`
}

type obResponse struct {
	Bids [][2]string `json:"bids"`
	Asks [][2]string `json:"asks"`
}

// Adapter implements app.Adapter for Gate.io spot.
type Adapter struct {
	client  httpclient.Client
	limiter *ratelimit.Limiter
	tickers *circuitbreaker.Breaker[[]tickerRow]
	depth   *circuitbreaker.Breaker[obResponse]
}

func New(client httpclient.Client, requestsPerMinute int) *Adapter {
	return &Adapter{
		client:  client,
		limiter: ratelimit.New(requestsPerMinute),
		tickers: circuitbreaker.New[[]tickerRow]("gate.tickers", 30*time.Second),
		depth:   circuitbreaker.New[obResponse]("gate.depth", 30*time.Second),
	}
}

func (a *Adapter) Venue() domain.VenueId { return domain.Gate }

func (a *Adapter) fetchTickers(ctx context.Context) ([]tickerRow, error) {
	return a.tickers.Execute(ctx, func(ctx context.Context) ([]tickerRow, error) {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		var result []tickerRow
		resp, err := a.client.NewRequest().SetResult(&result).Get(ctx, baseURL+"/api/v4/spot/tickers")
		if err != nil {
			return nil, apperror.External(apperror.CodeFetchFailure, "gate.tickers", err)
		}
		if resp.IsError() {
			return nil, apperror.External(apperror.CodeFetchFailure, "gate.tickers", nil)
		}
		return result, nil
	})
}

func (a *Adapter) FetchTickers(ctx context.Context) ([]app.TickerRecord, error) {
	rows, err := a.fetchTickers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]app.TickerRecord, 0, len(rows))
	for _, r := range rows {
		vol, err := strconv.ParseFloat(r.QuoteVolume, 64)
		if err != nil {
			vol = 0
		}
		out = append(out, app.TickerRecord{Native: domain.NativeSymbol(r.CurrencyPair), QuoteVolumeUSDT: vol})
	}
	return out, nil
}

// FetchTopOfBook treats an empty-string bid or ask as an inactive market
// and skips the row rather than treating it as an error, matching the
// original collector's tolerance for Gate.io's resting-market rows.
func (a *Adapter) FetchTopOfBook(ctx context.Context) ([]app.TopOfBookRecord, error) {
	rows, err := a.fetchTickers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]app.TopOfBookRecord, 0, len(rows))
	for _, r := range rows {
		if r.HighestBid == "" || r.LowestAsk == "" {
			continue
		}
		q := domain.Quote{
			Bid: parseutil.DecimalOr0(r.HighestBid),
			Ask: parseutil.DecimalOr0(r.LowestAsk),
		}
		if !q.Valid() {
			continue
		}
		out = append(out, app.TopOfBookRecord{Native: domain.NativeSymbol(r.CurrencyPair), Quote: q})
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
			SetQueryParam("currency_pair", string(native)).
			SetQueryParam("limit", strconv.Itoa(depth)).
			SetResult(&result).
			Get(ctx, baseURL+"/api/v4/spot/order_book")
		if err != nil {
			return obResponse{}, apperror.External(apperror.CodeFetchFailure, "gate.order_book", err)
		}
		if httpResp.IsError() {
			return obResponse{}, apperror.External(apperror.CodeFetchFailure, "gate.order_book", nil)
		}
		return result, nil
	})
	if err != nil {
		return domain.OrderBook{}, err
	}

	return domain.OrderBook{
		Bids: levelsFrom(resp.Bids, depth),
		Asks: levelsFrom(resp.Asks, depth),
	}, nil
}

// NativeSymbolFor derives the Gate.io spelling of a canonical pair:
// underscore separated, which is already the canonical form, e.g.
// "BTC_USDT" -> "BTC_USDT".
func (a *Adapter) NativeSymbolFor(pair domain.CanonicalPair) domain.NativeSymbol {
	return domain.NativeSymbol(pair)
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
