package domain

import (
	"time"

	"github.com/shopspring/decimal"

	venuedomain "github.com/fd1az/spreadscanner/business/venue/domain"
)

// Status is the outcome of a Stage-2 depth check.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
)

// Rejection reasons, used as the Reason field on a rejected DepthResult.
const (
	ReasonFetchFailedOrEmptyOrderBook = "fetch_failed_or_empty_orderbook"
	ReasonInsufficientDepth           = "insufficient_depth"
	ReasonSpreadAfterFeesTooLow       = "spread_after_fees_too_low"
)

// DepthResult is the Stage-2 outcome for one Candidate.
type DepthResult struct {
	ID   string
	Pair venuedomain.CanonicalPair

	BuyVenue  venuedomain.VenueId
	SellVenue venuedomain.VenueId

	Status Status
	Reason string

	ExecBuyPrice     decimal.Decimal
	ExecSellPrice    decimal.Decimal
	ExecSpreadPctNet decimal.Decimal
	ExecNotionalUSDT decimal.Decimal

	TsUTC time.Time
}

var hundred = decimal.NewFromInt(100)

// ApplyFees computes the net spread after taker fees on both legs and the
// safety buffer, and decides confirm/reject against targetNetProfitPct.
//
// effective_buy = exec_buy_price * (1 + feeBuyPct/100)
// effective_sell = exec_sell_price * (1 - feeSellPct/100)
// net_spread_pct = (effective_sell-effective_buy)/effective_buy*100 - safetyBufferPct
func ApplyFees(execBuyPrice, execSellPrice, feeBuyPct, feeSellPct, safetyBufferPct, targetNetProfitPct decimal.Decimal) (netSpreadPct decimal.Decimal, confirmed bool) {
	effectiveBuy := execBuyPrice.Mul(decimal.NewFromInt(1).Add(feeBuyPct.Div(hundred)))
	effectiveSell := execSellPrice.Mul(decimal.NewFromInt(1).Sub(feeSellPct.Div(hundred)))

	grossSpreadPct := effectiveSell.Sub(effectiveBuy).Div(effectiveBuy).Mul(hundred)
	netSpreadPct = grossSpreadPct.Sub(safetyBufferPct)

	return netSpreadPct, netSpreadPct.GreaterThanOrEqual(targetNetProfitPct)
}
