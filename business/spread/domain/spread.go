package domain

import (
	"time"

	"github.com/shopspring/decimal"

	venuedomain "github.com/fd1az/spreadscanner/business/venue/domain"
)

var hundred = decimal.NewFromInt(100)

// pct computes (sell-buy)/buy*100. buy must be positive; callers guard
// against a zero/non-positive denominator before calling this.
func pct(buy, sell decimal.Decimal) decimal.Decimal {
	return sell.Sub(buy).Div(buy).Mul(hundred)
}

// BestSpread computes both directions between two venues' quotes and
// returns both percentages (A->B first, then B->A); choosing the larger
// one and its buy/sell roles is left to EvaluatePair. Ok is false if any
// bid or ask of either quote is non-positive.
func BestSpread(aQuote, bQuote venuedomain.Quote) (spreadA2B, spreadB2A decimal.Decimal, ok bool) {
	if !aQuote.Ask.IsPositive() || !bQuote.Ask.IsPositive() || !aQuote.Bid.IsPositive() || !bQuote.Bid.IsPositive() {
		return decimal.Zero, decimal.Zero, false
	}
	// buy at A's ask, sell at B's bid
	spreadA2B = pct(aQuote.Ask, bQuote.Bid)
	// buy at B's ask, sell at A's bid
	spreadB2A = pct(bQuote.Ask, aQuote.Bid)
	return spreadA2B, spreadB2A, true
}

// EvaluatePair builds a Candidate for venues a/b on pair if their best
// spread clears minProfitPct, comparing on full, unrounded precision; the
// returned Candidate's percentages are rounded to 4 decimal places only
// for display/logging, never for the comparison that produced it.
func EvaluatePair(pair venuedomain.CanonicalPair, a, b venuedomain.VenueId, aQuote, bQuote venuedomain.Quote, minProfitPct decimal.Decimal, now time.Time) (cand Candidate, rawBestSpreadPct decimal.Decimal, ok bool) {
	spreadA2B, spreadB2A, ok := BestSpread(aQuote, bQuote)
	if !ok {
		return Candidate{}, decimal.Zero, false
	}

	buyVenue, sellVenue, best := a, b, spreadA2B
	if spreadB2A.GreaterThan(spreadA2B) {
		buyVenue, sellVenue, best = b, a, spreadB2A
	}

	if best.LessThan(minProfitPct) {
		return Candidate{}, decimal.Zero, false
	}

	return Candidate{
		ID:            NewID(),
		Pair:          pair,
		A:             a,
		B:             b,
		AQuote:        aQuote,
		BQuote:        bQuote,
		SpreadA2BPct:  spreadA2B.Round(4),
		SpreadB2APct:  spreadB2A.Round(4),
		BuyVenue:      buyVenue,
		SellVenue:     sellVenue,
		BestSpreadPct: best.Round(4),
		TsUTC:         now.UTC(),
	}, best, true
}
