// Package domain holds the Stage-1 output type: a spread Candidate signal.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	venuedomain "github.com/fd1az/spreadscanner/business/venue/domain"
)

// Candidate is a Stage-1 signal: a pair of venues where buying on one and
// selling on the other, at top-of-book prices, clears the configured
// minimum profit threshold before any fee or depth is considered.
type Candidate struct {
	ID   string
	Pair venuedomain.CanonicalPair

	A venuedomain.VenueId
	B venuedomain.VenueId

	AQuote venuedomain.Quote
	BQuote venuedomain.Quote

	SpreadA2BPct decimal.Decimal
	SpreadB2APct decimal.Decimal

	// BuyVenue/SellVenue name the direction with the larger spread.
	BuyVenue  venuedomain.VenueId
	SellVenue venuedomain.VenueId

	BestSpreadPct decimal.Decimal
	TsUTC         time.Time
}

// BestDirection renders the human-readable direction string, e.g.
// "buy_at binance, sell_at okx".
func (c Candidate) BestDirection() string {
	return fmt.Sprintf("buy_at %s, sell_at %s", c.BuyVenue, c.SellVenue)
}

// NewID returns a fresh correlation ID for a Candidate.
func NewID() string {
	return uuid.NewString()
}
