package domain

import "github.com/shopspring/decimal"

// Quote is a single venue's top-of-book for one symbol. Bid and Ask are
// strictly positive for a valid quote; malformed or zero-priced rows are
// discarded by the adapter before a Quote is ever constructed.
type Quote struct {
	Bid     decimal.Decimal
	Ask     decimal.Decimal
	BidSize decimal.Decimal
	AskSize decimal.Decimal
}

// Valid reports whether the quote has strictly positive bid and ask.
// bid <= ask is expected of a healthy market but is not enforced here;
// callers that need a crossed-book guard should check it explicitly.
func (q Quote) Valid() bool {
	return q.Bid.IsPositive() && q.Ask.IsPositive()
}

// QuoteBook holds one venue's top-of-book quotes for every symbol fetched
// in a single round.
type QuoteBook map[NativeSymbol]Quote

// OrderBookLevel is one price/quantity rung of an order book.
type OrderBookLevel struct {
	Price decimal.Decimal
	Qty   decimal.Decimal
}

// OrderBook holds a venue's depth for one symbol, truncated to the
// configured depth. Bids are sorted descending by price, asks ascending.
type OrderBook struct {
	Bids []OrderBookLevel
	Asks []OrderBookLevel
}
