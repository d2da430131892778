// Package domain holds the cross-venue market types shared by every stage
// of the scanning pipeline: canonical pairs, native symbols, quotes and
// order books.
package domain

// VenueId identifies one of the supported spot exchanges.
type VenueId string

const (
	Binance VenueId = "binance"
	Bybit   VenueId = "bybit"
	OKX     VenueId = "okx"
	Gate    VenueId = "gate"
	KuCoin  VenueId = "kucoin"
)

// AllVenues lists every supported venue in a fixed, deterministic order.
// The order doubles as the tie-break rule when two venue pairs tie on
// best spread (see the Stage-1 Scanner's bestCandidateFor).
var AllVenues = []VenueId{Binance, Bybit, OKX, Gate, KuCoin}

// NativeSymbol is a venue's own spelling of a trading pair, e.g. "BTCUSDT"
// on Binance or "BTC-USDT" on OKX. Never compare a NativeSymbol from one
// venue against a NativeSymbol from another.
type NativeSymbol string
