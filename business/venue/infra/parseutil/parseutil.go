// Package parseutil holds tolerant numeric parsing shared by every venue
// adapter: malformed or absent numeric fields become zero rather than an
// error, so one bad record never aborts a whole fetch.
package parseutil

import "github.com/shopspring/decimal"

// DecimalOr0 parses s as a decimal, returning decimal.Zero if s is empty
// or malformed.
func DecimalOr0(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
