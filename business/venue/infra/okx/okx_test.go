package okx

import (
	"testing"

	"github.com/fd1az/spreadscanner/business/venue/domain"
)

func TestNativeSymbolFor(t *testing.T) {
	a := &Adapter{}
	if got := a.NativeSymbolFor("BTC_USDT"); got != domain.NativeSymbol("BTC-USDT") {
		t.Fatalf("NativeSymbolFor = %q, want BTC-USDT", got)
	}
}

func TestOrderBookLevelIndices(t *testing.T) {
	// OKX documents order book levels as [price, size, liqOrders, orderCount].
	// Only the first two positions are ever read as price/size.
	row := [4]string{"10.5", "2", "0", "1"}
	lvl := levelsFrom([][4]string{row}, 10)[0]
	if lvl.Price.String() != "10.5" || lvl.Qty.String() != "2" {
		t.Fatalf("levelsFrom misread level: %+v", lvl)
	}
}
