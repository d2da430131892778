package binance

import (
	"testing"

	"github.com/fd1az/spreadscanner/business/venue/domain"
)

func TestNativeSymbolFor(t *testing.T) {
	a := &Adapter{}
	if got := a.NativeSymbolFor("BTC_USDT"); got != domain.NativeSymbol("BTCUSDT") {
		t.Fatalf("NativeSymbolFor = %q, want BTCUSDT", got)
	}
}
