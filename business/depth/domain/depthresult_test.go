package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestApplyFeesConfirmsWhenNetSpreadClearsTarget(t *testing.T) {
	// exec_buy=100, exec_sell=100.8, fee_X=fee_Y=0.10, safety_buffer=0.30,
	// target=0.20: effective_buy=100.1, effective_sell=100.6992,
	// gross ≈ 0.599%, net ≈ 0.299% >= 0.20% -> confirmed.
	net, confirmed := ApplyFees(
		decimal.RequireFromString("100"),
		decimal.RequireFromString("100.8"),
		decimal.RequireFromString("0.10"),
		decimal.RequireFromString("0.10"),
		decimal.RequireFromString("0.30"),
		decimal.RequireFromString("0.20"),
	)

	if !confirmed {
		t.Fatalf("ApplyFees() confirmed = false, want true (net=%s)", net)
	}
	want := decimal.RequireFromString("0.299")
	if diff := net.Sub(want).Abs(); diff.GreaterThan(decimal.RequireFromString("0.001")) {
		t.Fatalf("net spread = %s, want ~%s", net, want)
	}
}

func TestApplyFeesRejectsWhenFeesErodeSpread(t *testing.T) {
	net, confirmed := ApplyFees(
		decimal.RequireFromString("100"),
		decimal.RequireFromString("100.2"),
		decimal.RequireFromString("0.10"),
		decimal.RequireFromString("0.10"),
		decimal.RequireFromString("0.30"),
		decimal.RequireFromString("0.20"),
	)
	if confirmed {
		t.Fatalf("ApplyFees() confirmed = true, want false (net=%s)", net)
	}
}
