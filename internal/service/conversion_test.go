package service

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestConvertToBase(t *testing.T) {
	cases := []struct {
		qty  int
		rate string
		want string
	}{
		{3, "20", "60"},
		{7, "0.25", "1.75"},
		{3, "0.1", "0.3"},
		{1, "12.3456", "12.3456"},
	}
	for _, tc := range cases {
		got := ConvertToBase(tc.qty, decimal.RequireFromString(tc.rate))
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Errorf("%d × %s: want %s, got %s", tc.qty, tc.rate, tc.want, got)
		}
	}
}

func TestFormatQty(t *testing.T) {
	if got := FormatQty(decimal.RequireFromString("40.0000"), "KG"); got != "40 KG" {
		t.Fatalf("got %q", got)
	}
}
