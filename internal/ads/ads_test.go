package ads

import (
	"testing"

	"github.com/Simplici0/marginguard/internal/pricing"
)

func TestAdjust_Thresholds(t *testing.T) {
	p := DefaultPolicy()
	cases := []struct {
		margin, conv float64
		want         Action
	}{
		{-0.1, 0.5, ActionPause},
		{0.069, 0.5, ActionPause},
		{0.07, 0, ActionLowerCPC},
		{0.119, 0.5, ActionLowerCPC},
		{0.15, 0.5, ActionNone},
		{0.20, 0.02, ActionBoost},
		{0.35, 0.01, ActionNone},
	}
	for _, tc := range cases {
		got := Adjust(tc.margin, tc.conv, p)
		if got.Action != tc.want {
			t.Fatalf("Adjust(%v, %v) = %q, want %q", tc.margin, tc.conv, got.Action, tc.want)
		}
		if got.Reason == "" {
			t.Fatalf("Adjust(%v, %v) has empty reason", tc.margin, tc.conv)
		}
	}
}

func TestAdjustProduct_UsesMarginAtCurrentPrice(t *testing.T) {
	fin := pricing.Financials{
		Costs:             pricing.Costs{UnitCost: 50, ShippingCost: 10},
		MarketplaceFeePct: 0.15,
		CurrentPrice:      100,
	}

	// margin 0.25
	if got := AdjustProduct(fin, 0.05, DefaultPolicy()); got.Action != ActionBoost {
		t.Fatalf("action = %q, want BOOST_ADS", got.Action)
	}

	fin.CurrentPrice = 75
	// margin (75-60-11.25)/75 = 0.05
	if got := AdjustProduct(fin, 0.05, DefaultPolicy()); got.Action != ActionPause {
		t.Fatalf("action = %q, want PAUSE_ADS", got.Action)
	}
}

func TestFlag(t *testing.T) {
	if f := Flag("sku-1", 0.01, 0.05); f.Flag != ActionPause || f.SKU != "sku-1" {
		t.Fatalf("unexpected flag: %+v", f)
	}
	if f := Flag("sku-2", 0.05, 0.05); f.Flag != ActionNone {
		t.Fatalf("unexpected flag: %+v", f)
	}
}
