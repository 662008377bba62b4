package pricing

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func TestMargin_SubtractsCostsAndFee(t *testing.T) {
	costs := Costs{UnitCost: 50, PackagingCost: 2, ShippingCost: 5, AdsCost: 3}

	nearlyEqual(t, "margin", Margin(100, costs, 0.15), 0.25)
	nearlyEqual(t, "margin without fee", Margin(100, costs, 0), 0.40)
}

func TestMargin_NonPositivePriceIsZero(t *testing.T) {
	costs := Costs{UnitCost: 50}

	nearlyEqual(t, "zero price", Margin(0, costs, 0.15), 0)
	nearlyEqual(t, "negative price", Margin(-10, costs, 0.15), 0)
}

func TestMargin_DecreasesWithEveryCostComponent(t *testing.T) {
	base := Costs{UnitCost: 10, PackagingCost: 1, ShippingCost: 2, AdsCost: 1}
	bump := []func(c Costs) Costs{
		func(c Costs) Costs { c.UnitCost += 1; return c },
		func(c Costs) Costs { c.PackagingCost += 1; return c },
		func(c Costs) Costs { c.ShippingCost += 1; return c },
		func(c Costs) Costs { c.AdsCost += 1; return c },
	}

	for i, next := range bump {
		before := Margin(40, base, 0.1)
		after := Margin(40, next(base), 0.1)
		if !(after < before) {
			t.Fatalf("component %d: margin %v should drop below %v", i, after, before)
		}
	}

	prev := Margin(40, base, 0)
	for fee := 0.05; fee < 1; fee += 0.05 {
		m := Margin(40, base, fee)
		if !(m < prev) {
			t.Fatalf("fee %v: margin %v should drop below %v", fee, m, prev)
		}
		prev = m
	}
}

func TestSolveFloor_FeeAwareInverse(t *testing.T) {
	floor := SolveFloor(Costs{UnitCost: 10}, 0.15, 0.20)

	// 10 / (1 - 0.15 - 0.20) = 15.3846..., cost floor 12
	nearlyEqual(t, "floor", floor.Price, 15.38)
	if floor.Unreachable {
		t.Fatalf("expected reachable floor")
	}
}

func TestSolveFloor_UnreachableFallsBackToCostFloor(t *testing.T) {
	for _, fee := range []float64{0.80, 0.95} {
		floor := SolveFloor(Costs{UnitCost: 10, ShippingCost: 4}, fee, 0.20)
		if !floor.Unreachable {
			t.Fatalf("fee %v: expected unreachable floor", fee)
		}
		nearlyEqual(t, "degraded floor", floor.Price, 12)
	}
}

func TestMinPriceForMargin_ReachesTargetWithinOneCent(t *testing.T) {
	cases := []struct {
		costs  Costs
		fee    float64
		target float64
	}{
		{Costs{UnitCost: 10}, 0.15, 0.20},
		{Costs{UnitCost: 50, PackagingCost: 2, ShippingCost: 9.9, AdsCost: 3.3}, 0.12, 0.10},
		{Costs{UnitCost: 7.77, ShippingCost: 1.01}, 0, 0.33},
		{Costs{UnitCost: 123.45, AdsCost: 10}, 0.08, 0.25},
	}

	for _, tc := range cases {
		price := MinPriceForMargin(tc.costs, tc.fee, tc.target)
		if got := Margin(price+0.01, tc.costs, tc.fee); got < tc.target {
			t.Fatalf("margin at %v+0.01 = %v, want >= %v", price, got, tc.target)
		}
		if price < CostFloor(tc.costs.UnitCost, tc.target) {
			t.Fatalf("price %v below cost floor", price)
		}
	}
}

func TestRound_HalfUpToCents(t *testing.T) {
	nearlyEqual(t, "2.345", Round(2.345), 2.35)
	nearlyEqual(t, "90-0.01", Round(90-0.01), 89.99)
	nearlyEqual(t, "nan", Round(math.NaN()), 0)
}

func TestFinancials_UnmarshalAppliesDefaults(t *testing.T) {
	var fin Financials
	if err := json.Unmarshal([]byte(`{"cost": 10, "price": 20}`), &fin); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	nearlyEqual(t, "fee", fin.MarketplaceFeePct, 0.15)
	nearlyEqual(t, "lead", fin.OurLeadTimeDays, 1)
	nearlyEqual(t, "rating", fin.OurRating, 5)
	nearlyEqual(t, "cost", fin.UnitCost, 10)

	var zeroFee Financials
	if err := json.Unmarshal([]byte(`{"cost": 10, "marketplace_fee_pct": 0}`), &zeroFee); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	nearlyEqual(t, "explicit fee", zeroFee.MarketplaceFeePct, 0)
}

func TestFinancials_Validate(t *testing.T) {
	if err := (Financials{Costs: Costs{UnitCost: 1}, MarketplaceFeePct: 0.1}).Validate(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := (Financials{MarketplaceFeePct: 1}).Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for fee 1, got %v", err)
	}
	if err := (Financials{Costs: Costs{AdsCost: -1}}).Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative ads cost, got %v", err)
	}
}
