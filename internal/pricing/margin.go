package pricing

import "github.com/shopspring/decimal"

// Margin returns the net profit fraction of price after costs and the
// marketplace fee. A non-positive price yields 0.
func Margin(price float64, costs Costs, feePct float64) float64 {
	if price <= 0 {
		return 0
	}
	marketplaceFee := price * feePct
	totalCosts := costs.Fixed() + marketplaceFee
	return (price - totalCosts) / price
}

// MarginOf is Margin evaluated with the product's own costs and fee.
func MarginOf(price float64, fin Financials) float64 {
	return Margin(price, fin.Costs, fin.MarketplaceFeePct)
}

// CostFloor is the degraded floor unitCost*(1+target), rounded to cents.
func CostFloor(unitCost, targetMarginPct float64) float64 {
	return Round(unitCost * (1 + targetMarginPct))
}

// Floor is the result of solving for the minimum price. Unreachable is set
// when fee and target margin together consume the whole price, in which case
// Price is only the conservative CostFloor.
type Floor struct {
	Price       float64 `json:"min_price"`
	Unreachable bool    `json:"unreachable"`
}

// SolveFloor inverts Margin: margin = 1 - fee - fixed/price >= target
// gives price >= fixed / (1 - fee - target).
func SolveFloor(costs Costs, feePct, targetMarginPct float64) Floor {
	costFloor := CostFloor(costs.UnitCost, targetMarginPct)
	denom := decimal.NewFromInt(1).Sub(decFromFloat(feePct)).Sub(decFromFloat(targetMarginPct))
	if !denom.IsPositive() {
		return Floor{Price: costFloor, Unreachable: true}
	}
	minPrice := decFromFloat(costs.Fixed()).Div(denom)
	withCost := decFromFloat(costs.UnitCost * (1 + targetMarginPct))
	return Floor{Price: decToFloat(decimal.Max(minPrice, withCost).Round(currencyPlaces))}
}

// MinPriceForMargin returns the lowest price achieving targetMarginPct.
func MinPriceForMargin(costs Costs, feePct, targetMarginPct float64) float64 {
	return SolveFloor(costs, feePct, targetMarginPct).Price
}
