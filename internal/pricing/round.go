package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

const currencyPlaces = 2

func decFromFloat(val float64) decimal.Decimal {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(val)
}

func decToFloat(val decimal.Decimal) float64 {
	f, _ := val.Float64()
	return f
}

// Round rounds a currency amount to cents, half away from zero.
func Round(val float64) float64 {
	return decToFloat(decFromFloat(val).Round(currencyPlaces))
}
