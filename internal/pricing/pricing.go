// Package pricing holds the margin arithmetic shared by every commercial
// decision: the margin formula, its inverse (the price floor) and the gate
// that validates a candidate price against a minimum margin.
package pricing

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidInput marks financial or policy input that fails validation.
var ErrInvalidInput = errors.New("invalid input")

const (
	defaultMarketplaceFeePct = 0.15
	defaultOurLeadTimeDays   = 1
	defaultOurRating         = 5.0
)

// Costs is the per-unit cost breakdown of a product, excluding the
// marketplace fee which depends on the sale price.
type Costs struct {
	UnitCost      float64 `json:"cost"`
	PackagingCost float64 `json:"packaging_cost"`
	ShippingCost  float64 `json:"shipping_cost"`
	AdsCost       float64 `json:"ads_cost"`
}

// Fixed returns the sum of all price-independent costs.
func (c Costs) Fixed() float64 {
	return c.UnitCost + c.PackagingCost + c.ShippingCost + c.AdsCost
}

// Financials is an immutable snapshot of a product's economics passed into
// every decision call.
type Financials struct {
	Costs
	MarketplaceFeePct float64 `json:"marketplace_fee_pct"`
	CurrentPrice      float64 `json:"price"`
	OurLeadTimeDays   float64 `json:"our_lead_time_days"`
	OurRating         float64 `json:"our_rating"`
}

// UnmarshalJSON fills fields missing from the document with marketplace
// defaults: a 15% fee, one day of lead time and a 5.0 rating.
func (f *Financials) UnmarshalJSON(data []byte) error {
	type plain Financials
	out := plain{
		MarketplaceFeePct: defaultMarketplaceFeePct,
		OurLeadTimeDays:   defaultOurLeadTimeDays,
		OurRating:         defaultOurRating,
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*f = Financials(out)
	return nil
}

// Validate checks the ranges the decision functions assume. The decision
// functions themselves never call it.
func (f Financials) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"cost", f.UnitCost},
		{"packaging_cost", f.PackagingCost},
		{"shipping_cost", f.ShippingCost},
		{"ads_cost", f.AdsCost},
		{"price", f.CurrentPrice},
		{"our_lead_time_days", f.OurLeadTimeDays},
	}
	for _, field := range fields {
		if field.value < 0 {
			return fmt.Errorf("%w: %s must be >= 0", ErrInvalidInput, field.name)
		}
	}
	if f.MarketplaceFeePct < 0 || f.MarketplaceFeePct >= 1 {
		return fmt.Errorf("%w: marketplace_fee_pct must be in [0,1)", ErrInvalidInput)
	}
	return nil
}
