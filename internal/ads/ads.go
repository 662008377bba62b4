// Package ads throttles advertising spend by product margin.
package ads

import (
	"fmt"

	"github.com/Simplici0/marginguard/internal/pricing"
)

type Action string

const (
	ActionNone     Action = ""
	ActionPause    Action = "PAUSE_ADS"
	ActionLowerCPC Action = "LOWER_CPC"
	ActionBoost    Action = "BOOST_ADS"
)

type Policy struct {
	PauseMarginPct    float64 `json:"pause_margin_pct" yaml:"pause_margin_pct"`
	LowerCPCBandPct   float64 `json:"lower_cpc_band_pct" yaml:"lower_cpc_band_pct"`
	BoostMarginPct    float64 `json:"boost_margin_pct" yaml:"boost_margin_pct"`
	MinConversionRate float64 `json:"min_conversion_rate" yaml:"min_conversion_rate"`
	FlagMarginPct     float64 `json:"min_margin_pct_for_ads" yaml:"min_margin_pct_for_ads"`
}

func DefaultPolicy() Policy {
	return Policy{
		PauseMarginPct:    0.07,
		LowerCPCBandPct:   0.05,
		BoostMarginPct:    0.20,
		MinConversionRate: 0.02,
		FlagMarginPct:     0.05,
	}
}

type Adjustment struct {
	Action Action  `json:"action,omitempty"`
	Margin float64 `json:"margin"`
	Reason string  `json:"reason"`
}

// Adjust picks an ad action for margin. Conversion rate only matters for
// boosting.
func Adjust(margin, conversionRate float64, p Policy) Adjustment {
	adj := Adjustment{Margin: margin}
	switch {
	case margin < p.PauseMarginPct:
		adj.Action = ActionPause
		adj.Reason = fmt.Sprintf("margin %.4f < pause_threshold %.4f", margin, p.PauseMarginPct)
	case margin < p.PauseMarginPct+p.LowerCPCBandPct:
		adj.Action = ActionLowerCPC
		adj.Reason = fmt.Sprintf("margin %.4f low, lower CPC", margin)
	case margin >= p.BoostMarginPct && conversionRate >= p.MinConversionRate:
		adj.Action = ActionBoost
		adj.Reason = fmt.Sprintf("high margin %.4f and conversion %.4f, boost ads", margin, conversionRate)
	default:
		adj.Reason = "no_change"
	}
	return adj
}

// AdjustProduct evaluates the product at its current price.
func AdjustProduct(fin pricing.Financials, conversionRate float64, p Policy) Adjustment {
	return Adjust(pricing.MarginOf(fin.CurrentPrice, fin), conversionRate, p)
}

type SKUFlag struct {
	SKU    string `json:"sku"`
	Flag   Action `json:"flag,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Flag marks a SKU for pausing when its margin is under threshold.
func Flag(sku string, margin, threshold float64) SKUFlag {
	if margin < threshold {
		return SKUFlag{
			SKU:    sku,
			Flag:   ActionPause,
			Reason: fmt.Sprintf("margin_below_threshold (%.4f < %.4f)", margin, threshold),
		}
	}
	return SKUFlag{SKU: sku}
}
