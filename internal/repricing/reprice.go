package repricing

import "github.com/Simplici0/marginguard/internal/pricing"

// Reprice computes a recommendation for fin given competitor offers. hour is
// the local hour of day used for the night-test window; pass it explicitly
// so the decision stays deterministic.
func Reprice(fin pricing.Financials, offers []Offer, policy pricing.Policy, hour int) Decision {
	baseline := pricing.CostFloor(fin.UnitCost, policy.MinMarginPct)
	d := Decision{NewPrice: fin.CurrentPrice, Actions: Actions{}, Baseline: baseline}

	sorted := sortedByPrice(offers)
	if len(sorted) == 0 {
		d.Reason = ReasonNoCompetition
	} else {
		d = decide(d, fin, sorted[0], policy, hour)
	}

	if d.NewPrice < baseline {
		d.NewPrice = baseline
		d.Actions = d.Actions.without(ActionKeepPrice).add(ActionApplyPrice).add(ActionCorrectToBaseline)
	}
	d.NewPrice = pricing.Round(d.NewPrice)
	return d
}

// decide walks the branches in order; the first match wins.
func decide(d Decision, fin pricing.Financials, best Offer, policy pricing.Policy, hour int) Decision {
	price := fin.CurrentPrice

	if best.Price >= price {
		if price <= d.Baseline {
			d.NewPrice = d.Baseline
			d.Reason = ReasonRaiseToMinMargin
		} else {
			d.NewPrice = pricing.Round(min(price*1.02, price+policy.Epsilon))
			d.Reason = ReasonCheapestMarginOptimization
		}
		d.Actions = Actions{ActionApplyPrice}
		return d
	}

	if best.LeadTimeDays-fin.OurLeadTimeDays >= 2 || best.Rating+0.1 < fin.OurRating {
		d.NewPrice = max(price, d.Baseline)
		d.Reason = ReasonCompetitorSlowerOrWorse
		d.Actions = Actions{ActionKeepPrice, ActionHighlightFastDelivery}
		return d
	}

	floor := max(d.Baseline, price*(1-policy.MaxDiscountPct))
	target := pricing.Round(min(price, max(floor, best.Price-policy.Epsilon)))

	switch {
	case policy.AllowNightTests && policy.InNightWindow(hour):
		d.NewPrice = target
		d.Reason = ReasonNightMicroTest
		d.Actions = Actions{ActionApplyPrice, ActionRunNightTest}
	case target < price:
		d.NewPrice = target
		d.Reason = ReasonBuyBoxRecovery
		d.Actions = Actions{ActionApplyPrice}
	default:
		d.NewPrice = price
		d.Reason = ReasonDiscountNotWorthwhile
		d.Actions = Actions{ActionKeepPrice}
	}
	return d
}
