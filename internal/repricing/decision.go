// Package repricing recommends a new listing price from the cheapest
// competitor offer, the product's cost floor and a policy.
package repricing

import (
	"encoding/json"
	"slices"
)

// Action is a follow-up step attached to a decision.
type Action string

const (
	ActionKeepPrice             Action = "keep_price"
	ActionApplyPrice            Action = "apply_price"
	ActionRunNightTest          Action = "run_night_test"
	ActionHighlightFastDelivery Action = "highlight_fast_delivery"
	ActionCorrectToBaseline     Action = "correct_to_baseline"
)

// Actions is an ordered set of follow-up actions.
type Actions []Action

func (a Actions) Has(action Action) bool {
	return slices.Contains(a, action)
}

func (a Actions) add(action Action) Actions {
	if a.Has(action) {
		return a
	}
	return append(a, action)
}

func (a Actions) without(action Action) Actions {
	return slices.DeleteFunc(a, func(x Action) bool { return x == action })
}

func (a Actions) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Action(a))
}

// Reason names the branch that produced a decision.
type Reason string

const (
	ReasonNoCompetition              Reason = "NO_COMPETITION"
	ReasonCompetitorSlowerOrWorse    Reason = "COMPETITOR_SLOWER_OR_WORSE_RATED"
	ReasonNightMicroTest             Reason = "NIGHT_MICRO_TEST"
	ReasonBuyBoxRecovery             Reason = "BUYBOX_RECOVERY"
	ReasonDiscountNotWorthwhile      Reason = "DISCOUNT_NOT_WORTHWHILE"
	ReasonRaiseToMinMargin           Reason = "RAISE_TO_MIN_MARGIN"
	ReasonCheapestMarginOptimization Reason = "CHEAPEST_MARGIN_OPTIMIZATION"
)

// Decision is a repricing recommendation. NewPrice is never below Baseline.
type Decision struct {
	NewPrice float64 `json:"new_price"`
	Reason   Reason  `json:"reason"`
	Actions  Actions `json:"actions"`
	Baseline float64 `json:"baseline"`
}
