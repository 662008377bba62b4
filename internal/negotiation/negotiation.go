// Package negotiation evaluates a buyer's counter-offer against the margin
// floor, using an advisory suggestion when one is available.
package negotiation

import (
	"fmt"

	"github.com/Simplici0/marginguard/internal/advisory"
	"github.com/Simplici0/marginguard/internal/pricing"
)

const (
	Accept       = advisory.DecisionAccept
	Reject       = advisory.DecisionReject
	CounterOffer = advisory.DecisionCounter
)

const reasonAdvisoryUnavailable = "advisory unavailable"

// Outcome is the answer to a negotiation request. An accepted or countered
// ProposedPrice always clears the negotiation margin.
type Outcome struct {
	Decision         string   `json:"decision"`
	ProposedPrice    *float64 `json:"proposed_price,omitempty"`
	Reason           string   `json:"reason,omitempty"`
	Message          string   `json:"message,omitempty"`
	MinPrice         float64  `json:"min_price"`
	FloorUnreachable bool     `json:"floor_unreachable,omitempty"`
	ClientOffer      float64  `json:"client_offer"`
	ClientMargin     float64  `json:"client_offer_margin"`
}

// Negotiate decides on clientOffer. The floor uses policy.NegotiationMarginPct,
// not the repricing margin.
func Negotiate(clientOffer float64, fin pricing.Financials, s advisory.Suggestion, policy pricing.Policy) Outcome {
	target := policy.NegotiationMarginPct
	floor := pricing.SolveFloor(fin.Costs, fin.MarketplaceFeePct, target)
	out := Outcome{
		MinPrice:         floor.Price,
		FloorUnreachable: floor.Unreachable,
		ClientOffer:      clientOffer,
		ClientMargin:     pricing.MarginOf(clientOffer, fin),
	}

	p, ok := s.Payload()
	if !ok {
		out.Decision = Reject
		out.Reason = reasonAdvisoryUnavailable
		if s.Status() == advisory.StatusFailed {
			out.Message = s.FailureReason()
		}
		return out
	}

	if p.ProposedPrice == nil {
		out.Decision = orDefault(p.Decision, Reject)
		out.Reason = p.Reason
		out.Message = p.Message
		return out
	}

	price := *p.ProposedPrice
	if price <= 0 {
		out.Decision = Reject
		out.ProposedPrice = &price
		out.Reason = fmt.Sprintf("proposed price %.2f is not positive", price)
		out.Message = "Proposed price below minimal margin"
		return out
	}
	verdict := pricing.Enforce(price, fin, target)
	if !verdict.OK {
		out.Decision = Reject
		out.ProposedPrice = &price
		out.Reason = fmt.Sprintf("proposed price %.2f below minimal margin: %.4f < %.4f (shortfall %.4f)",
			price, verdict.Margin, target, target-verdict.Margin)
		out.Message = "Proposed price below minimal margin"
		return out
	}

	out.Decision = orDefault(p.Decision, CounterOffer)
	out.ProposedPrice = &price
	out.Reason = p.Reason
	out.Message = p.Message
	return out
}

func orDefault(decision, fallback string) string {
	if decision == "" {
		return fallback
	}
	return decision
}
