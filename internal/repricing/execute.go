package repricing

import (
	"fmt"

	"github.com/Simplici0/marginguard/internal/advisory"
	"github.com/Simplici0/marginguard/internal/pricing"
)

const (
	SourceDeterministic = "deterministic"
	SourceAdvisory      = "advisory"
)

// Execution is the final price chosen from an advisory suggestion and the
// deterministic decision.
type Execution struct {
	Deterministic    Decision        `json:"deterministic"`
	AdvisoryStatus   string          `json:"advisory_status"`
	Candidate        float64         `json:"candidate"`
	Source           string          `json:"source"`
	CandidateVerdict pricing.Verdict `json:"candidate_verdict"`
	FinalPrice       float64         `json:"final_price"`
	MarginOK         bool            `json:"margin_ok"`
	Margin           float64         `json:"margin"`
	FellBack         bool            `json:"fell_back"`
	Note             string          `json:"note"`
}

// Execute prefers the advisory new_price when one is available and safe.
// An unsafe advisory price is replaced by the gated deterministic price.
func Execute(fin pricing.Financials, offers []Offer, policy pricing.Policy, hour int, s advisory.Suggestion) Execution {
	det := Reprice(fin, offers, policy, hour)

	candidate, source := det.NewPrice, SourceDeterministic
	if p, ok := s.Payload(); ok && p.NewPrice != nil {
		candidate, source = *p.NewPrice, SourceAdvisory
	}

	verdict := pricing.Enforce(candidate, fin, policy.MinAllowedMarginPct)
	final := verdict
	ex := Execution{
		Deterministic:    det,
		AdvisoryStatus:   s.Status().String(),
		Candidate:        candidate,
		Source:           source,
		CandidateVerdict: verdict,
		Note:             fmt.Sprintf("chosen_candidate=%.2f; margin=%.4f", candidate, verdict.Margin),
	}

	// Margin is 0 at non-positive prices, which passes a 0 threshold.
	if source == SourceAdvisory && (!verdict.OK || candidate <= 0) {
		final = pricing.Enforce(det.NewPrice, fin, policy.MinAllowedMarginPct)
		ex.FellBack = true
		ex.Note += fmt.Sprintf("; fallback_to_deterministic=%.2f", final.SafePrice)
	}

	ex.FinalPrice = final.SafePrice
	ex.MarginOK = final.OK
	ex.Margin = final.Margin
	return ex
}
