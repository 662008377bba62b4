// Package logistics scores shipping carriers. The weighting is a fixed
// policy: changing a coefficient changes carrier preference and is a
// configuration change.
package logistics

import (
	"errors"
	"strings"

	"github.com/Simplici0/marginguard/internal/advisory"
	"github.com/Simplici0/marginguard/internal/pricing"
)

// ErrNoCarriers is returned when there is nothing to choose from.
var ErrNoCarriers = errors.New("no carriers available")

const defaultReliability = 0.9

type Carrier struct {
	Name         string   `json:"name"`
	BasePrice    float64  `json:"base_price"`
	PricePerKg   float64  `json:"price_per_kg"`
	LeadTimeDays float64  `json:"lead_time_days"`
	Reliability  *float64 `json:"reliability,omitempty"`
}

func (c Carrier) reliability() float64 {
	if c.Reliability == nil {
		return defaultReliability
	}
	return *c.Reliability
}

// Cost is the shipping cost of a parcel of weightKg.
func (c Carrier) Cost(weightKg float64) float64 {
	return c.BasePrice + c.PricePerKg*weightKg
}

// Weights are the coefficients of the carrier score. Lower scores win.
type Weights struct {
	Cost        float64 `json:"cost" yaml:"cost"`
	LeadTime    float64 `json:"lead_time" yaml:"lead_time"`
	Reliability float64 `json:"reliability" yaml:"reliability"`
}

func DefaultWeights() Weights {
	return Weights{Cost: 0.6, LeadTime: 1.5, Reliability: 10}
}

// Score rates a carrier for weightKg; lower is better.
func Score(c Carrier, weightKg float64, w Weights) float64 {
	return c.Cost(weightKg)*w.Cost + c.LeadTimeDays*w.LeadTime - c.reliability()*w.Reliability
}

// SelectBest returns the index of the minimum-score carrier. Ties go to the
// earlier carrier.
func SelectBest(weightKg float64, carriers []Carrier, w Weights) (int, error) {
	if len(carriers) == 0 {
		return -1, ErrNoCarriers
	}
	best := 0
	bestScore := Score(carriers[0], weightKg, w)
	for i := 1; i < len(carriers); i++ {
		if s := Score(carriers[i], weightKg, w); s < bestScore {
			best, bestScore = i, s
		}
	}
	return best, nil
}

const (
	SourceAdvisory      = "advisory"
	SourceDeterministic = "deterministic"

	reasonDeterministic = "deterministic_score"
)

// Pick is the carrier chosen for a parcel.
type Pick struct {
	CarrierName           string  `json:"carrier_name"`
	EstimatedCost         float64 `json:"estimated_cost"`
	EstimatedLeadTimeDays int     `json:"estimated_lead_time"`
	Reason                string  `json:"reason"`
	Source                string  `json:"source"`
}

// Choose uses the advisory carrier pick when one is available and falls back
// to deterministic scoring otherwise. Missing advisory cost or lead time are
// filled from the matching carrier when it is known.
func Choose(weightKg float64, carriers []Carrier, w Weights, s advisory.Suggestion) (Pick, error) {
	if p, ok := s.Payload(); ok && p.Carrier != "" {
		return advisoryPick(weightKg, carriers, p), nil
	}

	idx, err := SelectBest(weightKg, carriers, w)
	if err != nil {
		return Pick{}, err
	}
	c := carriers[idx]
	return Pick{
		CarrierName:           c.Name,
		EstimatedCost:         pricing.Round(c.Cost(weightKg)),
		EstimatedLeadTimeDays: int(c.LeadTimeDays),
		Reason:                reasonDeterministic,
		Source:                SourceDeterministic,
	}, nil
}

func advisoryPick(weightKg float64, carriers []Carrier, p advisory.Payload) Pick {
	pick := Pick{CarrierName: p.Carrier, Reason: p.Reason, Source: SourceAdvisory}
	for _, c := range carriers {
		if strings.EqualFold(c.Name, p.Carrier) {
			pick.CarrierName = c.Name
			pick.EstimatedCost = pricing.Round(c.Cost(weightKg))
			pick.EstimatedLeadTimeDays = int(c.LeadTimeDays)
			break
		}
	}
	if p.Cost != nil {
		pick.EstimatedCost = pricing.Round(*p.Cost)
	}
	if p.LeadTime != nil {
		pick.EstimatedLeadTimeDays = int(*p.LeadTime)
	}
	return pick
}

func reliability(v float64) *float64 { return &v }

// DefaultCarriers is the carrier table used when none is configured.
func DefaultCarriers() []Carrier {
	return []Carrier{
		{Name: "DHL", BasePrice: 10, PricePerKg: 3, LeadTimeDays: 2, Reliability: reliability(0.98)},
		{Name: "InPost", BasePrice: 6, PricePerKg: 2.5, LeadTimeDays: 3, Reliability: reliability(0.95)},
		{Name: "LocalCourier", BasePrice: 4, PricePerKg: 2, LeadTimeDays: 5, Reliability: reliability(0.9)},
	}
}
