package pricing

import (
	"encoding/json"
	"fmt"
)

// Policy configures the commercial decisions. It is supplied per call and
// never persisted.
type Policy struct {
	MinMarginPct        float64 `json:"min_margin_pct" yaml:"min_margin_pct"`
	MaxDiscountPct      float64 `json:"max_discount_pct" yaml:"max_discount_pct"`
	Epsilon             float64 `json:"epsilon" yaml:"epsilon"`
	AllowNightTests     bool    `json:"allow_night_tests" yaml:"allow_night_tests"`
	MinAllowedMarginPct float64 `json:"min_allowed_margin_pct" yaml:"min_allowed_margin_pct"`
	// NegotiationMarginPct is deliberately separate from MinMarginPct:
	// negotiation floors have historically used 10%, repricing 20%.
	NegotiationMarginPct float64 `json:"negotiation_margin_pct" yaml:"negotiation_margin_pct"`
	NightStartHour       int     `json:"night_start_hour" yaml:"night_start_hour"`
	NightEndHour         int     `json:"night_end_hour" yaml:"night_end_hour"`
}

// DefaultPolicy returns the stock policy.
func DefaultPolicy() Policy {
	return Policy{
		MinMarginPct:         0.20,
		MaxDiscountPct:       0.15,
		Epsilon:              0.01,
		AllowNightTests:      true,
		MinAllowedMarginPct:  0.10,
		NegotiationMarginPct: 0.10,
		NightStartHour:       0,
		NightEndHour:         5,
	}
}

// DecodePolicy applies a partial JSON document over base. Fields absent from
// raw keep the value from base.
func DecodePolicy(base Policy, raw []byte) (Policy, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return base, nil
	}
	out := base
	if err := json.Unmarshal(raw, &out); err != nil {
		return base, fmt.Errorf("%w: decode policy: %v", ErrInvalidInput, err)
	}
	if err := out.Validate(); err != nil {
		return base, err
	}
	return out, nil
}

// InNightWindow reports whether hour falls in the inclusive night-test window.
func (p Policy) InNightWindow(hour int) bool {
	if p.NightStartHour <= p.NightEndHour {
		return hour >= p.NightStartHour && hour <= p.NightEndHour
	}
	// window wraps midnight, e.g. 22..4
	return hour >= p.NightStartHour || hour <= p.NightEndHour
}

func (p Policy) Validate() error {
	fractions := []struct {
		name  string
		value float64
	}{
		{"min_margin_pct", p.MinMarginPct},
		{"max_discount_pct", p.MaxDiscountPct},
		{"min_allowed_margin_pct", p.MinAllowedMarginPct},
		{"negotiation_margin_pct", p.NegotiationMarginPct},
	}
	for _, f := range fractions {
		if f.value < 0 || f.value >= 1 {
			return fmt.Errorf("%w: %s must be in [0,1)", ErrInvalidInput, f.name)
		}
	}
	if p.Epsilon < 0 {
		return fmt.Errorf("%w: epsilon must be >= 0", ErrInvalidInput)
	}
	for _, h := range []int{p.NightStartHour, p.NightEndHour} {
		if h < 0 || h > 23 {
			return fmt.Errorf("%w: night window hours must be in [0,23]", ErrInvalidInput)
		}
	}
	return nil
}
