package logistics

import (
	"errors"
	"math"
	"testing"

	"github.com/Simplici0/marginguard/internal/advisory"
)

func TestScore_FixedWeights(t *testing.T) {
	c := DefaultCarriers()[0]

	// cost 10+3*2=16 -> 16*0.6 + 2*1.5 - 0.98*10
	got := Score(c, 2, DefaultWeights())
	if math.Abs(got-2.8) > 1e-9 {
		t.Fatalf("score = %v, want 2.8", got)
	}

	c.Reliability = nil
	got = Score(c, 2, DefaultWeights())
	if math.Abs(got-3.6) > 1e-9 {
		t.Fatalf("score with default reliability = %v, want 3.6", got)
	}
}

func TestSelectBest_DependsOnWeight(t *testing.T) {
	carriers := DefaultCarriers()

	// 1kg: DHL 1.0, InPost 0.1, LocalCourier 2.1
	idx, err := SelectBest(1, carriers, DefaultWeights())
	if err != nil {
		t.Fatalf("SelectBest: %v", err)
	}
	if carriers[idx].Name != "InPost" {
		t.Fatalf("1kg best = %s, want InPost", carriers[idx].Name)
	}

	// 10kg: DHL 17.2, InPost 13.6, LocalCourier 12.9
	idx, err = SelectBest(10, carriers, DefaultWeights())
	if err != nil {
		t.Fatalf("SelectBest: %v", err)
	}
	if carriers[idx].Name != "LocalCourier" {
		t.Fatalf("10kg best = %s, want LocalCourier", carriers[idx].Name)
	}
}

func TestSelectBest_TieGoesToFirst(t *testing.T) {
	a := Carrier{Name: "a", BasePrice: 5, LeadTimeDays: 2}
	b := Carrier{Name: "b", BasePrice: 5, LeadTimeDays: 2}

	idx, err := SelectBest(3, []Carrier{a, b}, DefaultWeights())
	if err != nil || idx != 0 {
		t.Fatalf("idx = %d err = %v, want 0", idx, err)
	}
}

func TestSelectBest_Empty(t *testing.T) {
	if _, err := SelectBest(1, nil, DefaultWeights()); !errors.Is(err, ErrNoCarriers) {
		t.Fatalf("expected ErrNoCarriers, got %v", err)
	}
}

func TestChoose_DeterministicFallback(t *testing.T) {
	for _, s := range []advisory.Suggestion{advisory.None(), advisory.Failed("bad json")} {
		pick, err := Choose(1, DefaultCarriers(), DefaultWeights(), s)
		if err != nil {
			t.Fatalf("Choose: %v", err)
		}
		if pick.CarrierName != "InPost" || pick.Source != SourceDeterministic {
			t.Fatalf("unexpected pick: %+v", pick)
		}
		if pick.EstimatedCost != 8.5 || pick.EstimatedLeadTimeDays != 3 || pick.Reason != "deterministic_score" {
			t.Fatalf("unexpected estimates: %+v", pick)
		}
	}
}

func TestChoose_AdvisoryPickWins(t *testing.T) {
	s := advisory.Some(advisory.Payload{Carrier: "dhl", Reason: "fragile parcel"})

	pick, err := Choose(1, DefaultCarriers(), DefaultWeights(), s)
	if err != nil {
		t.Fatalf("Choose: %v", err)
	}
	if pick.CarrierName != "DHL" || pick.Source != SourceAdvisory || pick.Reason != "fragile parcel" {
		t.Fatalf("unexpected pick: %+v", pick)
	}
	if pick.EstimatedCost != 13 || pick.EstimatedLeadTimeDays != 2 {
		t.Fatalf("estimates not filled from carrier table: %+v", pick)
	}

	cost := 7.456
	unknown := advisory.Some(advisory.Payload{Carrier: "Pigeon", Cost: &cost})
	pick, err = Choose(1, nil, DefaultWeights(), unknown)
	if err != nil {
		t.Fatalf("Choose: %v", err)
	}
	if pick.CarrierName != "Pigeon" || pick.EstimatedCost != 7.46 {
		t.Fatalf("unexpected pick: %+v", pick)
	}
}
