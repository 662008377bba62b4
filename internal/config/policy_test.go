package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Simplici0/marginguard/internal/pricing"
)

func writePolicy(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write policy: %v", err)
	}
	return path
}

func TestLoadPolicy_EmptyPathIsDefault(t *testing.T) {
	pf, err := LoadPolicy("")
	if err != nil {
		t.Fatalf("LoadPolicy: %v", err)
	}
	if pf != DefaultPolicyFile() {
		t.Fatalf("got %+v, want defaults", pf)
	}
}

func TestLoadPolicy_OverlaysDefaults(t *testing.T) {
	path := writePolicy(t, `
pricing:
  min_margin_pct: 0.25
  allow_night_tests: false
ads:
  boost_margin_pct: 0.3
`)
	pf, err := LoadPolicy(path)
	if err != nil {
		t.Fatalf("LoadPolicy: %v", err)
	}
	if pf.Pricing.MinMarginPct != 0.25 || pf.Pricing.AllowNightTests {
		t.Fatalf("pricing overlay not applied: %+v", pf.Pricing)
	}
	if pf.Pricing.MaxDiscountPct != pricing.DefaultPolicy().MaxDiscountPct {
		t.Fatalf("untouched field lost its default: %+v", pf.Pricing)
	}
	if pf.Ads.BoostMarginPct != 0.3 || pf.Ads.PauseMarginPct != 0.07 {
		t.Fatalf("ads overlay not applied: %+v", pf.Ads)
	}
}

func TestLoadPolicy_RejectsUnknownKeys(t *testing.T) {
	path := writePolicy(t, "pricing:\n  min_margn_pct: 0.3\n")
	if _, err := LoadPolicy(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestLoadPolicy_RejectsInvalidPolicy(t *testing.T) {
	path := writePolicy(t, "pricing:\n  min_margin_pct: -0.5\n")
	_, err := LoadPolicy(path)
	if !errors.Is(err, pricing.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}
