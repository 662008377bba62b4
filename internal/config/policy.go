package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Simplici0/marginguard/internal/ads"
	"github.com/Simplici0/marginguard/internal/pricing"
)

// PolicyFile is the on-disk shape of POLICY_PATH.
//
//	pricing:
//	  min_margin_pct: 0.25
//	ads:
//	  pause_margin_pct: 0.05
type PolicyFile struct {
	Pricing pricing.Policy `yaml:"pricing"`
	Ads     ads.Policy     `yaml:"ads"`
}

func DefaultPolicyFile() PolicyFile {
	return PolicyFile{
		Pricing: pricing.DefaultPolicy(),
		Ads:     ads.DefaultPolicy(),
	}
}

// LoadPolicy overlays the YAML file at path on the defaults. Unknown keys are
// rejected. An empty path yields the defaults.
func LoadPolicy(path string) (PolicyFile, error) {
	pf := DefaultPolicyFile()
	if path == "" {
		return pf, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return PolicyFile{}, fmt.Errorf("read policy file: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return pf, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&pf); err != nil {
		return PolicyFile{}, fmt.Errorf("parse policy file: %w", err)
	}
	if err := pf.Pricing.Validate(); err != nil {
		return PolicyFile{}, fmt.Errorf("policy file %s: %w", path, err)
	}
	return pf, nil
}
