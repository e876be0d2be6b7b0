package config

import "github.com/fleetops/fleetsched/core/scoring"

// ScoringConfig controls the candidate ranking factors.
type ScoringConfig struct {
	// WeightsFile points at a yaml or json file holding factor weights.
	// When empty, Weights (or the built-in defaults) apply.
	WeightsFile string           `json:"weights_file"`
	Weights     *scoring.Weights `json:"weights"`
}

// Validate checks that inline weights, when present, are well formed.
func (c ScoringConfig) Validate() error {
	if c.Weights != nil {
		return c.Weights.Validate()
	}
	return nil
}

// ResolveWeights returns the effective factor weights, preferring the weights
// file over inline values.
func (c ScoringConfig) ResolveWeights() (scoring.Weights, error) {
	if c.WeightsFile != "" {
		return scoring.LoadWeights(c.WeightsFile)
	}
	if c.Weights != nil {
		return *c.Weights, nil
	}
	return scoring.DefaultWeights(), nil
}
