package model

// FactorScores holds the per-factor breakdown of a candidate evaluation.
// Every factor is in [0,100].
type FactorScores struct {
	Availability float64 `json:"availability"`
	ClassMatch   float64 `json:"class_match"`
	Proximity    float64 `json:"proximity"`
	Fuel         float64 `json:"fuel"`
	Utilization  float64 `json:"utilization"`
	Maintenance  float64 `json:"maintenance"`
}

// VehicleScore is the derived suitability of a vehicle for a trip request.
// A candidate with any conflict has Total forced to 0 and must not be
// assigned, though it still appears in ranked output for visibility.
type VehicleScore struct {
	Vehicle   Vehicle      `json:"vehicle"`
	Total     int          `json:"total"`
	Factors   FactorScores `json:"factors"`
	Conflicts []string     `json:"conflicts,omitempty"`
	Warnings  []string     `json:"warnings,omitempty"`
}

// Assignable reports whether the candidate may be committed.
func (s VehicleScore) Assignable() bool {
	return len(s.Conflicts) == 0
}
