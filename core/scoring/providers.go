package scoring

// DistanceProvider estimates how close a vehicle currently is to a pickup
// point. Scores are in [0,100], higher meaning closer. The actual distance
// computation lives outside this core.
type DistanceProvider interface {
	ProximityScore(vehicleID string, lat, lon float64) float64
}

// FleetStatusProvider supplies the telemetry-derived scoring factors, each in
// [0,100].
type FleetStatusProvider interface {
	FuelScore(vehicleID string) float64
	UtilizationScore(vehicleID string) float64
	MaintenanceScore(vehicleID string) float64
}

// FixedDistanceProvider returns the same proximity score for every vehicle.
// It is the default when no real distance source is wired.
type FixedDistanceProvider struct {
	Score float64
}

func (p FixedDistanceProvider) ProximityScore(string, float64, float64) float64 {
	return p.Score
}

// NeutralFleetStatus scores every factor at the neutral midpoint.
type NeutralFleetStatus struct{}

func (NeutralFleetStatus) FuelScore(string) float64        { return 50 }
func (NeutralFleetStatus) UtilizationScore(string) float64 { return 50 }
func (NeutralFleetStatus) MaintenanceScore(string) float64 { return 50 }
