package fleetstatus

import (
	"gonum.org/v1/gonum/stat"
)

// NeutralScore is used for every factor when no telemetry is available for a
// vehicle.
const NeutralScore = 50.0

// serviceSoonKm is the distance to the next service under which the
// maintenance score starts dropping linearly.
const serviceSoonKm = 2000.0

// Provider derives [0,100] scoring signals from telemetry snapshots. It
// satisfies the scorer's fleet-status contract.
type Provider struct {
	store Store
}

// NewProvider returns a Provider backed by the given store.
func NewProvider(store Store) *Provider {
	return &Provider{store: store}
}

// FuelScore returns the remaining fuel percentage, clamped to [0,100].
func (p *Provider) FuelScore(vehicleID string) float64 {
	sn, ok := p.store.Get(vehicleID)
	if !ok {
		return NeutralScore
	}
	return clamp(sn.FuelPercent)
}

// UtilizationScore rewards lightly used vehicles: 100 minus the mean of the
// recent daily usage samples.
func (p *Provider) UtilizationScore(vehicleID string) float64 {
	sn, ok := p.store.Get(vehicleID)
	if !ok || len(sn.DailyUsage) == 0 {
		return NeutralScore
	}
	return clamp(100 - stat.Mean(sn.DailyUsage, nil))
}

// MaintenanceScore reflects how far the vehicle is from its next service.
// At or past the service threshold the score is 0; beyond serviceSoonKm of
// headroom it is 100.
func (p *Provider) MaintenanceScore(vehicleID string) float64 {
	sn, ok := p.store.Get(vehicleID)
	if !ok || sn.NextServiceKm <= 0 {
		return NeutralScore
	}
	remaining := sn.NextServiceKm - sn.OdometerKm
	if remaining <= 0 {
		return 0
	}
	if remaining >= serviceSoonKm {
		return 100
	}
	return clamp(remaining / serviceSoonKm * 100)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
