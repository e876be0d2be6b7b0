package fleetstatus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProvider_NeutralWithoutTelemetry(t *testing.T) {
	p := NewProvider(NewMemoryStore())
	assert.Equal(t, NeutralScore, p.FuelScore("v1"))
	assert.Equal(t, NeutralScore, p.UtilizationScore("v1"))
	assert.Equal(t, NeutralScore, p.MaintenanceScore("v1"))
}

func TestProvider_FuelScore(t *testing.T) {
	s := NewMemoryStore()
	s.Set(Snapshot{VehicleID: "v1", FuelPercent: 73})
	p := NewProvider(s)
	assert.Equal(t, 73.0, p.FuelScore("v1"))
}

func TestProvider_UtilizationScore(t *testing.T) {
	s := NewMemoryStore()
	s.AppendUsage("v1", 20)
	s.AppendUsage("v1", 40)
	p := NewProvider(s)
	assert.InDelta(t, 70, p.UtilizationScore("v1"), 1e-9)
}

func TestProvider_MaintenanceScore(t *testing.T) {
	s := NewMemoryStore()
	s.Set(Snapshot{VehicleID: "due", OdometerKm: 50000, NextServiceKm: 50000})
	s.Set(Snapshot{VehicleID: "soon", OdometerKm: 49000, NextServiceKm: 50000})
	s.Set(Snapshot{VehicleID: "fresh", OdometerKm: 10000, NextServiceKm: 20000})
	p := NewProvider(s)
	assert.Equal(t, 0.0, p.MaintenanceScore("due"))
	assert.InDelta(t, 50, p.MaintenanceScore("soon"), 1e-9)
	assert.Equal(t, 100.0, p.MaintenanceScore("fresh"))
}

func TestMemoryStore_UsageWindowBounded(t *testing.T) {
	s := NewMemoryStore()
	for i := 0; i < maxUsageSamples+5; i++ {
		s.AppendUsage("v1", float64(i))
	}
	sn, ok := s.Get("v1")
	if !ok {
		t.Fatalf("snapshot missing")
	}
	assert.Len(t, sn.DailyUsage, maxUsageSamples)
	assert.Equal(t, float64(maxUsageSamples+4), sn.DailyUsage[len(sn.DailyUsage)-1])
}

func TestMemoryStore_SetKeepsUsage(t *testing.T) {
	s := NewMemoryStore()
	s.AppendUsage("v1", 10)
	s.Set(Snapshot{VehicleID: "v1", FuelPercent: 80})
	sn, _ := s.Get("v1")
	assert.Len(t, sn.DailyUsage, 1)
	assert.Equal(t, 80.0, sn.FuelPercent)
}
