package fleetstatus

import (
	"sort"
	"sync"
	"time"
)

// Snapshot captures the last known telemetry state of a vehicle.
type Snapshot struct {
	VehicleID string `json:"vehicle_id"`
	// FuelPercent is the remaining fuel or charge in [0,100].
	FuelPercent float64 `json:"fuel_percent"`
	// DailyUsage holds recent daily utilization samples in [0,100], most
	// recent last.
	DailyUsage []float64 `json:"daily_usage,omitempty"`
	// OdometerKm is the current odometer reading.
	OdometerKm float64 `json:"odometer_km"`
	// NextServiceKm is the odometer reading at which the next service is due.
	NextServiceKm float64   `json:"next_service_km"`
	ReportedAt    time.Time `json:"reported_at"`
}

// Store keeps the latest snapshot per vehicle.
type Store interface {
	Set(Snapshot)
	Get(vehicleID string) (Snapshot, bool)
	List() []Snapshot
	// AppendUsage records one daily utilization sample, keeping at most
	// maxUsageSamples per vehicle.
	AppendUsage(vehicleID string, usage float64)
}

const maxUsageSamples = 14

// MemoryStore is an in-memory Store guarded by a RWMutex.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]Snapshot
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]Snapshot{}}
}

func (s *MemoryStore) Set(sn Snapshot) {
	s.mu.Lock()
	if prev, ok := s.data[sn.VehicleID]; ok && len(sn.DailyUsage) == 0 {
		sn.DailyUsage = prev.DailyUsage
	}
	s.data[sn.VehicleID] = sn
	s.mu.Unlock()
}

func (s *MemoryStore) Get(vehicleID string) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sn, ok := s.data[vehicleID]
	return sn, ok
}

func (s *MemoryStore) List() []Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]Snapshot, 0, len(s.data))
	for _, sn := range s.data {
		res = append(res, sn)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].VehicleID < res[j].VehicleID })
	return res
}

func (s *MemoryStore) AppendUsage(vehicleID string, usage float64) {
	s.mu.Lock()
	sn := s.data[vehicleID]
	if sn.VehicleID == "" {
		sn.VehicleID = vehicleID
	}
	sn.DailyUsage = append(sn.DailyUsage, usage)
	if len(sn.DailyUsage) > maxUsageSamples {
		sn.DailyUsage = sn.DailyUsage[len(sn.DailyUsage)-maxUsageSamples:]
	}
	s.data[vehicleID] = sn
	s.mu.Unlock()
}
