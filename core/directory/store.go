package directory

import (
	"context"
	"sort"
	"sync"

	"github.com/fleetops/fleetsched/core/model"
)

// Filter narrows vehicle listings.
type Filter struct {
	Class      string
	ActiveOnly bool
}

// Store is the vehicle/driver registry consulted by the scorer for its
// candidate pool and by the coordinator for active-status preconditions.
type Store interface {
	Vehicle(ctx context.Context, id string) (model.Vehicle, bool)
	Driver(ctx context.Context, id string) (model.Driver, bool)
	Vehicles(ctx context.Context, f Filter) []model.Vehicle
	PutVehicle(ctx context.Context, v model.Vehicle)
	PutDriver(ctx context.Context, d model.Driver)
}

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	mu       sync.RWMutex
	vehicles map[string]model.Vehicle
	drivers  map[string]model.Driver
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		vehicles: map[string]model.Vehicle{},
		drivers:  map[string]model.Driver{},
	}
}

func (s *MemoryStore) Vehicle(_ context.Context, id string) (model.Vehicle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vehicles[id]
	return v, ok
}

func (s *MemoryStore) Driver(_ context.Context, id string) (model.Driver, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drivers[id]
	return d, ok
}

func (s *MemoryStore) Vehicles(_ context.Context, f Filter) []model.Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]model.Vehicle, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		if f.ActiveOnly && !v.Active {
			continue
		}
		if f.Class != "" && v.Class != f.Class {
			continue
		}
		res = append(res, v)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

func (s *MemoryStore) PutVehicle(_ context.Context, v model.Vehicle) {
	s.mu.Lock()
	s.vehicles[v.ID] = v
	s.mu.Unlock()
}

func (s *MemoryStore) PutDriver(_ context.Context, d model.Driver) {
	s.mu.Lock()
	s.drivers[d.ID] = d
	s.mu.Unlock()
}
