package assignment

import (
	"sync"

	"github.com/fleetops/fleetsched/core/model"
)

// resourceLocks serializes commits per (kind, id). Two concurrent assigns
// touching the same vehicle or driver take turns through the conflict
// re-check and write.
type resourceLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newResourceLocks() *resourceLocks {
	return &resourceLocks{locks: map[string]*sync.Mutex{}}
}

func (r *resourceLocks) get(kind model.ResourceKind, id string) *sync.Mutex {
	key := string(kind) + "/" + id
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[key]
	if !ok {
		l = &sync.Mutex{}
		r.locks[key] = l
	}
	return l
}

// lockPair acquires the vehicle lock before the driver lock. The fixed order
// prevents deadlock between concurrent assigns.
func (r *resourceLocks) lockPair(vehicleID, driverID string) func() {
	vl := r.get(model.KindVehicle, vehicleID)
	dl := r.get(model.KindDriver, driverID)
	vl.Lock()
	dl.Lock()
	return func() {
		dl.Unlock()
		vl.Unlock()
	}
}
