package assignment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fleetops/fleetsched/core/directory"
	"github.com/fleetops/fleetsched/core/events"
	"github.com/fleetops/fleetsched/core/logger"
	"github.com/fleetops/fleetsched/core/model"
	"github.com/fleetops/fleetsched/internal/eventbus"
)

// Coordinator validates and atomically commits assignments. It re-checks
// calendar conflicts at write time under per-resource locks, so two
// concurrent assigns on overlapping windows cannot both succeed.
type Coordinator struct {
	store Store
	dir   directory.Store
	locks *resourceLocks
	bus   eventbus.EventBus
	log   logger.Logger
}

// NewCoordinator returns a Coordinator. The bus may be nil when no event
// consumers are wired.
func NewCoordinator(store Store, dir directory.Store, bus eventbus.EventBus, log logger.Logger) *Coordinator {
	return &Coordinator{
		store: store,
		dir:   dir,
		locks: newResourceLocks(),
		bus:   bus,
		log:   log,
	}
}

// Assign commits the chosen vehicle/driver pair for the trip request. On
// success one assignment and two calendar entries exist and the trip request
// is scheduled; on any failure nothing was written.
func (c *Coordinator) Assign(ctx context.Context, tripRequestID, vehicleID, driverID string) (model.Assignment, error) {
	trip, err := c.store.TripRequest(ctx, tripRequestID)
	if err != nil {
		return model.Assignment{}, err
	}
	if trip.Status != model.TripDraft {
		return model.Assignment{}, &ValidationError{Reason: fmt.Sprintf("trip request %s is %s, not draft", trip.ID, trip.Status)}
	}
	if err := trip.Validate(); err != nil {
		return model.Assignment{}, &ValidationError{Reason: err.Error()}
	}
	window := trip.Window()
	if window.IsZero() {
		return model.Assignment{}, &ValidationError{Reason: "trip window has no duration"}
	}

	vehicle, ok := c.dir.Vehicle(ctx, vehicleID)
	if !ok {
		return model.Assignment{}, &NotFoundError{Entity: "vehicle", ID: vehicleID}
	}
	if !vehicle.Active {
		return model.Assignment{}, &ValidationError{Reason: fmt.Sprintf("vehicle %s is not active", vehicleID)}
	}
	driver, ok := c.dir.Driver(ctx, driverID)
	if !ok {
		return model.Assignment{}, &NotFoundError{Entity: "driver", ID: driverID}
	}
	if !driver.Active {
		return model.Assignment{}, &ValidationError{Reason: fmt.Sprintf("driver %s is not active", driverID)}
	}

	unlock := c.locks.lockPair(vehicleID, driverID)
	defer unlock()

	// Mandatory re-check: time may have passed since scoring.
	if err := c.checkResource(ctx, trip, model.KindVehicle, vehicleID, window); err != nil {
		return model.Assignment{}, err
	}
	if err := c.checkResource(ctx, trip, model.KindDriver, driverID, window); err != nil {
		return model.Assignment{}, err
	}

	a := model.Assignment{
		ID:            uuid.NewString(),
		TripRequestID: trip.ID,
		VehicleID:     vehicleID,
		DriverID:      driverID,
		Status:        model.AssignmentScheduled,
	}
	vehicleEntry := model.CalendarEntry{
		ID:           uuid.NewString(),
		ResourceID:   vehicleID,
		ResourceKind: model.KindVehicle,
		Window:       window,
		Type:         model.EntryTrip,
		AssignmentID: a.ID,
	}
	driverEntry := model.CalendarEntry{
		ID:           uuid.NewString(),
		ResourceID:   driverID,
		ResourceKind: model.KindDriver,
		Window:       window,
		Type:         model.EntryTrip,
		AssignmentID: a.ID,
	}

	if err := c.store.CommitAssignment(ctx, a, vehicleEntry, driverEntry); err != nil {
		return model.Assignment{}, err
	}

	c.log.Infof("assigned trip %s: vehicle %s, driver %s", trip.ID, vehicleID, driverID)
	if c.bus != nil {
		c.bus.Publish(events.AssignmentCommitted{Assignment: a, Window: window, Time: time.Now()})
	}
	return a, nil
}

// Cancel is the symmetric operation: it removes both calendar entries, marks
// the assignment cancelled and returns the trip request to draft.
func (c *Coordinator) Cancel(ctx context.Context, assignmentID string) error {
	a, err := c.store.Assignment(ctx, assignmentID)
	if err != nil {
		return err
	}

	unlock := c.locks.lockPair(a.VehicleID, a.DriverID)
	defer unlock()

	if err := c.store.CancelAssignment(ctx, assignmentID); err != nil {
		return err
	}
	a.Status = model.AssignmentCancelled

	c.log.Infof("cancelled assignment %s for trip %s", assignmentID, a.TripRequestID)
	if c.bus != nil {
		c.bus.Publish(events.AssignmentCancelled{Assignment: a, Time: time.Now()})
	}
	return nil
}

func (c *Coordinator) checkResource(ctx context.Context, trip model.TripRequest, kind model.ResourceKind, id string, window model.Window) error {
	conflict, err := c.store.HasConflict(ctx, id, kind, window)
	if err != nil {
		return &TransactionError{Op: "conflict check", Err: err}
	}
	if !conflict {
		return nil
	}
	blocking := window
	if entries, err := c.store.BlockingEntries(ctx, id, kind, window); err == nil && len(entries) > 0 {
		blocking = entries[0].Window
	}
	if c.bus != nil {
		c.bus.Publish(events.AssignmentConflict{
			TripRequestID: trip.ID,
			Kind:          kind,
			ResourceID:    id,
			Window:        blocking,
			Time:          time.Now(),
		})
	}
	return &ConflictError{Kind: kind, ResourceID: id, Window: blocking}
}
