package assignment

import (
	"context"

	"github.com/fleetops/fleetsched/core/calendar"
	"github.com/fleetops/fleetsched/core/model"
)

// Store persists trip requests, assignments and calendar reservations. The
// commit and cancel operations are atomic: either every write lands or none
// does, so the assignment/calendar triple never exists partially.
type Store interface {
	calendar.Store

	TripRequest(ctx context.Context, id string) (model.TripRequest, error)
	PutTripRequest(ctx context.Context, t model.TripRequest) error

	Assignment(ctx context.Context, id string) (model.Assignment, error)

	// CommitAssignment atomically persists the assignment, both calendar
	// entries and the trip status transition to scheduled.
	CommitAssignment(ctx context.Context, a model.Assignment, vehicleEntry, driverEntry model.CalendarEntry) error

	// CancelAssignment atomically marks the assignment cancelled, removes
	// its calendar entries and returns the trip request to draft.
	CancelAssignment(ctx context.Context, assignmentID string) error
}
