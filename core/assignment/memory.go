package assignment

import (
	"context"
	"fmt"
	"sync"

	"github.com/fleetops/fleetsched/core/calendar"
	"github.com/fleetops/fleetsched/core/model"
)

// MemoryStore is an in-memory Store. Calendar entries live in the wrapped
// calendar store; trips and assignments are kept locally. Commit relies on a
// compensating removal if the second calendar insert fails, under the
// coordinator's per-resource locks this is equivalent to a transaction.
type MemoryStore struct {
	*calendar.MemoryStore

	mu          sync.RWMutex
	trips       map[string]model.TripRequest
	assignments map[string]model.Assignment
	entryIDs    map[string][]string // assignment id -> calendar entry ids
}

// NewMemoryStore returns a MemoryStore on top of the given calendar store.
func NewMemoryStore(cal *calendar.MemoryStore) *MemoryStore {
	return &MemoryStore{
		MemoryStore: cal,
		trips:       map[string]model.TripRequest{},
		assignments: map[string]model.Assignment{},
		entryIDs:    map[string][]string{},
	}
}

func (s *MemoryStore) TripRequest(_ context.Context, id string) (model.TripRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.trips[id]
	if !ok {
		return model.TripRequest{}, &NotFoundError{Entity: "trip request", ID: id}
	}
	return t, nil
}

func (s *MemoryStore) PutTripRequest(_ context.Context, t model.TripRequest) error {
	if t.ID == "" {
		return &ValidationError{Reason: "trip request id is required"}
	}
	s.mu.Lock()
	s.trips[t.ID] = t
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Assignment(_ context.Context, id string) (model.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assignments[id]
	if !ok {
		return model.Assignment{}, &NotFoundError{Entity: "assignment", ID: id}
	}
	return a, nil
}

func (s *MemoryStore) CommitAssignment(ctx context.Context, a model.Assignment, vehicleEntry, driverEntry model.CalendarEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	trip, ok := s.trips[a.TripRequestID]
	if !ok {
		return &NotFoundError{Entity: "trip request", ID: a.TripRequestID}
	}
	if trip.Status != model.TripDraft {
		return &ValidationError{Reason: fmt.Sprintf("trip request %s is %s, not draft", trip.ID, trip.Status)}
	}
	if _, ok := s.assignments[a.ID]; ok {
		return &TransactionError{Op: "commit", Err: fmt.Errorf("assignment %s already exists", a.ID)}
	}

	ve, err := s.Insert(ctx, vehicleEntry)
	if err != nil {
		return &TransactionError{Op: "commit", Err: err}
	}
	de, err := s.Insert(ctx, driverEntry)
	if err != nil {
		// roll back the first entry so no partial state remains
		_ = s.Remove(ctx, ve.ID)
		return &TransactionError{Op: "commit", Err: err}
	}

	s.assignments[a.ID] = a
	s.entryIDs[a.ID] = []string{ve.ID, de.ID}
	trip.Status = model.TripScheduled
	s.trips[trip.ID] = trip
	return nil
}

func (s *MemoryStore) CancelAssignment(ctx context.Context, assignmentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assignments[assignmentID]
	if !ok {
		return &NotFoundError{Entity: "assignment", ID: assignmentID}
	}
	if a.Status == model.AssignmentCancelled {
		return &ValidationError{Reason: fmt.Sprintf("assignment %s is already cancelled", assignmentID)}
	}

	for _, id := range s.entryIDs[assignmentID] {
		if err := s.Remove(ctx, id); err != nil {
			return &TransactionError{Op: "cancel", Err: err}
		}
	}
	delete(s.entryIDs, assignmentID)

	a.Status = model.AssignmentCancelled
	s.assignments[assignmentID] = a

	if trip, ok := s.trips[a.TripRequestID]; ok {
		trip.Status = model.TripDraft
		s.trips[trip.ID] = trip
	}
	return nil
}
