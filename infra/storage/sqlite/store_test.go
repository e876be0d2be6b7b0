package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetops/fleetsched/core/assignment"
	"github.com/fleetops/fleetsched/core/model"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "fleetsched.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func tripAt(id string, startHour, endHour int) model.TripRequest {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	return model.TripRequest{
		ID:     id,
		Pickup: day.Add(time.Duration(startHour) * time.Hour),
		Return: day.Add(time.Duration(endHour) * time.Hour),
		Status: model.TripDraft,
	}
}

func TestStore_TripRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	trip := tripAt("t1", 10, 12)
	trip.RequiredClass = "van"
	lat, lon := 48.85, 2.35
	trip.PickupPoint = model.Location{Name: "depot", Latitude: &lat, Longitude: &lon}
	require.NoError(t, s.PutTripRequest(ctx, trip))

	got, err := s.TripRequest(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, trip.Pickup, got.Pickup)
	assert.Equal(t, "van", got.RequiredClass)
	require.True(t, got.PickupPoint.HasCoordinates())
	assert.Equal(t, lat, *got.PickupPoint.Latitude)

	_, err = s.TripRequest(ctx, "missing")
	var nf *assignment.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestStore_ConflictQueries(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	_, err := s.Insert(ctx, model.CalendarEntry{
		ID: "e1", ResourceID: "v1", ResourceKind: model.KindVehicle,
		Window: model.Window{Start: day.Add(9 * time.Hour), End: day.Add(11 * time.Hour)},
		Type:   model.EntryTrip,
	})
	require.NoError(t, err)
	_, err = s.Insert(ctx, model.CalendarEntry{
		ID: "e2", ResourceID: "v1", ResourceKind: model.KindVehicle,
		Window: model.Window{Start: day.Add(12 * time.Hour), End: day.Add(13 * time.Hour)},
		Type:   model.EntryBlock,
	})
	require.NoError(t, err)

	conflict, err := s.HasConflict(ctx, "v1", model.KindVehicle, model.Window{Start: day.Add(10 * time.Hour), End: day.Add(12 * time.Hour)})
	require.NoError(t, err)
	assert.True(t, conflict)

	// adjacent window does not conflict
	conflict, err = s.HasConflict(ctx, "v1", model.KindVehicle, model.Window{Start: day.Add(11 * time.Hour), End: day.Add(12 * time.Hour)})
	require.NoError(t, err)
	assert.False(t, conflict)

	// block entries are advisory
	conflict, err = s.HasConflict(ctx, "v1", model.KindVehicle, model.Window{Start: day.Add(12 * time.Hour), End: day.Add(13 * time.Hour)})
	require.NoError(t, err)
	assert.False(t, conflict)

	all, err := s.EntriesOverlapping(ctx, "v1", model.KindVehicle, model.Window{Start: day, End: day.Add(24 * time.Hour)})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	blocking, err := s.BlockingEntries(ctx, "v1", model.KindVehicle, model.Window{Start: day, End: day.Add(24 * time.Hour)})
	require.NoError(t, err)
	require.Len(t, blocking, 1)
	assert.Equal(t, "e1", blocking[0].ID)
}

func TestStore_CommitAssignment(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	trip := tripAt("t1", 10, 12)
	require.NoError(t, s.PutTripRequest(ctx, trip))

	a := model.Assignment{ID: "a1", TripRequestID: "t1", VehicleID: "v1", DriverID: "d1", Status: model.AssignmentScheduled}
	ve := model.CalendarEntry{ID: "e1", ResourceID: "v1", ResourceKind: model.KindVehicle, Window: trip.Window(), Type: model.EntryTrip, AssignmentID: "a1"}
	de := model.CalendarEntry{ID: "e2", ResourceID: "d1", ResourceKind: model.KindDriver, Window: trip.Window(), Type: model.EntryTrip, AssignmentID: "a1"}
	require.NoError(t, s.CommitAssignment(ctx, a, ve, de))

	got, err := s.TripRequest(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, model.TripScheduled, got.Status)

	stored, err := s.Assignment(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, model.AssignmentScheduled, stored.Status)

	conflict, err := s.HasConflict(ctx, "d1", model.KindDriver, trip.Window())
	require.NoError(t, err)
	assert.True(t, conflict)
}

func TestStore_CommitRejectsNonDraft(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	trip := tripAt("t1", 10, 12)
	trip.Status = model.TripScheduled
	require.NoError(t, s.PutTripRequest(ctx, trip))

	a := model.Assignment{ID: "a1", TripRequestID: "t1", VehicleID: "v1", DriverID: "d1", Status: model.AssignmentScheduled}
	ve := model.CalendarEntry{ID: "e1", ResourceID: "v1", ResourceKind: model.KindVehicle, Window: trip.Window(), Type: model.EntryTrip, AssignmentID: "a1"}
	de := model.CalendarEntry{ID: "e2", ResourceID: "d1", ResourceKind: model.KindDriver, Window: trip.Window(), Type: model.EntryTrip, AssignmentID: "a1"}

	err := s.CommitAssignment(ctx, a, ve, de)
	var verr *assignment.ValidationError
	require.ErrorAs(t, err, &verr)

	// no partial state
	_, err = s.Assignment(ctx, "a1")
	var nf *assignment.NotFoundError
	assert.ErrorAs(t, err, &nf)
	conflict, err := s.HasConflict(ctx, "v1", model.KindVehicle, trip.Window())
	require.NoError(t, err)
	assert.False(t, conflict)
}

func TestStore_CommitRollsBackOnDuplicateEntry(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	require.NoError(t, s.PutTripRequest(ctx, tripAt("t1", 10, 12)))
	trip := tripAt("t1", 10, 12)

	a := model.Assignment{ID: "a1", TripRequestID: "t1", VehicleID: "v1", DriverID: "d1", Status: model.AssignmentScheduled}
	ve := model.CalendarEntry{ID: "dup", ResourceID: "v1", ResourceKind: model.KindVehicle, Window: trip.Window(), Type: model.EntryTrip, AssignmentID: "a1"}
	de := model.CalendarEntry{ID: "dup", ResourceID: "d1", ResourceKind: model.KindDriver, Window: trip.Window(), Type: model.EntryTrip, AssignmentID: "a1"}

	err := s.CommitAssignment(ctx, a, ve, de)
	var terr *assignment.TransactionError
	require.ErrorAs(t, err, &terr)

	// the vehicle entry inserted before the failure must be gone
	entries, err := s.EntriesOverlapping(ctx, "v1", model.KindVehicle, trip.Window())
	require.NoError(t, err)
	assert.Empty(t, entries)
	_, err = s.Assignment(ctx, "a1")
	var nf *assignment.NotFoundError
	assert.ErrorAs(t, err, &nf)
	got, err := s.TripRequest(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, model.TripDraft, got.Status)
}

func TestStore_CancelAssignment(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	trip := tripAt("t1", 10, 12)
	require.NoError(t, s.PutTripRequest(ctx, trip))

	a := model.Assignment{ID: "a1", TripRequestID: "t1", VehicleID: "v1", DriverID: "d1", Status: model.AssignmentScheduled}
	ve := model.CalendarEntry{ID: "e1", ResourceID: "v1", ResourceKind: model.KindVehicle, Window: trip.Window(), Type: model.EntryTrip, AssignmentID: "a1"}
	de := model.CalendarEntry{ID: "e2", ResourceID: "d1", ResourceKind: model.KindDriver, Window: trip.Window(), Type: model.EntryTrip, AssignmentID: "a1"}
	require.NoError(t, s.CommitAssignment(ctx, a, ve, de))

	require.NoError(t, s.CancelAssignment(ctx, "a1"))

	got, err := s.Assignment(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, model.AssignmentCancelled, got.Status)

	tripAfter, err := s.TripRequest(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, model.TripDraft, tripAfter.Status)

	conflict, err := s.HasConflict(ctx, "v1", model.KindVehicle, trip.Window())
	require.NoError(t, err)
	assert.False(t, conflict)

	err = s.CancelAssignment(ctx, "a1")
	var verr *assignment.ValidationError
	assert.ErrorAs(t, err, &verr)
}
