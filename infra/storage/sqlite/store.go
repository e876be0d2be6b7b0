// Package sqlite provides the durable scheduling store. Assignment commits
// and cancellations run inside a single database transaction, so the
// assignment/calendar triple can never be observed partially.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/fleetops/fleetsched/core/assignment"
	"github.com/fleetops/fleetsched/core/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS trip_requests (
    id TEXT PRIMARY KEY,
    pickup_at INTEGER NOT NULL,
    return_at INTEGER NOT NULL,
    required_class TEXT NOT NULL DEFAULT '',
    passengers INTEGER NOT NULL DEFAULT 0,
    pickup_name TEXT NOT NULL DEFAULT '',
    pickup_lat REAL,
    pickup_lon REAL,
    status TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS assignments (
    id TEXT PRIMARY KEY,
    trip_request_id TEXT NOT NULL,
    vehicle_id TEXT NOT NULL,
    driver_id TEXT NOT NULL,
    status TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS calendar_entries (
    id TEXT PRIMARY KEY,
    resource_id TEXT NOT NULL,
    resource_kind TEXT NOT NULL,
    start_at INTEGER NOT NULL,
    end_at INTEGER NOT NULL,
    entry_type TEXT NOT NULL,
    assignment_id TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_calendar_resource
    ON calendar_entries(resource_kind, resource_id, start_at);
`

// Store implements assignment.Store on SQLite.
type Store struct {
	db *sql.DB
}

// New opens or creates the database at path and ensures the schema.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) HasConflict(ctx context.Context, resourceID string, kind model.ResourceKind, w model.Window) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM calendar_entries
         WHERE resource_id = ? AND resource_kind = ?
           AND entry_type IN ('trip','maintenance')
           AND start_at < ? AND ? < end_at`,
		resourceID, string(kind), w.End.Unix(), w.Start.Unix()).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) BlockingEntries(ctx context.Context, resourceID string, kind model.ResourceKind, w model.Window) ([]model.CalendarEntry, error) {
	return s.queryEntries(ctx,
		`SELECT id, resource_id, resource_kind, start_at, end_at, entry_type, assignment_id
         FROM calendar_entries
         WHERE resource_id = ? AND resource_kind = ?
           AND entry_type IN ('trip','maintenance')
           AND start_at < ? AND ? < end_at
         ORDER BY start_at, id`,
		resourceID, string(kind), w.End.Unix(), w.Start.Unix())
}

func (s *Store) EntriesOverlapping(ctx context.Context, resourceID string, kind model.ResourceKind, w model.Window) ([]model.CalendarEntry, error) {
	return s.queryEntries(ctx,
		`SELECT id, resource_id, resource_kind, start_at, end_at, entry_type, assignment_id
         FROM calendar_entries
         WHERE resource_id = ? AND resource_kind = ?
           AND start_at < ? AND ? < end_at
         ORDER BY start_at, id`,
		resourceID, string(kind), w.End.Unix(), w.Start.Unix())
}

func (s *Store) queryEntries(ctx context.Context, query string, args ...any) ([]model.CalendarEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []model.CalendarEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

func scanEntry(rows *sql.Rows) (model.CalendarEntry, error) {
	var e model.CalendarEntry
	var kind, typ string
	var start, end int64
	if err := rows.Scan(&e.ID, &e.ResourceID, &kind, &start, &end, &typ, &e.AssignmentID); err != nil {
		return e, err
	}
	e.ResourceKind = model.ResourceKind(kind)
	e.Type = model.EntryType(typ)
	e.Window = model.Window{Start: time.Unix(start, 0).UTC(), End: time.Unix(end, 0).UTC()}
	return e, nil
}

func (s *Store) Insert(ctx context.Context, e model.CalendarEntry) (model.CalendarEntry, error) {
	if e.ID == "" {
		return model.CalendarEntry{}, fmt.Errorf("calendar entry id is required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO calendar_entries (id, resource_id, resource_kind, start_at, end_at, entry_type, assignment_id)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ResourceID, string(e.ResourceKind), e.Window.Start.Unix(), e.Window.End.Unix(), string(e.Type), e.AssignmentID)
	if err != nil {
		return model.CalendarEntry{}, err
	}
	return e, nil
}

func (s *Store) Remove(ctx context.Context, entryID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM calendar_entries WHERE id = ?`, entryID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &assignment.NotFoundError{Entity: "calendar entry", ID: entryID}
	}
	return nil
}

func (s *Store) TripRequest(ctx context.Context, id string) (model.TripRequest, error) {
	return scanTrip(s.db.QueryRowContext(ctx,
		`SELECT id, pickup_at, return_at, required_class, passengers, pickup_name, pickup_lat, pickup_lon, status
         FROM trip_requests WHERE id = ?`, id), id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner, id string) (model.TripRequest, error) {
	var t model.TripRequest
	var pickup, ret int64
	var status string
	var lat, lon sql.NullFloat64
	err := row.Scan(&t.ID, &pickup, &ret, &t.RequiredClass, &t.Passengers, &t.PickupPoint.Name, &lat, &lon, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TripRequest{}, &assignment.NotFoundError{Entity: "trip request", ID: id}
	}
	if err != nil {
		return model.TripRequest{}, err
	}
	t.Pickup = time.Unix(pickup, 0).UTC()
	t.Return = time.Unix(ret, 0).UTC()
	t.Status = model.TripStatus(status)
	if lat.Valid && lon.Valid {
		t.PickupPoint.Latitude = &lat.Float64
		t.PickupPoint.Longitude = &lon.Float64
	}
	return t, nil
}

func (s *Store) PutTripRequest(ctx context.Context, t model.TripRequest) error {
	if t.ID == "" {
		return &assignment.ValidationError{Reason: "trip request id is required"}
	}
	var lat, lon any
	if t.PickupPoint.HasCoordinates() {
		lat, lon = *t.PickupPoint.Latitude, *t.PickupPoint.Longitude
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO trip_requests (id, pickup_at, return_at, required_class, passengers, pickup_name, pickup_lat, pickup_lon, status)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET
             pickup_at=excluded.pickup_at,
             return_at=excluded.return_at,
             required_class=excluded.required_class,
             passengers=excluded.passengers,
             pickup_name=excluded.pickup_name,
             pickup_lat=excluded.pickup_lat,
             pickup_lon=excluded.pickup_lon,
             status=excluded.status`,
		t.ID, t.Pickup.Unix(), t.Return.Unix(), t.RequiredClass, t.Passengers, t.PickupPoint.Name, lat, lon, string(t.Status))
	return err
}

func (s *Store) Assignment(ctx context.Context, id string) (model.Assignment, error) {
	var a model.Assignment
	var status string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, trip_request_id, vehicle_id, driver_id, status FROM assignments WHERE id = ?`, id).
		Scan(&a.ID, &a.TripRequestID, &a.VehicleID, &a.DriverID, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Assignment{}, &assignment.NotFoundError{Entity: "assignment", ID: id}
	}
	if err != nil {
		return model.Assignment{}, err
	}
	a.Status = model.AssignmentStatus(status)
	return a, nil
}

func (s *Store) CommitAssignment(ctx context.Context, a model.Assignment, vehicleEntry, driverEntry model.CalendarEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &assignment.TransactionError{Op: "commit", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	var status string
	err = tx.QueryRowContext(ctx, `SELECT status FROM trip_requests WHERE id = ?`, a.TripRequestID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return &assignment.NotFoundError{Entity: "trip request", ID: a.TripRequestID}
	}
	if err != nil {
		return &assignment.TransactionError{Op: "commit", Err: err}
	}
	if model.TripStatus(status) != model.TripDraft {
		return &assignment.ValidationError{Reason: fmt.Sprintf("trip request %s is %s, not draft", a.TripRequestID, status)}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO assignments (id, trip_request_id, vehicle_id, driver_id, status) VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.TripRequestID, a.VehicleID, a.DriverID, string(a.Status)); err != nil {
		return &assignment.TransactionError{Op: "commit", Err: err}
	}
	for _, e := range []model.CalendarEntry{vehicleEntry, driverEntry} {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO calendar_entries (id, resource_id, resource_kind, start_at, end_at, entry_type, assignment_id)
             VALUES (?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.ResourceID, string(e.ResourceKind), e.Window.Start.Unix(), e.Window.End.Unix(), string(e.Type), e.AssignmentID); err != nil {
			return &assignment.TransactionError{Op: "commit", Err: err}
		}
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE trip_requests SET status = ? WHERE id = ?`,
		string(model.TripScheduled), a.TripRequestID); err != nil {
		return &assignment.TransactionError{Op: "commit", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &assignment.TransactionError{Op: "commit", Err: err}
	}
	return nil
}

func (s *Store) CancelAssignment(ctx context.Context, assignmentID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &assignment.TransactionError{Op: "cancel", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	var tripID, status string
	err = tx.QueryRowContext(ctx,
		`SELECT trip_request_id, status FROM assignments WHERE id = ?`, assignmentID).Scan(&tripID, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return &assignment.NotFoundError{Entity: "assignment", ID: assignmentID}
	}
	if err != nil {
		return &assignment.TransactionError{Op: "cancel", Err: err}
	}
	if model.AssignmentStatus(status) == model.AssignmentCancelled {
		return &assignment.ValidationError{Reason: fmt.Sprintf("assignment %s is already cancelled", assignmentID)}
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM calendar_entries WHERE assignment_id = ?`, assignmentID); err != nil {
		return &assignment.TransactionError{Op: "cancel", Err: err}
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE assignments SET status = ? WHERE id = ?`,
		string(model.AssignmentCancelled), assignmentID); err != nil {
		return &assignment.TransactionError{Op: "cancel", Err: err}
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE trip_requests SET status = ? WHERE id = ?`,
		string(model.TripDraft), tripID); err != nil {
		return &assignment.TransactionError{Op: "cancel", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &assignment.TransactionError{Op: "cancel", Err: err}
	}
	return nil
}
