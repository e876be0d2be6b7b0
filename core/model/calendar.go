package model

import "time"

// ResourceKind identifies which kind of fleet resource a calendar entry
// reserves.
type ResourceKind string

const (
	KindVehicle ResourceKind = "vehicle"
	KindDriver  ResourceKind = "driver"
)

// EntryType classifies a calendar entry. Trip and maintenance entries block
// overlapping reservations; block entries are advisory and only produce
// warnings.
type EntryType string

const (
	EntryTrip        EntryType = "trip"
	EntryMaintenance EntryType = "maintenance"
	EntryBlock       EntryType = "block"
)

// Blocking reports whether the entry type prevents overlapping reservations.
func (t EntryType) Blocking() bool {
	return t == EntryTrip || t == EntryMaintenance
}

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether two half-open windows intersect. A window that
// starts exactly when another ends does not overlap.
func (w Window) Overlaps(o Window) bool {
	return w.Start.Before(o.End) && o.Start.Before(w.End)
}

// Duration returns the window length.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// IsZero reports whether the window has no extent.
func (w Window) IsZero() bool {
	return !w.Start.Before(w.End)
}

// CalendarEntry reserves a time window on a vehicle or driver. Entries are
// never mutated in place, only inserted or removed wholesale.
type CalendarEntry struct {
	ID           string       `json:"id"`
	ResourceID   string       `json:"resource_id"`
	ResourceKind ResourceKind `json:"resource_kind"`
	Window       Window       `json:"window"`
	Type         EntryType    `json:"type"`
	AssignmentID string       `json:"assignment_id,omitempty"`
}
