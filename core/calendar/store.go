package calendar

import (
	"context"

	"github.com/fleetops/fleetsched/core/model"
)

// Store holds time-window reservations per resource. Callers are expected to
// verify absence of conflicts before inserting; the store itself only answers
// conflict queries.
type Store interface {
	// HasConflict reports whether any blocking entry (trip or maintenance)
	// for the resource overlaps the candidate window.
	HasConflict(ctx context.Context, resourceID string, kind model.ResourceKind, w model.Window) (bool, error)
	// BlockingEntries returns the blocking entries overlapping the window,
	// used to name the offending reservation in conflict errors.
	BlockingEntries(ctx context.Context, resourceID string, kind model.ResourceKind, w model.Window) ([]model.CalendarEntry, error)
	// EntriesOverlapping returns all entries intersecting the range
	// regardless of type, including advisory block entries.
	EntriesOverlapping(ctx context.Context, resourceID string, kind model.ResourceKind, w model.Window) ([]model.CalendarEntry, error)
	// Insert appends the entry.
	Insert(ctx context.Context, e model.CalendarEntry) (model.CalendarEntry, error)
	// Remove deletes the entry with the given id.
	Remove(ctx context.Context, entryID string) error
}
