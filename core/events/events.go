package events

import (
	"time"

	"github.com/fleetops/fleetsched/core/model"
)

// AssignmentCommitted is published after an assignment and its calendar
// entries were atomically persisted.
type AssignmentCommitted struct {
	Assignment model.Assignment
	Window     model.Window
	Time       time.Time
}

// AssignmentCancelled is published after an assignment was cancelled and its
// calendar entries removed.
type AssignmentCancelled struct {
	Assignment model.Assignment
	Time       time.Time
}

// AssignmentConflict is published when a commit is rejected because a
// resource turned out to be unavailable at write time.
type AssignmentConflict struct {
	TripRequestID string
	Kind          model.ResourceKind
	ResourceID    string
	Window        model.Window
	Time          time.Time
}
