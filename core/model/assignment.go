package model

// AssignmentStatus tracks the lifecycle of a committed assignment.
type AssignmentStatus string

const (
	AssignmentScheduled  AssignmentStatus = "scheduled"
	AssignmentDispatched AssignmentStatus = "dispatched"
	AssignmentInProgress AssignmentStatus = "in_progress"
	AssignmentCompleted  AssignmentStatus = "completed"
	AssignmentCancelled  AssignmentStatus = "cancelled"
)

// Assignment is the committed pairing of a trip request with a specific
// vehicle and driver. It is created atomically with its two calendar entries;
// the triple never exists partially.
type Assignment struct {
	ID            string           `json:"id"`
	TripRequestID string           `json:"trip_request_id"`
	VehicleID     string           `json:"vehicle_id"`
	DriverID      string           `json:"driver_id"`
	Status        AssignmentStatus `json:"status"`
}
