package model

import (
	"fmt"
	"time"
)

// TripStatus tracks the lifecycle of a trip request.
type TripStatus string

const (
	TripDraft     TripStatus = "draft"
	TripScheduled TripStatus = "scheduled"
	TripCancelled TripStatus = "cancelled"
	TripCompleted TripStatus = "completed"
)

// Location references a pickup point. Coordinates are optional; when absent
// the proximity factor falls back to a neutral score.
type Location struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// HasCoordinates reports whether both latitude and longitude are set.
func (l Location) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// TripRequest represents a requester's need for a vehicle and driver over a
// time window. Pickup and Return form a half-open window [Pickup, Return).
type TripRequest struct {
	ID            string     `json:"id"`
	Pickup        time.Time  `json:"pickup"`
	Return        time.Time  `json:"return"`
	RequiredClass string     `json:"required_class,omitempty"`
	Passengers    int        `json:"passengers"`
	PickupPoint   Location   `json:"pickup_point"`
	Status        TripStatus `json:"status"`
}

// Validate checks that the requested window is well formed. A zero-duration
// window is rejected so that it can never slip past the overlap test.
func (t TripRequest) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("trip request id is required")
	}
	if !t.Pickup.Before(t.Return) {
		return fmt.Errorf("pickup %s must be before return %s", t.Pickup.Format(time.RFC3339), t.Return.Format(time.RFC3339))
	}
	return nil
}

// Window returns the requested reservation window.
func (t TripRequest) Window() Window {
	return Window{Start: t.Pickup, End: t.Return}
}
