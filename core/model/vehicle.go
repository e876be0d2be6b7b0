package model

// Vehicle represents a fleet vehicle eligible for trip assignment. Plate is
// used as the deterministic tie-break key when ranking candidates.
type Vehicle struct {
	ID     string `json:"id"`
	Class  string `json:"class"`
	Plate  string `json:"plate"`
	Active bool   `json:"active"`
}

// Driver represents a fleet driver eligible for trip assignment.
type Driver struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Active bool   `json:"active"`
}
