package assignment

import (
	"fmt"
	"time"

	"github.com/fleetops/fleetsched/core/model"
)

// ValidationError reports a malformed or precondition-violating request.
// No partial state is left behind.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

// NotFoundError reports a missing trip request, vehicle, driver or assignment.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ConflictError reports that a resource is unavailable at commit time. The
// caller should re-score and retry with another candidate.
type ConflictError struct {
	Kind       model.ResourceKind
	ResourceID string
	Window     model.Window
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s already reserved %s to %s",
		e.Kind, e.ResourceID,
		e.Window.Start.Format(time.RFC3339),
		e.Window.End.Format(time.RFC3339))
}

// TransactionError reports that the atomic write could not complete. No
// partial assignment or calendar entry was persisted; the operation is safe
// to retry.
type TransactionError struct {
	Op  string
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction %s failed: %v", e.Op, e.Err)
}

func (e *TransactionError) Unwrap() error { return e.Err }
