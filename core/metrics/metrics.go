package metrics

import (
	"time"

	"github.com/fleetops/fleetsched/core/model"
)

// AssignmentRecord captures one committed or cancelled assignment.
type AssignmentRecord struct {
	Assignment model.Assignment
	Window     model.Window
	Cancelled  bool
	Time       time.Time
}

// ConflictRecord captures one commit rejected by a calendar conflict.
type ConflictRecord struct {
	TripRequestID string
	Kind          model.ResourceKind
	ResourceID    string
	Time          time.Time
}

// ScoringRecord captures one candidate-ranking run.
type ScoringRecord struct {
	TripRequestID string
	Candidates    int
	Duration      time.Duration
	Time          time.Time
}

// MetricsSink records scheduling events for observability purposes.
type MetricsSink interface {
	RecordAssignment(AssignmentRecord) error
	RecordConflict(ConflictRecord) error
	RecordScoring(ScoringRecord) error
}

// NopSink discards all records.
type NopSink struct{}

func (NopSink) RecordAssignment(AssignmentRecord) error { return nil }
func (NopSink) RecordConflict(ConflictRecord) error     { return nil }
func (NopSink) RecordScoring(ScoringRecord) error       { return nil }
