package metrics

import (
	"context"

	"github.com/fleetops/fleetsched/core/events"
	coremetrics "github.com/fleetops/fleetsched/core/metrics"
	"github.com/fleetops/fleetsched/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for
// scheduling events. It stops when the context is canceled.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) {
	if bus == nil || sink == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case events.AssignmentCommitted:
					_ = sink.RecordAssignment(coremetrics.AssignmentRecord{
						Assignment: e.Assignment,
						Window:     e.Window,
						Time:       e.Time,
					})
				case events.AssignmentCancelled:
					_ = sink.RecordAssignment(coremetrics.AssignmentRecord{
						Assignment: e.Assignment,
						Cancelled:  true,
						Time:       e.Time,
					})
				case events.AssignmentConflict:
					_ = sink.RecordConflict(coremetrics.ConflictRecord{
						TripRequestID: e.TripRequestID,
						Kind:          e.Kind,
						ResourceID:    e.ResourceID,
						Time:          e.Time,
					})
				}
			}
		}
	}()
}
