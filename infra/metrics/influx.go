package metrics

import (
	"context"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/fleetops/fleetsched/core/metrics"
	"github.com/fleetops/fleetsched/infra/logger"
)

// InfluxSink writes scheduling events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and returns a
// NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

func (s *InfluxSink) RecordAssignment(r coremetrics.AssignmentRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	outcome := "committed"
	if r.Cancelled {
		outcome = "cancelled"
	}
	p := write.NewPointWithMeasurement("assignment_event").
		AddTag("vehicle_id", r.Assignment.VehicleID).
		AddTag("driver_id", r.Assignment.DriverID).
		AddTag("outcome", outcome).
		AddField("trip_request_id", r.Assignment.TripRequestID).
		AddField("window_minutes", r.Window.Duration().Minutes()).
		SetTime(r.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

func (s *InfluxSink) RecordConflict(r coremetrics.ConflictRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("assignment_conflict").
		AddTag("resource_kind", string(r.Kind)).
		AddTag("resource_id", r.ResourceID).
		AddField("trip_request_id", r.TripRequestID).
		SetTime(r.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

func (s *InfluxSink) RecordScoring(r coremetrics.ScoringRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("scoring_run").
		AddField("trip_request_id", r.TripRequestID).
		AddField("candidates", r.Candidates).
		AddField("duration_ms", float64(r.Duration.Milliseconds())).
		SetTime(r.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}
