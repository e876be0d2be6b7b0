package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coremetrics "github.com/fleetops/fleetsched/core/metrics"
	"github.com/fleetops/fleetsched/infra/logger"
)

// PromSink records scheduling events in Prometheus metrics.
type PromSink struct {
	assignments *prometheus.CounterVec
	conflicts   *prometheus.CounterVec
	scoring     prometheus.Histogram
	candidates  prometheus.Gauge
}

// NewPromSink registers scheduling metrics on the default Prometheus
// registerer. The scrape server is started separately via StartPromServer.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	assignments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assignments_total",
		Help: "Total number of committed and cancelled assignments",
	}, []string{"vehicle_id", "outcome"})
	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assignment_conflicts_total",
		Help: "Total number of commits rejected by a calendar conflict",
	}, []string{"resource_kind"})
	scoring := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "scoring_duration_seconds",
		Help:    "Time spent ranking candidates for a trip request",
		Buckets: prometheus.DefBuckets,
	})
	candidates := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scoring_candidate_pool_size",
		Help: "Number of vehicles evaluated in the last scoring run",
	})

	if err := reg.Register(assignments); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			assignments = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(conflicts); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			conflicts = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(scoring); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			scoring = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(candidates); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			candidates = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromSink{assignments: assignments, conflicts: conflicts, scoring: scoring, candidates: candidates}, nil
}

func (s *PromSink) RecordAssignment(r coremetrics.AssignmentRecord) error {
	outcome := "committed"
	if r.Cancelled {
		outcome = "cancelled"
	}
	s.assignments.WithLabelValues(r.Assignment.VehicleID, outcome).Inc()
	return nil
}

func (s *PromSink) RecordConflict(r coremetrics.ConflictRecord) error {
	s.conflicts.WithLabelValues(string(r.Kind)).Inc()
	return nil
}

func (s *PromSink) RecordScoring(r coremetrics.ScoringRecord) error {
	s.scoring.Observe(r.Duration.Seconds())
	s.candidates.Set(float64(r.Candidates))
	return nil
}

// StartPromServer serves the Prometheus scrape endpoint until the context is
// canceled.
func StartPromServer(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.New("prom-server").Errorf("shutdown: %v", err)
		}
		cancel()
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
