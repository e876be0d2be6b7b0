package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fleetops/fleetsched/api/scheduling"
	apitimeline "github.com/fleetops/fleetsched/api/timeline"
	"github.com/fleetops/fleetsched/config"
	"github.com/fleetops/fleetsched/core/assignment"
	"github.com/fleetops/fleetsched/core/calendar"
	"github.com/fleetops/fleetsched/core/directory"
	"github.com/fleetops/fleetsched/core/fleetstatus"
	coremetrics "github.com/fleetops/fleetsched/core/metrics"
	"github.com/fleetops/fleetsched/core/scoring"
	"github.com/fleetops/fleetsched/infra/logger"
	"github.com/fleetops/fleetsched/infra/metrics"
	"github.com/fleetops/fleetsched/infra/mqtt"
	"github.com/fleetops/fleetsched/infra/storage/sqlite"
	"github.com/fleetops/fleetsched/internal/eventbus"
)

// Service wires the scheduling store, scorer, coordinator and transports.
type Service struct {
	Store       assignment.Store
	Directory   directory.Store
	Coordinator *assignment.Coordinator
	Scorer      *scoring.Scorer

	cfg   *config.Config
	bus   eventbus.EventBus
	sink  coremetrics.MetricsSink
	fleet *fleetstatus.MemoryStore
	sub   *mqtt.TelemetrySubscriber
	store *sqlite.Store
	log   logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var (
		store assignment.Store
		cal   calendar.Store
		dbs   *sqlite.Store
	)
	switch cfg.Storage.Backend {
	case "sqlite":
		s, err := sqlite.New(cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("sqlite store: %w", err)
		}
		store, cal, dbs = s, s, s
	default:
		mem := calendar.NewMemoryStore()
		store, cal = assignment.NewMemoryStore(mem), mem
	}

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	fleet := fleetstatus.NewMemoryStore()
	weights, err := cfg.Scoring.ResolveWeights()
	if err != nil {
		return nil, fmt.Errorf("scoring weights: %w", err)
	}

	dir := directory.NewMemoryStore()
	bus := eventbus.New()
	scorer := scoring.NewScorer(cal, nil, fleetstatus.NewProvider(fleet), logg)
	scorer.ApplyWeights(weights)
	coord := assignment.NewCoordinator(store, dir, bus, logg)

	svc := &Service{
		Store:       store,
		Directory:   dir,
		Coordinator: coord,
		Scorer:      scorer,
		cfg:         cfg,
		bus:         bus,
		sink:        sink,
		fleet:       fleet,
		store:       dbs,
		log:         logg,
	}
	if cfg.MQTT.Enabled() {
		sub, err := mqtt.NewTelemetrySubscriber(cfg.MQTT, fleet)
		if err != nil {
			return nil, fmt.Errorf("telemetry subscriber: %w", err)
		}
		svc.sub = sub
	}
	return svc, nil
}

// Run starts the HTTP server and background collectors, blocking until the
// context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	metrics.StartEventCollector(ctx, s.bus, s.sink)
	if s.cfg.Metrics.PrometheusPort != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:    s.cfg.Server.Addr,
		Handler: s.router(),
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("http server listening on %s", s.cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Service) router() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("POST /api/trips/{id}/candidates", scheduling.NewCandidatesHandler(s.Scorer, s.Store, s.Directory, s.sink, s.log))
	mux.Handle("POST /api/assignments", scheduling.NewAssignHandler(s.Coordinator, s.log))
	mux.Handle("DELETE /api/assignments/{id}", scheduling.NewCancelHandler(s.Coordinator, s.log))
	mux.Handle("GET /api/timeline", apitimeline.NewDayHandler(s.Store, s.log))
	return mux
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.sub != nil {
		s.sub.Close()
	}
	s.bus.Close()
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
