package mqtt

import (
	"encoding/json"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/fleetops/fleetsched/core/fleetstatus"
	"github.com/fleetops/fleetsched/infra/logger"
)

// TelemetryMessage is the JSON payload vehicles publish on
// fleet/telemetry/<vehicle_id>.
type TelemetryMessage struct {
	VehicleID     string   `json:"vehicle_id"`
	FuelPercent   float64  `json:"fuel_percent"`
	OdometerKm    float64  `json:"odometer_km"`
	NextServiceKm float64  `json:"next_service_km"`
	DailyUsage    *float64 `json:"daily_usage,omitempty"`
}

// TelemetrySubscriber consumes vehicle telemetry and keeps the fleet-status
// store current. It is the collaborator feed behind the fleet-status scoring
// provider.
type TelemetrySubscriber struct {
	cli   pahoClient
	cfg   Config
	store fleetstatus.Store
	log   logger.Logger
	now   func() time.Time
}

// NewTelemetrySubscriber connects to the broker and subscribes to the
// telemetry topic.
func NewTelemetrySubscriber(cfg Config, store fleetstatus.Store) (*TelemetrySubscriber, error) {
	cfg.SetDefaults()
	log := logger.New("telemetry")
	sub := &TelemetrySubscriber{cfg: cfg, store: store, log: log, now: time.Now}

	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	opts.OnConnect = func(c paho.Client) {
		log.Infof("MQTT connected, subscribing to %s", cfg.TelemetryTopic)
		if token := c.Subscribe(cfg.TelemetryTopic, cfg.QoS, sub.onMessage); token.Wait() && token.Error() != nil {
			log.Errorf("subscribe error: %v", token.Error())
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}

	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	sub.cli = c
	return sub, nil
}

// Close disconnects from the broker.
func (s *TelemetrySubscriber) Close() {
	if s.cli != nil && s.cli.IsConnected() {
		s.cli.Disconnect(250)
	}
}

func (s *TelemetrySubscriber) onMessage(_ paho.Client, msg paho.Message) {
	var m TelemetryMessage
	if err := json.Unmarshal(msg.Payload(), &m); err != nil {
		s.log.Warnf("malformed telemetry on %s: %v", msg.Topic(), err)
		return
	}
	if m.VehicleID == "" {
		m.VehicleID = vehicleIDFromTopic(msg.Topic())
	}
	if m.VehicleID == "" {
		s.log.Warnf("telemetry without vehicle id on %s", msg.Topic())
		return
	}
	s.store.Set(fleetstatus.Snapshot{
		VehicleID:     m.VehicleID,
		FuelPercent:   m.FuelPercent,
		OdometerKm:    m.OdometerKm,
		NextServiceKm: m.NextServiceKm,
		ReportedAt:    s.now(),
	})
	if m.DailyUsage != nil {
		s.store.AppendUsage(m.VehicleID, *m.DailyUsage)
	}
	s.log.Debugw("telemetry applied", map[string]any{
		"vehicle_id": m.VehicleID,
		"fuel":       m.FuelPercent,
	})
}

func vehicleIDFromTopic(topic string) string {
	idx := strings.LastIndex(topic, "/")
	if idx < 0 || idx == len(topic)-1 {
		return ""
	}
	return topic[idx+1:]
}
