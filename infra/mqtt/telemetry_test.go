package mqtt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetops/fleetsched/core/fleetstatus"
	"github.com/fleetops/fleetsched/infra/logger"
)

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 0 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 0 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

func newTestSubscriber(store fleetstatus.Store) *TelemetrySubscriber {
	return &TelemetrySubscriber{
		cfg:   Config{TelemetryTopic: "fleet/telemetry/+"},
		store: store,
		log:   logger.NopLogger{},
		now:   func() time.Time { return time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC) },
	}
}

func TestTelemetry_AppliesSnapshot(t *testing.T) {
	store := fleetstatus.NewMemoryStore()
	sub := newTestSubscriber(store)

	sub.onMessage(nil, fakeMessage{
		topic:   "fleet/telemetry/v1",
		payload: []byte(`{"fuel_percent":80,"odometer_km":12000,"next_service_km":15000,"daily_usage":30}`),
	})

	sn, ok := store.Get("v1")
	require.True(t, ok)
	assert.Equal(t, 80.0, sn.FuelPercent)
	assert.Equal(t, 12000.0, sn.OdometerKm)
	require.Len(t, sn.DailyUsage, 1)
	assert.Equal(t, 30.0, sn.DailyUsage[0])
	assert.Equal(t, time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC), sn.ReportedAt)
}

func TestTelemetry_ExplicitVehicleIDWins(t *testing.T) {
	store := fleetstatus.NewMemoryStore()
	sub := newTestSubscriber(store)

	sub.onMessage(nil, fakeMessage{
		topic:   "fleet/telemetry/ignored",
		payload: []byte(`{"vehicle_id":"v9","fuel_percent":55}`),
	})

	_, ok := store.Get("ignored")
	assert.False(t, ok)
	sn, ok := store.Get("v9")
	require.True(t, ok)
	assert.Equal(t, 55.0, sn.FuelPercent)
}

func TestTelemetry_IgnoresMalformedPayload(t *testing.T) {
	store := fleetstatus.NewMemoryStore()
	sub := newTestSubscriber(store)

	sub.onMessage(nil, fakeMessage{topic: "fleet/telemetry/v1", payload: []byte("not json")})
	assert.Empty(t, store.List())
}

func TestVehicleIDFromTopic(t *testing.T) {
	assert.Equal(t, "v1", vehicleIDFromTopic("fleet/telemetry/v1"))
	assert.Equal(t, "", vehicleIDFromTopic("fleet/telemetry/"))
	assert.Equal(t, "", vehicleIDFromTopic("noslash"))
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}
	cfg.SetDefaults()
	assert.Equal(t, "fleetsched", cfg.ClientID)
	assert.Equal(t, "fleet/telemetry/+", cfg.TelemetryTopic)
	assert.False(t, cfg.Enabled())
	cfg.Broker = "tcp://localhost:1883"
	assert.True(t, cfg.Enabled())
}
