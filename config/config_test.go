package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `server:
  addr: ":9090"
storage:
  backend: "sqlite"
  path: "sched.db"
scoring:
  weights:
    availability: 0.35
    proximity: 0.20
    fuel: 0.15
    utilization: 0.15
    maintenance: 0.10
    class: 0.05
mqtt:
  broker: "tcp://localhost:1883"
  client_id: "cli"
  telemetry_topic: "fleet/telemetry/+"
metrics:
  sinks:
    - type: "nop"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"addr", cfg.Server.Addr, ":9090"},
		{"storage backend", cfg.Storage.Backend, "sqlite"},
		{"storage path", cfg.Storage.Path, "sched.db"},
		{"broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"telemetry topic", cfg.MQTT.TelemetryTopic, "fleet/telemetry/+"},
		{"sink count", len(cfg.Metrics.Sinks), 1},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %v want %v", c.name, c.got, c.want)
		}
	}
	w, err := cfg.Scoring.ResolveWeights()
	if err != nil {
		t.Fatalf("resolve weights: %v", err)
	}
	if w.Availability != 0.35 {
		t.Errorf("availability weight: got %v want 0.35", w.Availability)
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server: {}\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("default addr: got %s", cfg.Server.Addr)
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("default backend: got %s", cfg.Storage.Backend)
	}
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	if _, err := Load("config.toml"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestLoadRejectsBadStorage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("storage:\n  backend: \"redis\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown storage backend")
	}
}
