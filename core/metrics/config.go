package metrics

import "github.com/fleetops/fleetsched/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusPort is used by the scrape endpoint when a prometheus sink
	// is configured.
	PrometheusPort string `json:"prometheus_port"`
}
