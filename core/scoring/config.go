package scoring

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Weights defines the scoring factor weights loaded from configuration.
// They must sum to 1.
type Weights struct {
	Availability float64 `json:"availability" yaml:"availability"`
	Proximity    float64 `json:"proximity" yaml:"proximity"`
	Fuel         float64 `json:"fuel" yaml:"fuel"`
	Utilization  float64 `json:"utilization" yaml:"utilization"`
	Maintenance  float64 `json:"maintenance" yaml:"maintenance"`
	Class        float64 `json:"class" yaml:"class"`
}

// DefaultWeights returns the standard factor weights.
func DefaultWeights() Weights {
	return Weights{
		Availability: 0.35,
		Proximity:    0.20,
		Fuel:         0.15,
		Utilization:  0.15,
		Maintenance:  0.10,
		Class:        0.05,
	}
}

// Validate checks that every weight is non-negative and the sum is 1.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"availability": w.Availability,
		"proximity":    w.Proximity,
		"fuel":         w.Fuel,
		"utilization":  w.Utilization,
		"maintenance":  w.Maintenance,
		"class":        w.Class,
	} {
		if v < 0 {
			return fmt.Errorf("weight %s must be non-negative", name)
		}
	}
	sum := w.Availability + w.Proximity + w.Fuel + w.Utilization + w.Maintenance + w.Class
	if math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("weights must sum to 1, got %g", sum)
	}
	return nil
}

// LoadWeights loads Weights from a JSON or YAML file.
func LoadWeights(path string) (Weights, error) {
	f, err := os.Open(path)
	if err != nil {
		return Weights{}, err
	}
	defer func() { _ = f.Close() }()
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return DecodeWeights(f, ext)
}

// DecodeWeights reads from r to decode Weights in the given format.
func DecodeWeights(r io.Reader, format string) (Weights, error) {
	var w Weights
	switch strings.ToLower(format) {
	case "yaml", "yml":
		dec := yaml.NewDecoder(r)
		if err := dec.Decode(&w); err != nil {
			return w, err
		}
	case "json":
		dec := json.NewDecoder(r)
		if err := dec.Decode(&w); err != nil {
			return w, err
		}
	default:
		return w, fmt.Errorf("unsupported format: %s", format)
	}
	if err := w.Validate(); err != nil {
		return w, err
	}
	return w, nil
}
