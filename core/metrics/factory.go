package metrics

import "github.com/fleetops/fleetsched/core/factory"

var sinkRegistry = factory.NewRegistry[MetricsSink]()

// RegisterMetricsSink adds a metrics sink factory identified by name.
func RegisterMetricsSink(name string, f factory.Factory[MetricsSink]) error {
	return sinkRegistry.Register(name, f)
}

// NewMetricsSink creates a MetricsSink from the provided configuration. With
// no sink configured a NopSink is returned.
func NewMetricsSink(cfgs []factory.ModuleConfig) (MetricsSink, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	if len(cfgs) == 1 {
		return sinkRegistry.Create(cfgs[0])
	}
	sinks := make([]MetricsSink, len(cfgs))
	for i, c := range cfgs {
		s, err := sinkRegistry.Create(c)
		if err != nil {
			return nil, err
		}
		sinks[i] = s
	}
	return NewMultiSink(sinks...), nil
}

// MultiSink fans records out to several sinks, returning the first error.
type MultiSink struct {
	sinks []MetricsSink
}

// NewMultiSink combines sinks into one.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) RecordAssignment(r AssignmentRecord) error {
	for _, s := range m.sinks {
		if err := s.RecordAssignment(r); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiSink) RecordConflict(r ConflictRecord) error {
	for _, s := range m.sinks {
		if err := s.RecordConflict(r); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiSink) RecordScoring(r ScoringRecord) error {
	for _, s := range m.sinks {
		if err := s.RecordScoring(r); err != nil {
			return err
		}
	}
	return nil
}
