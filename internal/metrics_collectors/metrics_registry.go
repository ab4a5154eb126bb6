package metrics_collectors

import (
	"context"

	"github.com/rs/zerolog"
)

// Registry holds the enabled metric collectors.
type Registry struct {
	collectors []MetricCollector
	logger     zerolog.Logger
}

// NewRegistry creates a registry with the default process collectors.
func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		collectors: []MetricCollector{
			&CPUMetricCollector{Logger: logger},
			&MemoryMetricCollector{Logger: logger},
			&GoroutineMetricCollector{Logger: logger},
		},
		logger: logger,
	}
}

// CollectAll runs every collector and returns the non-nil results keyed by
// metric name.
func (r *Registry) CollectAll(ctx context.Context) map[string]interface{} {
	out := make(map[string]interface{}, len(r.collectors))
	for _, collector := range r.collectors {
		if value := collector.Collect(ctx); value != nil {
			out[collector.Name()] = value
		}
	}
	return out
}
