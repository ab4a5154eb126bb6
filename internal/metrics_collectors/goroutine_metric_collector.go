package metrics_collectors

import (
	"context"
	"runtime"

	"github.com/rs/zerolog"
)

// GoroutineMetricCollector reports the number of live goroutines, a cheap
// proxy for leaked fetch workers or stuck subscribers.
type GoroutineMetricCollector struct {
	Logger zerolog.Logger
}

// Name returns the identifier for the goroutine metric collector.
func (g *GoroutineMetricCollector) Name() string {
	return "goroutines"
}

// Collect retrieves the current goroutine count.
func (g *GoroutineMetricCollector) Collect(_ context.Context) interface{} {
	count := runtime.NumGoroutine()
	return &count
}

// Unit specifies the unit for the goroutine metric.
func (g *GoroutineMetricCollector) Unit() string {
	return "count"
}
