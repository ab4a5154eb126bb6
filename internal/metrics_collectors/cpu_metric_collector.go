package metrics_collectors

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/cpu"
)

// CPUMetricCollector collects the total CPU usage percentage.
type CPUMetricCollector struct {
	Logger zerolog.Logger
}

// Name returns the identifier for the CPU metric collector.
func (c *CPUMetricCollector) Name() string {
	return "cpu"
}

// Collect retrieves the aggregate CPU usage percentage.
func (c *CPUMetricCollector) Collect(ctx context.Context) interface{} {
	percentages, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil || len(percentages) == 0 {
		c.Logger.Error().Err(err).Msg("Failed to retrieve CPU statistics")
		return nil
	}

	return &percentages[0]
}

// Unit specifies the unit for CPU usage metrics.
func (c *CPUMetricCollector) Unit() string {
	return "percentage"
}
