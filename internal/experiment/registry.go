package experiment

import (
	"github.com/san-kum/spikesim/internal/metrics"
	"github.com/san-kum/spikesim/internal/models"
	"github.com/san-kum/spikesim/internal/sim"
)

// DefaultMetrics returns fresh instances of the standard run metrics for p.
// Spikes are counted at the model's spike threshold.
func DefaultMetrics(p models.Params) []sim.Metric {
	return []sim.Metric{
		metrics.NewPeakVoltage(),
		metrics.NewSpikeCount(models.SpikeThreshold(p)),
		metrics.NewInjectedCharge(),
	}
}
