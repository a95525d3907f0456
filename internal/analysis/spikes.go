package analysis

import (
	"math"

	"github.com/san-kum/spikesim/internal/sim"
)

// DetectSpikes returns the times at which voltage crosses threshold from
// below. The crossing time is interpolated linearly between the bracketing
// samples. A trace that starts above threshold does not count as a spike.
func DetectSpikes(times, voltage []float64, threshold float64) []float64 {
	n := min(len(times), len(voltage))
	spikes := make([]float64, 0)

	for i := 1; i < n; i++ {
		prev, curr := voltage[i-1], voltage[i]
		if prev >= threshold || curr < threshold {
			continue
		}

		frac := (threshold - prev) / (curr - prev)
		if math.IsNaN(frac) || math.IsInf(frac, 0) {
			frac = 1
		}
		spikes = append(spikes, times[i-1]+frac*(times[i]-times[i-1]))
	}

	return spikes
}

// ISI returns the intervals between consecutive spike times.
func ISI(spikes []float64) []float64 {
	if len(spikes) < 2 {
		return nil
	}
	out := make([]float64, len(spikes)-1)
	for i := range out {
		out[i] = spikes[i+1] - spikes[i]
	}
	return out
}

// FiringRate converts a spike count over duration milliseconds into Hz.
func FiringRate(count int, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	return float64(count) * 1000 / duration
}

// SpikeTrain summarizes the spiking of one trace.
type SpikeTrain struct {
	Times   []float64
	ISIs    []float64
	Rate    float64 // Hz over the whole trace
	MeanISI float64 // ms, zero with fewer than two spikes
	CV      float64 // coefficient of variation of the ISIs
}

func NewSpikeTrain(result *sim.Result, threshold float64) SpikeTrain {
	train := SpikeTrain{
		Times: DetectSpikes(result.Time, result.Voltage, threshold),
	}
	train.ISIs = ISI(train.Times)

	if n := result.Len(); n > 0 {
		span := result.Time[n-1]
		if n > 1 {
			span += result.Time[1] - result.Time[0]
		}
		train.Rate = FiringRate(len(train.Times), span)
	}

	if len(train.ISIs) > 0 {
		var sum float64
		for _, d := range train.ISIs {
			sum += d
		}
		train.MeanISI = sum / float64(len(train.ISIs))

		var sq float64
		for _, d := range train.ISIs {
			sq += (d - train.MeanISI) * (d - train.MeanISI)
		}
		if train.MeanISI > 0 {
			train.CV = math.Sqrt(sq/float64(len(train.ISIs))) / train.MeanISI
		}
	}

	return train
}
