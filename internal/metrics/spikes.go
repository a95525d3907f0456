package metrics

// SpikeCount counts upward crossings of a voltage threshold between
// consecutive samples.
type SpikeCount struct {
	name      string
	threshold float64
	count     int
	above     bool
	started   bool
}

func NewSpikeCount(threshold float64) *SpikeCount {
	return &SpikeCount{
		name:      "spike_count",
		threshold: threshold,
	}
}

func (s *SpikeCount) Name() string {
	return s.name
}

func (s *SpikeCount) Observe(v, _, _ float64) {
	above := v >= s.threshold
	if s.started && above && !s.above {
		s.count++
	}
	s.above = above
	s.started = true
}

func (s *SpikeCount) Value() float64 {
	return float64(s.count)
}

func (s *SpikeCount) Reset() {
	s.count = 0
	s.above = false
	s.started = false
}
