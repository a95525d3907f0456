package analysis

import (
	"strings"

	"github.com/san-kum/spikesim/internal/sim"
)

// FIPoint is the response of one run to a given stimulus amplitude.
type FIPoint struct {
	Current float64
	Spikes  int
	Rate    float64 // Hz over the stimulus window
}

// FICurve measures the firing rate of each result against the stimulus
// amplitude it was driven with. Only spikes inside the stimulus window
// [start, start+duration] are counted.
func FICurve(currents []float64, results []*sim.Result, start, duration, threshold float64) []FIPoint {
	n := min(len(currents), len(results))
	points := make([]FIPoint, 0, n)

	for i := 0; i < n; i++ {
		count := 0
		for _, t := range DetectSpikes(results[i].Time, results[i].Voltage, threshold) {
			if t >= start && t <= start+duration {
				count++
			}
		}
		points = append(points, FIPoint{
			Current: currents[i],
			Spikes:  count,
			Rate:    FiringRate(count, duration),
		})
	}

	return points
}

// Rheobase returns the smallest current that produced at least one spike.
func Rheobase(points []FIPoint) (float64, bool) {
	for _, p := range points {
		if p.Spikes > 0 {
			return p.Current, true
		}
	}
	return 0, false
}

// FICurveToASCII plots rate against current, one column per point.
func FICurveToASCII(points []FIPoint, width, height int) string {
	if len(points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	maxRate := 0.0
	for _, p := range points {
		maxRate = max(maxRate, p.Rate)
	}
	if maxRate == 0 {
		maxRate = 1
	}

	canvas := newCanvas(width, height)
	for i, p := range points {
		col := i * width / len(points)
		if col >= width {
			col = width - 1
		}
		row := height - 1 - int(p.Rate/maxRate*float64(height-1))
		canvas[row][col] = '•'
	}

	return renderCanvas(canvas)
}

func newCanvas(width, height int) [][]rune {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}
	return canvas
}

func renderCanvas(canvas [][]rune) string {
	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
