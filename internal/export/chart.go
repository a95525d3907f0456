package export

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const maxChartPoints = 2000

// WriteChart renders voltage against time as a PNG, with the injected current
// on the secondary axis. A current trace that never changes is omitted.
func WriteChart(w io.Writer, title string, times, voltage, current []float64) error {
	if len(times) < 2 {
		return fmt.Errorf("chart: need at least 2 samples, got %d", len(times))
	}

	t := decimate(times, maxChartPoints)
	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "Voltage (mV)",
			XValues: t,
			YValues: decimate(voltage, maxChartPoints),
			Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2.0},
		},
	}
	if !constant(current) {
		series = append(series, chart.ContinuousSeries{
			Name:    "Current",
			YAxis:   chart.YAxisSecondary,
			XValues: t,
			YValues: decimate(current, maxChartPoints),
			Style:   chart.Style{StrokeColor: drawing.Color{R: 255, G: 165, B: 0, A: 255}, StrokeWidth: 1.5},
		})
	}

	graph := chart.Chart{
		Title:  title,
		Width:  1024,
		Height: 400,
		XAxis: chart.XAxis{
			Name:  "Time (ms)",
			Style: chart.Style{FontSize: 10.0},
		},
		YAxis: chart.YAxis{
			Name:  "Voltage (mV)",
			Style: chart.Style{FontSize: 10.0},
		},
		YAxisSecondary: chart.YAxis{
			Name:  "Current",
			Style: chart.Style{FontSize: 10.0},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.PNG, w)
}

// decimate keeps every k-th sample so that at most max remain, always
// keeping the last one.
func decimate(xs []float64, max int) []float64 {
	if len(xs) <= max {
		return xs
	}
	stride := (len(xs) + max - 1) / max
	out := make([]float64, 0, len(xs)/stride+2)
	for i := 0; i < len(xs); i += stride {
		out = append(out, xs[i])
	}
	if (len(xs)-1)%stride != 0 {
		out = append(out, xs[len(xs)-1])
	}
	return out
}

func constant(xs []float64) bool {
	for _, x := range xs {
		if x != xs[0] {
			return false
		}
	}
	return true
}
