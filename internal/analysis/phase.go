package analysis

import (
	"fmt"

	"github.com/san-kum/spikesim/internal/sim"
)

// PhasePortrait holds voltage against one auxiliary variable.
type PhasePortrait struct {
	Gate   string
	Points []struct{ X, Y float64 }
}

// NewPhasePortrait pairs the voltage trace with the named gating trace.
func NewPhasePortrait(result *sim.Result, gate string) (*PhasePortrait, error) {
	ys, ok := result.Gating[gate]
	if !ok {
		return nil, fmt.Errorf("no gating variable %q (have %v)", gate, result.GateNames())
	}

	n := min(len(result.Voltage), len(ys))
	portrait := &PhasePortrait{
		Gate:   gate,
		Points: make([]struct{ X, Y float64 }, n),
	}
	for i := 0; i < n; i++ {
		portrait.Points[i].X = result.Voltage[i]
		portrait.Points[i].Y = ys[i]
	}

	return portrait, nil
}

// XY splits the points into separate coordinate slices.
func (p *PhasePortrait) XY() (xs, ys []float64) {
	xs = make([]float64, len(p.Points))
	ys = make([]float64, len(p.Points))
	for i, pt := range p.Points {
		xs[i], ys[i] = pt.X, pt.Y
	}
	return xs, ys
}

// PhasePortraitToASCII converts phase portrait to ASCII art
func PhasePortraitToASCII(portrait *PhasePortrait, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y
	for _, p := range portrait.Points {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := newCanvas(width, height)

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// Draw the 0 mV line if it is visible
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}

	return renderCanvas(canvas)
}
