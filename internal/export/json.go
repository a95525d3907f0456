package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/spikesim/internal/sim"
)

type ExportData struct {
	Model   string               `json:"model"`
	Params  map[string]float64   `json:"params"`
	Steps   int                  `json:"steps"`
	Time    []float64            `json:"time"`
	Voltage []float64            `json:"voltage"`
	Current []float64            `json:"current"`
	Gating  map[string][]float64 `json:"gating,omitempty"`
	Metrics map[string]float64   `json:"metrics,omitempty"`
}

func NewExportData(model string, params map[string]float64, result *sim.Result) ExportData {
	return ExportData{
		Model:   model,
		Params:  params,
		Steps:   result.Len(),
		Time:    result.Time,
		Voltage: result.Voltage,
		Current: result.Current,
		Gating:  result.Gating,
		Metrics: result.Metrics,
	}
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
