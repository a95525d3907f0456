package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/san-kum/spikesim/internal/sim"
)

// WriteCSV writes one row per sample with a Time,Voltage,Current header.
// With gating set, every recorded auxiliary variable follows as an extra
// column in GateNames order. Values use the shortest exact decimal form.
func WriteCSV(w io.Writer, result *sim.Result, gating bool) error {
	cw := csv.NewWriter(w)

	header := []string{"Time", "Voltage", "Current"}
	var gates []string
	if gating {
		gates = result.GateNames()
		header = append(header, gates...)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for i := range result.Time {
		row[0] = formatFloat(result.Time[i])
		row[1] = formatFloat(result.Voltage[i])
		row[2] = formatFloat(result.Current[i])
		for j, g := range gates {
			row[3+j] = formatFloat(result.Gating[g][i])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses the output of WriteCSV back into a Result.
func ReadCSV(r io.Reader) (*sim.Result, error) {
	cr := csv.NewReader(r)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv: missing header")
	}

	header := records[0]
	if len(header) < 3 || !strings.EqualFold(header[0], "time") {
		return nil, fmt.Errorf("csv: unexpected header %v", header)
	}

	n := len(records) - 1
	result := &sim.Result{
		Time:    make([]float64, n),
		Voltage: make([]float64, n),
		Current: make([]float64, n),
	}
	gates := header[3:]
	if len(gates) > 0 {
		result.Gating = make(map[string][]float64, len(gates))
		for _, g := range gates {
			result.Gating[g] = make([]float64, n)
		}
	}

	for i, record := range records[1:] {
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("csv: row %d column %s: %w", i+1, header[j], err)
			}
			vals[j] = v
		}
		result.Time[i] = vals[0]
		result.Voltage[i] = vals[1]
		result.Current[i] = vals[2]
		for j, g := range gates {
			result.Gating[g][i] = vals[3+j]
		}
	}

	return result, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
