package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/spikesim/internal/analysis"
	"github.com/san-kum/spikesim/internal/export"
	"github.com/san-kum/spikesim/internal/models"
	"github.com/san-kum/spikesim/internal/sim"
	"github.com/san-kum/spikesim/internal/storage"
	"github.com/spf13/cobra"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tDURATION\tDT\tSTEPS\tSPIKES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1fms\t%.3fms\t%d\t%.0f\n",
			run.ID,
			run.Model,
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Steps,
			run.Metrics["spike_count"],
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, *sim.Result, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	result, err := st.LoadTrace(runID)
	if err != nil {
		return nil, nil, err
	}
	if result.Len() == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", runID)
	}
	return meta, result, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("samples: %d\n\n", result.Len())

	traces := []struct {
		caption string
		data    []float64
	}{
		{"membrane potential (mV)", result.Voltage},
		{"injected current", result.Current},
	}
	for _, g := range result.GateNames() {
		traces = append(traces, struct {
			caption string
			data    []float64
		}{"gating variable " + g, result.Gating[g]})
	}

	for _, tr := range traces {
		graph := asciigraph.Plot(tr.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(tr.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

// output returns stdout when outPath is empty. The close func is always safe
// to call.
func output() (io.Writer, func() error, error) {
	if outPath == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	w, closeOut, err := output()
	if err != nil {
		return err
	}
	if err := export.WriteCSV(w, result, withGating); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	w, closeOut, err := output()
	if err != nil {
		return err
	}
	data := export.NewExportData(string(meta.Model), meta.Params, result)
	if err := export.WriteJSON(w, data); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}

func chartRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	path := outPath
	if path == "" {
		path = meta.ID + ".png"
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s (%s)", meta.Model, meta.ID)
	if err := export.WriteChart(f, title, result.Time, result.Voltage, result.Current); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", path)
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	gates := result.GateNames()
	if len(gates) == 0 {
		return fmt.Errorf("model %s records no gating variables", meta.Model)
	}
	gate := gateName
	if gate == "" {
		gate = gates[0]
	}

	portrait, err := analysis.NewPhasePortrait(result, gate)
	if err != nil {
		return err
	}

	fmt.Printf("phase plane: %s\n", meta.ID)
	fmt.Printf("x: voltage (mV), y: %s\n\n", gate)
	fmt.Print(analysis.PhasePortraitToASCII(portrait, 70, 20))

	if svgPath != "" {
		xs, ys := portrait.XY()
		svg := export.PhaseSVG(xs, ys, 600, 400, "#00d7af")
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", svgPath)
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("spike analysis: %s\n", meta.ID)
	fmt.Printf("model: %s\n\n", meta.Model)

	threshold := models.DefaultSpikeThreshold
	if p, err := meta.Parameters(); err == nil {
		threshold = models.SpikeThreshold(p)
	}
	train := analysis.NewSpikeTrain(result, threshold)
	fmt.Printf("spikes: %d\n", len(train.Times))
	fmt.Printf("rate: %.2f hz\n", train.Rate)
	if len(train.Times) > 0 {
		fmt.Printf("first spike: %.3f ms\n", train.Times[0])
	}
	if len(train.ISIs) > 0 {
		fmt.Printf("mean isi: %.3f ms (cv %.3f)\n", train.MeanISI, train.CV)
	}

	ps := analysis.PowerSpectrum(result.Voltage)
	if len(ps) < 8 {
		return nil
	}
	plotData := ps[:len(ps)/4]

	fmt.Println()
	fmt.Println(asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (voltage)"),
	))
	fmt.Println()

	freq := analysis.DominantFrequency(result.Voltage, meta.Dt)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f ms\n", 1000.0/freq)
	}

	return nil
}
