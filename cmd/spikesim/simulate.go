package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/spikesim/internal/analysis"
	"github.com/san-kum/spikesim/internal/config"
	"github.com/san-kum/spikesim/internal/controllers"
	"github.com/san-kum/spikesim/internal/experiment"
	"github.com/san-kum/spikesim/internal/kinetics"
	"github.com/san-kum/spikesim/internal/models"
	"github.com/san-kum/spikesim/internal/sim"
	"github.com/san-kum/spikesim/internal/storage"
	"github.com/spf13/cobra"
)

func listModels(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tDESCRIPTION")
	for _, d := range experiment.ListModels() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.ID, d.Name, d.Category, d.Description)
	}
	return w.Flush()
}

func showDefaults(cmd *cobra.Command, args []string) error {
	id := models.ID(args[0])
	p, err := experiment.DefaultParameters(id)
	if err != nil {
		return err
	}

	if outPath != "" {
		if err := config.Save(outPath, config.FromParams(p)); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outPath)
		return nil
	}

	fields, err := models.Fields(id)
	if err != nil {
		return err
	}
	values := models.Values(p)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tVALUE\tUNIT")
	for _, f := range fields {
		fmt.Fprintf(w, "%s\t%g\t%s\n", f.Name, values[f.Name], f.Unit)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if id != models.HodgkinHuxley {
		return nil
	}
	rest := p.System().InitialState()[0]
	fmt.Printf("\ngating at rest (%g mV):\n", rest)
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GATE\tINF\tTAU (ms)")
	for _, g := range kinetics.HodgkinHuxleyGates(rest) {
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\n", g.Name, g.Inf, g.Tau)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	id := models.ID(args[0])
	if _, err := models.Lookup(id); err != nil {
		return err
	}

	presets := config.ListPresets(id)
	if len(presets) == 0 {
		fmt.Printf("no presets for model: %s\n", id)
		return nil
	}
	fmt.Printf("presets for %s:\n", id)
	for _, p := range presets {
		fmt.Printf("  %s\n", p)
	}
	return nil
}

// resolveParams applies defaults, then the preset, then the config file, then
// --set overrides, and validates the outcome.
func resolveParams(cmd *cobra.Command, args []string) (models.Params, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if len(args) > 0 {
		if configFile != "" && args[0] != cfg.Model {
			return nil, fmt.Errorf("model %s does not match config model %s", args[0], cfg.Model)
		}
		cfg.Model = args[0]
	}
	if cmd.Flags().Changed("preset") {
		cfg.Preset = preset
	}

	p, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}

	sets, err := config.ParseOverrides(overrides)
	if err != nil {
		return nil, err
	}
	if err := config.Apply(p, sets); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// resolveProtocol starts from the config file's protocol and applies the
// protocol flags that were given.
func resolveProtocol(cmd *cobra.Command) (*config.Protocol, error) {
	var proto *config.Protocol
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		proto = cfg.Protocol
	}
	if proto == nil {
		proto = &config.Protocol{Kind: controllers.Pulse}
	}

	flags := cmd.Flags()
	if flags.Changed("protocol") {
		proto.Kind = controllers.Protocol(protocol)
	}
	if flags.Changed("period") {
		proto.Period = period
	}
	if flags.Changed("count") {
		proto.Count = count
	}
	if flags.Changed("target") {
		proto.Target = &target
	}
	if flags.Changed("gain") {
		proto.Gain = gain
	}
	return proto, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	p, err := resolveParams(cmd, args)
	if err != nil {
		return err
	}
	proto, err := resolveProtocol(cmd)
	if err != nil {
		return err
	}
	drive, err := proto.Controller(p)
	if err != nil {
		return err
	}

	exp, err := experiment.New(p)
	if err != nil {
		return err
	}
	exp.Drive(drive)
	exp.Setup(experiment.DefaultMetrics(p)...)

	fmt.Printf("running %s simulation (%s)...\n", p.Model(), proto.Kind)
	start := time.Now()

	result, err := exp.Run()
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(p, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	fmt.Printf("steps: %d\n", result.Len())

	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)

	if result.Len() > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(result.Voltage,
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("membrane potential (mV)"),
		))
	}

	return nil
}

func printMetrics(metrics map[string]float64) {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, metrics[name])
	}
}

func sweepModel(cmd *cobra.Command, args []string) error {
	base, err := resolveParams(cmd, args)
	if err != nil {
		return err
	}

	values := experiment.Range(sweepFrom, sweepTo, sweepN)
	if len(values) == 0 {
		return fmt.Errorf("--n must be positive")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	start := time.Now()
	points, err := experiment.Sweep(ctx, base, sweepField, values, parallel)
	if err != nil {
		return err
	}
	fmt.Printf("%d runs in %v\n\n", len(points), time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSPIKES\tRATE (Hz)\tPEAK (mV)\n", sweepField)
	for _, pt := range points {
		train := analysis.NewSpikeTrain(pt.Result, models.SpikeThreshold(base))
		fmt.Fprintf(w, "%g\t%d\t%.1f\t%.2f\n", pt.Value, len(train.Times), train.Rate, pt.Result.Metrics["peak_voltage"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if sweepField != "stimulusCurrent" {
		return nil
	}

	timing := base.Common()
	results := make([]*sim.Result, len(points))
	for i, pt := range points {
		results[i] = pt.Result
	}
	curve := analysis.FICurve(values, results, timing.StimulusStart, timing.StimulusDuration, models.SpikeThreshold(base))

	fmt.Println("\nf-i curve:")
	fmt.Print(analysis.FICurveToASCII(curve, 60, 10))
	if rheobase, ok := analysis.Rheobase(curve); ok {
		fmt.Printf("rheobase: %g\n", rheobase)
	} else {
		fmt.Println("no spikes in range")
	}
	return nil
}

func benchModel(cmd *cobra.Command, args []string) error {
	base, err := experiment.DefaultParameters(models.ID(args[0]))
	if err != nil {
		return err
	}

	durations := []float64{50, 100, 500}
	dts := []float64{0.001, 0.01, 0.1}

	fmt.Printf("benchmarking %s\n\n", base.Model())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tSTEPS\tTIME\tSTEPS/SEC")

	for _, dur := range durations {
		for _, dt := range dts {
			p := models.Clone(base)
			if err := config.Apply(p, map[string]float64{"duration": dur, "timeStep": dt}); err != nil {
				return err
			}

			start := time.Now()
			result, err := experiment.Simulate(p)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			steps := result.Len()
			stepsPerSec := float64(steps) / elapsed.Seconds()

			fmt.Fprintf(w, "%.0fms\t%.3fms\t%d\t%v\t%.0f\n",
				dur, dt, steps, elapsed, stepsPerSec)
		}
	}

	return w.Flush()
}
