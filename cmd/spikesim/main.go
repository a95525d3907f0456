package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/san-kum/spikesim/internal/tui"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	overrides  []string
	noSave     bool
	outPath    string
	withGating bool
	gateName   string
	svgPath    string
	sweepField string
	sweepFrom  float64
	sweepTo    float64
	sweepN     int
	parallel   int
	protocol   string
	period     float64
	count      int
	target     float64
	gain       float64
	trials     int
	jitter     []string
	seed       int64
	theme      string
	grid       []string
	metric     string
	goal       float64
)

// main registers the spikesim commands. Without a subcommand it opens the
// interactive explorer. It exits with status 1 if a command returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "spikesim",
		Short:         "excitable membrane simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.RunInteractive(theme)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".spikesim", "data directory")
	rootCmd.Flags().StringVar(&theme, "theme", "terminal", fmt.Sprintf("explorer color theme %v", tui.ThemeNames()))

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list supported models",
		Args:  cobra.NoArgs,
		RunE:  listModels,
	}

	defaultsCmd := &cobra.Command{
		Use:   "defaults [model]",
		Short: "show default parameters of a model",
		Args:  cobra.ExactArgs(1),
		RunE:  showDefaults,
	}
	defaultsCmd.Flags().StringVarP(&outPath, "out", "o", "", "write a run config file instead of printing")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run simulation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().StringArrayVar(&overrides, "set", nil, "override a parameter (name=value)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().StringVar(&protocol, "protocol", "", "stimulus protocol: pulse, train, ramp, clamp, off")
	runCmd.Flags().Float64Var(&period, "period", 0, "pulse train period (ms)")
	runCmd.Flags().IntVar(&count, "count", 0, "pulse train length (0 for unlimited)")
	runCmd.Flags().Float64Var(&target, "target", 0, "voltage clamp holding potential (mV)")
	runCmd.Flags().Float64Var(&gain, "gain", 0, "voltage clamp proportional gain")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	exportCSVCmd.Flags().BoolVar(&withGating, "gating", false, "include gating variable columns")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	chartCmd := &cobra.Command{
		Use:   "chart [run_id]",
		Short: "render voltage and current as a PNG chart",
		Args:  cobra.ExactArgs(1),
		RunE:  chartRun,
	}
	chartCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <run_id>.png)")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase plane plot of voltage against a gating variable",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().StringVar(&gateName, "gate", "", "gating variable (default first recorded)")
	phaseCmd.Flags().StringVar(&svgPath, "svg", "", "also write the trajectory as SVG")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spike train and frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "run a model over a range of one parameter",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepModel,
	}
	sweepCmd.Flags().StringVar(&sweepField, "field", "stimulusCurrent", "parameter to vary")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 20, "last value")
	sweepCmd.Flags().IntVar(&sweepN, "n", 11, "number of values")
	sweepCmd.Flags().IntVar(&parallel, "parallel", runtime.NumCPU(), "concurrent runs")
	sweepCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	sweepCmd.Flags().StringArrayVar(&overrides, "set", nil, "override a parameter (name=value)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of simulations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [model]",
		Short: "run trials with randomly jittered parameters",
		Args:  cobra.ExactArgs(1),
		RunE:  runMonteCarlo,
	}
	monteCarloCmd.Flags().IntVar(&trials, "trials", 50, "number of trials")
	monteCarloCmd.Flags().StringArrayVar(&jitter, "jitter", []string{"stimulusCurrent=0.1"}, "relative jitter of a parameter (name=fraction)")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 for time based)")
	monteCarloCmd.Flags().IntVar(&parallel, "parallel", runtime.NumCPU(), "concurrent runs")
	monteCarloCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	monteCarloCmd.Flags().StringArrayVar(&overrides, "set", nil, "override a parameter (name=value)")

	searchCmd := &cobra.Command{
		Use:   "search [model]",
		Short: "grid search for parameters that bring a metric closest to a goal",
		Args:  cobra.ExactArgs(1),
		RunE:  searchGrid,
	}
	searchCmd.Flags().StringArrayVar(&grid, "grid", nil, "parameter values: name=v1,v2,... or name=from:to:n")
	searchCmd.Flags().StringVar(&metric, "metric", "spike_count", "metric to match")
	searchCmd.Flags().Float64Var(&goal, "goal", 1, "metric value to aim for")
	searchCmd.Flags().IntVar(&parallel, "parallel", runtime.NumCPU(), "concurrent runs")
	searchCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	searchCmd.Flags().StringArrayVar(&overrides, "set", nil, "override a parameter (name=value)")
	_ = searchCmd.MarkFlagRequired("grid")

	benchCmd := &cobra.Command{
		Use:   "bench [model]",
		Short: "benchmark model",
		Args:  cobra.ExactArgs(1),
		RunE:  benchModel,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE:  listPresets,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive parameter explorer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.RunInteractive(theme)
		},
	}
	tuiCmd.Flags().StringVar(&theme, "theme", "terminal", fmt.Sprintf("color theme %v", tui.ThemeNames()))

	rootCmd.AddCommand(modelsCmd, defaultsCmd, runCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd,
		chartCmd, phaseCmd, analyzeCmd, sweepCmd, scenarioCmd, monteCarloCmd, searchCmd, benchCmd, presetsCmd, tuiCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
