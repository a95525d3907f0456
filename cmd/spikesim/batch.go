package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/san-kum/spikesim/internal/analysis"
	"github.com/san-kum/spikesim/internal/automation"
	"github.com/san-kum/spikesim/internal/config"
	"github.com/san-kum/spikesim/internal/models"
	"github.com/san-kum/spikesim/internal/storage"
	"github.com/spf13/cobra"
)

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario %s: %d steps\n", scenario.Name, len(scenario.Steps))
	if scenario.Description != "" {
		fmt.Println(scenario.Description)
	}
	fmt.Println()

	start := time.Now()
	results, err := automation.RunScenario(context.Background(), scenario, st)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tMODEL\tSAMPLES\tSPIKES\tRATE (Hz)\tRUN ID")
	for _, r := range results {
		train := analysis.NewSpikeTrain(r.Result, models.SpikeThreshold(r.Params))
		runID := r.RunID
		if runID == "" {
			runID = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.1f\t%s\n",
			r.Name, r.Params.Model(), r.Result.Len(), len(train.Times), train.Rate, runID)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\ncompleted in %v\n", time.Since(start))
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	base, err := resolveParams(cmd, args)
	if err != nil {
		return err
	}
	jit, err := config.ParseOverrides(jitter)
	if err != nil {
		return err
	}

	cfg := &automation.MonteCarloConfig{
		Base:      base,
		Jitter:    jit,
		NumTrials: trials,
		Seed:      seed,
		Parallel:  parallel,
	}

	start := time.Now()
	results, err := automation.RunMonteCarlo(context.Background(), cfg)
	if err != nil {
		return err
	}

	spiking, silent := automation.MonteCarloStats(results)
	fmt.Printf("%d trials in %v\n", len(results), time.Since(start))
	fmt.Printf("spiking: %d  silent: %d  (%.0f%% responded)\n",
		spiking, silent, 100*float64(spiking)/float64(len(results)))

	hist := make(map[int]int)
	maxSpikes := 0
	for _, r := range results {
		hist[r.Spikes]++
		maxSpikes = max(maxSpikes, r.Spikes)
	}

	fmt.Println("\nspike count distribution:")
	for n := 0; n <= maxSpikes; n++ {
		if hist[n] == 0 {
			continue
		}
		fmt.Printf("  %3d  %s %d\n", n, bar(hist[n], len(results), 40), hist[n])
	}
	return nil
}

func bar(n, total, width int) string {
	if total == 0 {
		return ""
	}
	k := n * width / total
	out := make([]rune, k)
	for i := range out {
		out[i] = '█'
	}
	return string(out)
}
