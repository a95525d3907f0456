// Package analysis derives secondary measurements from simulated traces.
//
//   - [DetectSpikes]: threshold crossing times, interpolated between samples
//   - [NewSpikeTrain]: interspike intervals and firing rate of a trace
//   - [FICurve]: firing rate against stimulus amplitude from a sweep
//   - [NewPhasePortrait]: voltage against one recorded gating variable
//   - [PowerSpectrum]: magnitude spectrum of the voltage trace
//
// Times are in milliseconds throughout; rates and frequencies are in Hz.
//
//	train := analysis.NewSpikeTrain(result, 0)
//	fmt.Printf("%d spikes, %.1f Hz\n", len(train.Times), train.Rate)
package analysis
