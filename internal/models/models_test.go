package models_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/spikesim/internal/models"
	"github.com/san-kum/spikesim/internal/sim"
)

var allModels = []models.ID{
	models.HodgkinHuxley,
	models.FitzHughNagumo,
	models.IntegrateFire,
	models.MorrisLecar,
}

var _ = Describe("Catalog", func() {
	It("lists the four models in a fixed order", func() {
		list := models.List()
		Expect(list).To(HaveLen(4))
		for i, d := range list {
			Expect(d.ID).To(Equal(allModels[i]))
			Expect(d.Name).NotTo(BeEmpty())
			Expect(d.Category).To(BeElementOf("Biophysical", "Phenomenological", "Abstract"))
		}
	})

	It("rejects unknown identifiers", func() {
		_, err := models.Defaults("hindmarsh-rose")
		Expect(err).To(MatchError(sim.ErrUnknownModel))

		_, err = models.Lookup("")
		Expect(err).To(MatchError(sim.ErrUnknownModel))
	})

	It("returns valid, independent defaults", func() {
		for _, id := range allModels {
			p, err := models.Defaults(id)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Model()).To(Equal(id))
			Expect(p.Validate()).To(Succeed())

			q, _ := models.Defaults(id)
			Expect(models.Set(q, "duration", 1)).To(Succeed())
			Expect(p.Common().Duration).NotTo(Equal(1.0))
		}
	})

	It("carries the Hodgkin-Huxley reference values", func() {
		p, _ := models.Defaults(models.HodgkinHuxley)
		hh := p.(*models.HodgkinHuxleyParams)
		Expect(hh.TimeStep).To(Equal(0.01))
		Expect(hh.Duration).To(Equal(50.0))
		Expect(hh.StimulusCurrent).To(Equal(10.0))
		Expect(hh.SodiumConductance).To(Equal(120.0))
		Expect(hh.PotassiumReversal).To(Equal(-77.0))
		Expect(hh.LeakReversal).To(Equal(-54.4))
	})
})

var _ = Describe("Field tables", func() {
	It("round-trips through Values and FromValues", func() {
		for _, id := range allModels {
			p, _ := models.Defaults(id)
			q, err := models.FromValues(id, models.Values(p))
			Expect(err).NotTo(HaveOccurred())
			Expect(models.Values(q)).To(Equal(models.Values(p)))
		}
	})

	It("reports a missing field instead of defaulting it", func() {
		p, _ := models.Defaults(models.MorrisLecar)
		vals := models.Values(p)
		delete(vals, "phi")

		_, err := models.FromValues(models.MorrisLecar, vals)
		Expect(err).To(MatchError(sim.ErrInvalidParameters))
		Expect(err.Error()).To(ContainSubstring("phi"))
	})

	It("reports fields that belong to another model", func() {
		p, _ := models.Defaults(models.FitzHughNagumo)
		vals := models.Values(p)
		vals["thresholdVoltage"] = -55

		_, err := models.FromValues(models.FitzHughNagumo, vals)
		Expect(err).To(MatchError(sim.ErrInvalidParameters))
		Expect(err.Error()).To(ContainSubstring("thresholdVoltage"))
	})

	It("accepts the complete FitzHugh-Nagumo catalogue record", func() {
		record := map[string]float64{
			"timeStep": 0.1, "duration": 100,
			"stimulusCurrent": 0.5, "stimulusStart": 20, "stimulusDuration": 5,
			"a": 0.7, "b": 0.8, "tau": 12.5, "threshold": -0.1,
		}
		p, err := models.FromValues(models.FitzHughNagumo, record)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.(*models.FitzHughNagumoParams).Threshold).To(Equal(-0.1))
		Expect(models.Values(p)).To(Equal(record))

		d, _ := models.Defaults(models.FitzHughNagumo)
		Expect(models.Values(d)).To(Equal(record))
	})

	It("lists field names with the common block first", func() {
		fs, err := models.Fields(models.IntegrateFire)
		Expect(err).NotTo(HaveOccurred())
		Expect(fs[0].Name).To(Equal("timeStep"))
		Expect(fs).To(HaveLen(10))
	})

	It("clones without sharing storage", func() {
		p, _ := models.Defaults(models.HodgkinHuxley)
		c := models.Clone(p)
		Expect(models.Set(c, "sodiumConductance", 0)).To(Succeed())
		Expect(models.Values(p)["sodiumConductance"]).To(Equal(120.0))
	})

	It("rejects Set on an unknown field", func() {
		p, _ := models.Defaults(models.HodgkinHuxley)
		Expect(models.Set(p, "phi", 1)).To(MatchError(sim.ErrInvalidParameters))
	})
})

var _ = Describe("Validation", func() {
	DescribeTable("rejects unsimulable parameters",
		func(id models.ID, name string, value float64) {
			p, _ := models.Defaults(id)
			Expect(models.Set(p, name, value)).To(Succeed())
			Expect(p.Validate()).To(MatchError(sim.ErrInvalidParameters))
		},
		Entry("zero time step", models.HodgkinHuxley, "timeStep", 0.0),
		Entry("negative duration", models.FitzHughNagumo, "duration", -5.0),
		Entry("NaN conductance", models.HodgkinHuxley, "sodiumConductance", math.NaN()),
		Entry("infinite stimulus", models.IntegrateFire, "stimulusCurrent", math.Inf(1)),
		Entry("zero capacitance", models.HodgkinHuxley, "membraneCapacitance", 0.0),
		Entry("zero resistance", models.IntegrateFire, "membraneResistance", 0.0),
		Entry("zero tau", models.FitzHughNagumo, "tau", 0.0),
		Entry("zero slope", models.MorrisLecar, "v4", 0.0),
	)
})

var _ = Describe("Systems", func() {
	It("starts from the fixed initial conditions", func() {
		cases := map[models.ID]sim.State{
			models.HodgkinHuxley:  {-65, 0.05, 0.6, 0.32},
			models.FitzHughNagumo: {-1, -0.5},
			models.IntegrateFire:  {-70},
			models.MorrisLecar:    {-60, 0.014},
		}
		for id, want := range cases {
			p, _ := models.Defaults(id)
			sys := p.System()
			Expect(sys.InitialState()).To(Equal(want))
			Expect(sys.StateDim()).To(Equal(len(want)))
		}
	})

	It("maps the FitzHugh-Nagumo fast variable to millivolts", func() {
		p, _ := models.Defaults(models.FitzHughNagumo)
		sys := p.System()
		Expect(sys.Voltage(sim.State{-1, 0})).To(Equal(-170.0))
		Expect(sys.Voltage(sim.State{0.5, 0})).To(Equal(-20.0))
	})

	It("places the spike threshold on the reported voltage axis", func() {
		p, _ := models.Defaults(models.FitzHughNagumo)
		Expect(models.SpikeThreshold(p)).To(BeNumerically("~", -80.0, 1e-12))
		Expect(models.Set(p, "threshold", 0.5)).To(Succeed())
		Expect(models.SpikeThreshold(p)).To(BeNumerically("~", -20.0, 1e-12))

		for _, id := range []models.ID{models.HodgkinHuxley, models.IntegrateFire, models.MorrisLecar} {
			q, _ := models.Defaults(id)
			Expect(models.SpikeThreshold(q)).To(Equal(models.DefaultSpikeThreshold))
		}
	})

	It("holds the integrate-and-fire neuron at rest without input", func() {
		p, _ := models.Defaults(models.IntegrateFire)
		sys := p.System()
		dx := sys.Derivative(sys.InitialState(), sim.Control{0}, 0)
		Expect(dx[0]).To(Equal(0.0))
	})

	It("resets the integrate-and-fire neuron at threshold", func() {
		p, _ := models.Defaults(models.IntegrateFire)
		r, ok := p.System().(sim.Resetter)
		Expect(ok).To(BeTrue())
		Expect(r.Reset(sim.State{-55})).To(Equal(sim.State{-80}))
		Expect(r.Reset(sim.State{-55.5})).To(Equal(sim.State{-55.5}))
	})

	It("exposes gating variables per model", func() {
		names := func(id models.ID) []string {
			p, _ := models.Defaults(id)
			var out []string
			for _, g := range p.System().Gates() {
				out = append(out, g.Name)
			}
			return out
		}
		Expect(names(models.HodgkinHuxley)).To(Equal([]string{"m", "h", "n"}))
		Expect(names(models.FitzHughNagumo)).To(Equal([]string{"w"}))
		Expect(names(models.IntegrateFire)).To(BeEmpty())
		Expect(names(models.MorrisLecar)).To(Equal([]string{"w"}))
	})

	It("evaluates the Hodgkin-Huxley rates at the singular voltages", func() {
		p, _ := models.Defaults(models.HodgkinHuxley)
		sys := p.System()
		for _, v := range []float64{-40, -55} {
			dx := sys.Derivative(sim.State{v, 0.05, 0.6, 0.32}, sim.Control{0}, 0)
			Expect(sim.State(dx).IsValid()).To(BeTrue())
		}
	})

	It("does not see later edits to its parameter set", func() {
		p, _ := models.Defaults(models.FitzHughNagumo)
		sys := p.System()
		before := sys.Derivative(sim.State{0, 0}, sim.Control{0}, 0)
		Expect(models.Set(p, "a", 5)).To(Succeed())
		Expect(sys.Derivative(sim.State{0, 0}, sim.Control{0}, 0)).To(Equal(before))
	})
})
