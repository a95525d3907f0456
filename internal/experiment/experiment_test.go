package experiment_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/spikesim/internal/controllers"
	"github.com/san-kum/spikesim/internal/experiment"
	"github.com/san-kum/spikesim/internal/models"
	"github.com/san-kum/spikesim/internal/sim"
)

func defaults(id models.ID) models.Params {
	p, err := experiment.DefaultParameters(id)
	Expect(err).NotTo(HaveOccurred())
	return p
}

func simulate(p models.Params) *sim.Result {
	r, err := experiment.Simulate(p)
	Expect(err).NotTo(HaveOccurred())
	return r
}

var _ = Describe("Simulate", func() {
	var ids []models.ID

	BeforeEach(func() {
		ids = nil
		for _, d := range experiment.ListModels() {
			ids = append(ids, d.ID)
		}
		Expect(ids).To(HaveLen(4))
	})

	It("produces floor(duration/timeStep) aligned samples", func() {
		for _, id := range ids {
			p := defaults(id)
			r := simulate(p)
			n := int(math.Floor(p.Common().Duration / p.Common().TimeStep))

			Expect(r.Time).To(HaveLen(n), string(id))
			Expect(r.Voltage).To(HaveLen(n), string(id))
			Expect(r.Current).To(HaveLen(n), string(id))
			for name, trace := range r.Gating {
				Expect(trace).To(HaveLen(n), string(id)+"/"+name)
			}
		}
	})

	It("computes time as i*timeStep", func() {
		for _, id := range ids {
			p := defaults(id)
			r := simulate(p)
			dt := p.Common().TimeStep
			for i, t := range r.Time {
				if t != float64(i)*dt {
					Fail("time drifted in " + string(id))
				}
			}
		}
	})

	It("applies the stimulus exactly inside its window", func() {
		for _, id := range ids {
			p := defaults(id)
			c := p.Common()
			r := simulate(p)
			for i, t := range r.Time {
				want := 0.0
				if c.StimulusStart <= t && t <= c.StimulusStart+c.StimulusDuration {
					want = c.StimulusCurrent
				}
				Expect(r.Current[i]).To(Equal(want), "%s at t=%v", id, t)
			}
		}
	})

	It("records the gating variables each model declares", func() {
		Expect(simulate(defaults(models.HodgkinHuxley)).GateNames()).To(Equal([]string{"h", "m", "n"}))
		Expect(simulate(defaults(models.FitzHughNagumo)).GateNames()).To(Equal([]string{"w"}))
		Expect(simulate(defaults(models.IntegrateFire)).Gating).To(BeEmpty())
		Expect(simulate(defaults(models.MorrisLecar)).GateNames()).To(Equal([]string{"w"}))
	})

	It("is idempotent", func() {
		for _, id := range ids {
			a := simulate(defaults(id))
			b := simulate(defaults(id))
			Expect(a).To(Equal(b), string(id))
		}
	})

	It("rejects a zero time step or duration before stepping", func() {
		for _, field := range []string{"timeStep", "duration"} {
			p := defaults(models.HodgkinHuxley)
			Expect(models.Set(p, field, 0)).To(Succeed())
			r, err := experiment.Simulate(p)
			Expect(err).To(MatchError(sim.ErrInvalidParameters))
			Expect(r).To(BeNil())
		}
	})

	It("rejects timing whose step count cannot be allocated", func() {
		p := defaults(models.HodgkinHuxley)
		Expect(models.Set(p, "timeStep", 1e-300)).To(Succeed())
		Expect(models.Set(p, "duration", 1e10)).To(Succeed())
		r, err := experiment.Simulate(p)
		Expect(err).To(MatchError(sim.ErrInvalidParameters))
		Expect(err.Error()).To(ContainSubstring("too many steps"))
		Expect(r).To(BeNil())
	})

	It("rejects a nil parameter set", func() {
		_, err := experiment.Simulate(nil)
		Expect(err).To(MatchError(sim.ErrInvalidParameters))
	})

	It("fails unknown model lookups", func() {
		_, err := experiment.DefaultParameters("izhikevich")
		Expect(err).To(MatchError(sim.ErrUnknownModel))
	})
})

var _ = Describe("Hodgkin-Huxley", func() {
	It("fires one action potential and repolarizes", func() {
		r := simulate(defaults(models.HodgkinHuxley))

		Expect(r.Voltage[0]).To(Equal(-65.0))

		firstAbove := -1.0
		for i, v := range r.Voltage {
			if v > 0 {
				firstAbove = r.Time[i]
				break
			}
		}
		Expect(firstAbove).To(BeNumerically(">=", 10.0))
		Expect(firstAbove).To(BeNumerically("<", 16.0))
		Expect(r.Voltage[len(r.Voltage)-1]).To(BeNumerically("<", -60.0))
	})

	It("keeps gating variables within [0, 1]", func() {
		r := simulate(defaults(models.HodgkinHuxley))
		for _, name := range []string{"m", "h", "n"} {
			for _, x := range r.Gating[name] {
				Expect(x).To(BeNumerically(">=", 0.0))
				Expect(x).To(BeNumerically("<=", 1.0))
			}
		}
	})

	It("stays near rest without a stimulus", func() {
		p := defaults(models.HodgkinHuxley)
		Expect(models.Set(p, "stimulusCurrent", 0)).To(Succeed())
		r := simulate(p)
		for _, v := range r.Voltage {
			Expect(v).To(BeNumerically("~", -65.0, 2.0))
		}
	})
})

var _ = Describe("Integrate-and-Fire", func() {
	It("hard-resets to the reset potential after a threshold crossing", func() {
		p := defaults(models.IntegrateFire)
		Expect(models.Set(p, "stimulusCurrent", 10)).To(Succeed())
		Expect(models.Set(p, "stimulusDuration", 60)).To(Succeed())
		lif := p.(*models.IntegrateFireParams)
		r := simulate(p)

		tau := lif.MembraneResistance * lif.MembraneCapacitance
		dt := lif.TimeStep
		resets := 0
		for i := 0; i < len(r.Voltage)-1; i++ {
			v := r.Voltage[i]
			next := v + dt*((-(v-lif.RestingPotential)+lif.MembraneResistance*r.Current[i])/tau)
			if next >= lif.ThresholdVoltage {
				Expect(r.Voltage[i+1]).To(Equal(-80.0))
				resets++
			} else {
				Expect(r.Voltage[i+1]).To(BeNumerically("~", next, 1e-9))
			}
		}
		Expect(resets).To(BeNumerically(">", 0))

		for _, v := range r.Voltage {
			Expect(v).To(BeNumerically("<", lif.ThresholdVoltage))
		}
	})

	It("starts at the resting potential", func() {
		r := simulate(defaults(models.IntegrateFire))
		Expect(r.Voltage[0]).To(Equal(-70.0))
	})
})

var _ = Describe("FitzHugh-Nagumo", func() {
	It("reports 100*v - 70 of the fast variable", func() {
		p := defaults(models.FitzHughNagumo)
		fhn := p.(*models.FitzHughNagumoParams)
		r := simulate(p)

		Expect(r.Voltage[0]).To(Equal(-170.0))

		v, w := -1.0, -0.5
		for i := range r.Voltage {
			Expect(r.Voltage[i]).To(BeNumerically("~", v*100-70, 1e-9))
			Expect(r.Gating["w"][i]).To(BeNumerically("~", w, 1e-11))
			dv := v - (v*v*v)/3 - w + r.Current[i]
			dw := (v + fhn.A - fhn.B*w) / fhn.Tau
			v += fhn.TimeStep * dv
			w += fhn.TimeStep * dw
		}
	})

	It("counts spikes where the fast variable crosses its threshold", func() {
		p := defaults(models.FitzHughNagumo)
		Expect(models.Set(p, "duration", 200)).To(Succeed())
		Expect(models.Set(p, "stimulusStart", 0)).To(Succeed())
		Expect(models.Set(p, "stimulusDuration", 200)).To(Succeed())
		fhn := p.(*models.FitzHughNagumoParams)

		r, err := experiment.Analyze(p)
		Expect(err).NotTo(HaveOccurred())

		level := fhn.Threshold*100 - 70
		crossings := 0
		for i := 1; i < r.Len(); i++ {
			if r.Voltage[i-1] < level && r.Voltage[i] >= level {
				crossings++
			}
		}
		Expect(crossings).To(BeNumerically(">", 1))
		Expect(r.Metrics["spike_count"]).To(Equal(float64(crossings)))
	})
})

var _ = Describe("Morris-Lecar", func() {
	It("starts from (-60, 0.014) and stays finite", func() {
		r := simulate(defaults(models.MorrisLecar))
		Expect(r.Voltage[0]).To(Equal(-60.0))
		Expect(r.Gating["w"][0]).To(Equal(0.014))
		Expect(sim.State(r.Voltage).IsValid()).To(BeTrue())
	})
})

var _ = Describe("Analyze", func() {
	It("attaches the default metrics", func() {
		r, err := experiment.Analyze(defaults(models.HodgkinHuxley))
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Metrics).To(HaveKey("peak_voltage"))
		Expect(r.Metrics["spike_count"]).To(Equal(1.0))
		Expect(r.Metrics["injected_charge"]).To(BeNumerically("~", 10.0, 0.2))
	})
})

var _ = Describe("Sweep", func() {
	It("runs every value and keeps order", func() {
		values := experiment.Range(0, 20, 3)
		Expect(values).To(Equal([]float64{0, 10, 20}))

		points, err := experiment.Sweep(context.Background(), defaults(models.HodgkinHuxley), "stimulusCurrent", values, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(points).To(HaveLen(3))

		Expect(points[0].Value).To(Equal(0.0))
		Expect(points[0].Result.Metrics["spike_count"]).To(Equal(0.0))
		Expect(points[1].Result.Metrics["spike_count"]).To(BeNumerically(">=", 1.0))
		for _, pt := range points {
			Expect(pt.Result.Current).To(ContainElement(pt.Value))
		}
	})

	It("rejects an invalid value before running anything", func() {
		_, err := experiment.Sweep(context.Background(), defaults(models.FitzHughNagumo), "timeStep", []float64{0.1, 0}, 0)
		Expect(err).To(MatchError(sim.ErrInvalidParameters))
	})

	It("rejects unknown fields", func() {
		_, err := experiment.Sweep(context.Background(), defaults(models.FitzHughNagumo), "gNa", []float64{1}, 0)
		Expect(err).To(MatchError(sim.ErrInvalidParameters))
	})
})

var _ = Describe("Drive", func() {
	It("holds the membrane under voltage clamp", func() {
		p := defaults(models.HodgkinHuxley)
		exp, err := experiment.New(p)
		Expect(err).NotTo(HaveOccurred())

		opts := controllers.DefaultOptions()
		opts.Target = -40
		clamp, err := controllers.ForParams(controllers.Clamp, exp.Params(), opts)
		Expect(err).NotTo(HaveOccurred())
		exp.Drive(clamp)

		r, err := exp.Run()
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Voltage[r.Len()-1]).To(BeNumerically("~", -40.0, 0.1))
		Expect(r.Current[r.Len()-1]).NotTo(BeZero())
	})

	It("records no current when switched off", func() {
		p := defaults(models.MorrisLecar)
		exp, err := experiment.New(p)
		Expect(err).NotTo(HaveOccurred())
		exp.Drive(controllers.NewNone())
		exp.Setup(experiment.DefaultMetrics(p)...)

		r, err := exp.Run()
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Metrics["injected_charge"]).To(BeZero())
		for _, c := range r.Current {
			Expect(c).To(BeZero())
		}
	})
})
