package metrics

// InjectedCharge integrates the stimulus current over the run as a
// left Riemann sum, matching the Euler step that consumed each sample.
type InjectedCharge struct {
	name     string
	sum      float64
	lastI    float64
	lastT    float64
	observed bool
}

func NewInjectedCharge() *InjectedCharge {
	return &InjectedCharge{
		name: "injected_charge",
	}
}

func (c *InjectedCharge) Name() string {
	return c.name
}

func (c *InjectedCharge) Observe(_, current, t float64) {
	if c.observed {
		c.sum += c.lastI * (t - c.lastT)
	}
	c.lastI = current
	c.lastT = t
	c.observed = true
}

func (c *InjectedCharge) Value() float64 {
	return c.sum
}

func (c *InjectedCharge) Reset() {
	c.sum = 0
	c.lastI = 0
	c.lastT = 0
	c.observed = false
}
