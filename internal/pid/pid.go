// Package pid implements the discrete PID controller driving the closed
// loop. State is explicit and per-run: construct a fresh Controller (or
// call Reset) at the start of every simulation.
package pid

// Controller computes u = Kp·e + Ki·∫e dt + Kd·de/dt one step at a time.
type Controller struct {
	Kp float64
	Ki float64
	Kd float64

	integral float64
	prevErr  float64
	first    bool
}

func New(kp, ki, kd float64) *Controller {
	return &Controller{
		Kp:    kp,
		Ki:    ki,
		Kd:    kd,
		first: true,
	}
}

// Update advances the controller by one step of size dt with error e and
// returns the control output. The integral accumulator includes the
// current sample. The derivative is zero on the first step, where no
// error history exists.
func (c *Controller) Update(e, dt float64) float64 {
	c.integral += e * dt

	var derivative float64
	if !c.first {
		derivative = (e - c.prevErr) / dt
	}

	u := c.Kp*e + c.Ki*c.integral + c.Kd*derivative

	c.prevErr = e
	c.first = false
	return u
}

// Reset clears integral and derivative state.
func (c *Controller) Reset() {
	c.integral = 0
	c.prevErr = 0
	c.first = true
}

// Integral exposes the accumulator for diagnostics.
func (c *Controller) Integral() float64 { return c.integral }
