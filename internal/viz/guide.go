package viz

import (
	"fmt"
	"strings"

	"github.com/san-kum/pidlab/internal/plant"
)

// Guidance summarizes the selected system and the expected effect of the
// current gains, for classroom use alongside the charts.
func Guidance(p plant.Params, kp, ki, kd float64) string {
	var b strings.Builder

	b.WriteString(Cyan.Render("system") + "\n")
	switch p.Kind {
	case plant.SecondOrder:
		behavior := "overdamped"
		if p.Zeta < 1 {
			behavior = "underdamped (oscillatory)"
		} else if p.Zeta == 1 {
			behavior = "critically damped"
		}
		b.WriteString(fmt.Sprintf("  second order, wn=%.2f rad/s, zeta=%.2f: %s\n",
			p.Wn, p.Zeta, behavior))
	case plant.Integrator:
		b.WriteString(fmt.Sprintf("  pure integrator, pole at s=0, gain %.2f: type-1 system,\n", p.K))
		b.WriteString("  zero steady-state error to a step even without integral action\n")
	default:
		b.WriteString(fmt.Sprintf("  first order, pole at s=%.2f, dc gain %.2f: exponential response,\n",
			-1/p.Tau, p.K))
		b.WriteString(fmt.Sprintf("  time constant %.2fs\n", p.Tau))
	}

	b.WriteString(Cyan.Render("gains") + "\n")
	b.WriteString(fmt.Sprintf("  kp=%.2f  raises response speed; too high causes oscillation\n", kp))
	if ki > 0 {
		b.WriteString(fmt.Sprintf("  ki=%.2f  removes steady-state error at the cost of overshoot\n", ki))
	} else {
		b.WriteString("  ki=0     no integral action; expect residual steady-state error\n")
	}
	if kd > 0 {
		b.WriteString(fmt.Sprintf("  kd=%.2f  damps oscillation and reduces overshoot\n", kd))
	} else {
		b.WriteString("  kd=0     no derivative action\n")
	}

	return b.String()
}
