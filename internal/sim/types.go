package sim

import "github.com/san-kum/pidlab/internal/plant"

// DefaultDt is the fixed integration step of the reference panel.
const DefaultDt = 0.01

// Config describes one closed-loop run.
type Config struct {
	Plant    plant.Params
	Kp       float64
	Ki       float64
	Kd       float64
	Duration float64
	Dt       float64
}

// Trace holds the six aligned output sequences of a run. All slices have
// the same length; index i of every slice describes the same instant.
type Trace struct {
	Time       []float64 `json:"time"`
	Setpoint   []float64 `json:"setpoint"`
	OpenLoop   []float64 `json:"open_loop"`
	ClosedLoop []float64 `json:"closed_loop"`
	Error      []float64 `json:"error"`
	Control    []float64 `json:"control"`
}

// Len returns the number of samples in the trace.
func (tr *Trace) Len() int { return len(tr.Time) }

// Observer is notified once per closed-loop step.
type Observer interface {
	OnStep(i int, t, setpoint, output, control float64)
}
