// Package sim runs the closed-loop step-response simulation: a plant
// under unit-step reference, with and without PID feedback.
package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/pidlab/internal/pid"
	"github.com/san-kum/pidlab/internal/plant"
)

// Simulator orchestrates one run. Each call to Run allocates fresh plant
// and controller state, so a Simulator may be reused and concurrent runs
// never share state.
type Simulator struct {
	cfg       Config
	observers []Observer
}

func New(cfg Config) *Simulator {
	return &Simulator{cfg: cfg}
}

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run is a convenience wrapper for a one-shot simulation.
func Run(ctx context.Context, cfg Config) (*Trace, error) {
	return New(cfg).Run(ctx)
}

// Run simulates the open-loop and closed-loop step responses and returns
// the full trace. Identical configs produce bit-identical traces.
func (s *Simulator) Run(ctx context.Context) (*Trace, error) {
	cfg := s.cfg
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	n := int(cfg.Duration / cfg.Dt)
	tr := &Trace{
		Time:       make([]float64, n),
		Setpoint:   make([]float64, n),
		ClosedLoop: make([]float64, n),
		Error:      make([]float64, n),
		Control:    make([]float64, n),
	}
	for i := 0; i < n; i++ {
		tr.Time[i] = float64(i) * cfg.Dt
		tr.Setpoint[i] = 1.0
	}

	open, err := cfg.Plant.Response(tr.Setpoint, cfg.Dt)
	if err != nil {
		return nil, err
	}
	tr.OpenLoop = open

	ctrl := pid.New(cfg.Kp, cfg.Ki, cfg.Kd)
	var state plant.State

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		// The feedback sees the previous step's output: one step of
		// computational delay is part of the causal discretization.
		var current float64
		if i > 0 {
			current = tr.ClosedLoop[i-1]
		}

		tr.Error[i] = tr.Setpoint[i] - current
		tr.Control[i] = ctrl.Update(tr.Error[i], cfg.Dt)
		tr.ClosedLoop[i] = cfg.Plant.Step(&state, tr.Control[i], cfg.Dt)

		for _, o := range s.observers {
			o.OnStep(i, tr.Time[i], tr.Setpoint[i], tr.ClosedLoop[i], tr.Control[i])
		}
	}

	return tr, nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 || math.IsNaN(cfg.Dt) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("sim: dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 || math.IsNaN(cfg.Duration) || math.IsInf(cfg.Duration, 0) {
		return fmt.Errorf("sim: duration must be positive, got %f", cfg.Duration)
	}
	for _, g := range []struct {
		name string
		val  float64
	}{{"kp", cfg.Kp}, {"ki", cfg.Ki}, {"kd", cfg.Kd}} {
		if g.val < 0 || math.IsNaN(g.val) || math.IsInf(g.val, 0) {
			return fmt.Errorf("sim: gain %s must be a non-negative finite number, got %f", g.name, g.val)
		}
	}
	return cfg.Plant.Validate()
}
