package sim

import (
	"context"
	"math"
	"reflect"
	"testing"

	"github.com/san-kum/pidlab/internal/plant"
)

func baseConfig() Config {
	return Config{
		Plant:    plant.NewFirstOrder(1.0, 1.0),
		Kp:       1.0,
		Ki:       0.1,
		Kd:       0.05,
		Duration: 10.0,
		Dt:       DefaultDt,
	}
}

func TestRunShapes(t *testing.T) {
	tr, err := Run(context.Background(), baseConfig())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	n := 1000 // floor(10 / 0.01)
	for name, s := range map[string][]float64{
		"time": tr.Time, "setpoint": tr.Setpoint, "open": tr.OpenLoop,
		"closed": tr.ClosedLoop, "error": tr.Error, "control": tr.Control,
	} {
		if len(s) != n {
			t.Errorf("%s: length %d, want %d", name, len(s), n)
		}
	}

	if tr.Time[0] != 0 {
		t.Errorf("time starts at %f", tr.Time[0])
	}
	for i := 1; i < n; i++ {
		if math.Abs((tr.Time[i]-tr.Time[i-1])-DefaultDt) > 1e-12 {
			t.Fatalf("non-uniform step at %d", i)
		}
	}
	for i, v := range tr.Setpoint {
		if v != 1.0 {
			t.Fatalf("setpoint[%d] = %f, want unit step", i, v)
		}
	}
}

func TestFeedbackUsesPreviousOutput(t *testing.T) {
	tr, err := Run(context.Background(), baseConfig())
	if err != nil {
		t.Fatal(err)
	}

	if tr.Error[0] != tr.Setpoint[0] {
		t.Errorf("error[0] = %f, want %f", tr.Error[0], tr.Setpoint[0])
	}
	for i := 1; i < tr.Len(); i++ {
		if tr.Error[i] != tr.Setpoint[i]-tr.ClosedLoop[i-1] {
			t.Fatalf("error[%d] = %f, want setpoint - previous output %f",
				i, tr.Error[i], tr.Setpoint[i]-tr.ClosedLoop[i-1])
		}
	}
}

func TestOpenLoopMatchesPlantResponse(t *testing.T) {
	cfg := baseConfig()
	tr, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	want, err := cfg.Plant.Response(tr.Setpoint, cfg.Dt)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(tr.OpenLoop, want) {
		t.Error("open-loop trace differs from direct plant response")
	}
}

func TestDeterminism(t *testing.T) {
	cfg := Config{
		Plant:    plant.NewSecondOrder(1.0, 2.0, 0.3),
		Kp:       3.0,
		Ki:       0.5,
		Kd:       0.1,
		Duration: 15.0,
		Dt:       DefaultDt,
	}

	a, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Error("identical configs produced different traces")
	}
}

func TestInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative duration", func(c *Config) { c.Duration = -1 }},
		{"nan duration", func(c *Config) { c.Duration = math.NaN() }},
		{"zero tau", func(c *Config) { c.Plant = plant.NewFirstOrder(1.0, 0) }},
		{"zero wn", func(c *Config) { c.Plant = plant.NewSecondOrder(1.0, 0, 0.5) }},
		{"negative kp", func(c *Config) { c.Kp = -1 }},
		{"nan ki", func(c *Config) { c.Ki = math.NaN() }},
		{"inf kd", func(c *Config) { c.Kd = math.Inf(1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.mutate(&cfg)
			if _, err := Run(context.Background(), cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Run(ctx, baseConfig()); err == nil {
		t.Error("expected context error")
	}
}

// The reference panel's default gain set on the default first-order
// plant: the response creeps toward the setpoint without overshooting,
// dominated by the slow integral action.
func TestFirstOrderDefaultGains(t *testing.T) {
	tr, err := Run(context.Background(), baseConfig())
	if err != nil {
		t.Fatal(err)
	}

	n := tr.Len()
	for i := 1; i < n; i++ {
		if tr.ClosedLoop[i] < tr.ClosedLoop[i-1] {
			t.Fatalf("non-monotonic at step %d", i)
		}
	}
	final := tr.ClosedLoop[n-1]
	if final < 0.65 || final > 1.0 {
		t.Errorf("final output %f, want inside (0.65, 1.0)", final)
	}
}

// An integrator plant under pure proportional feedback closes into a
// first-order-like lag: y ≈ 1 - e^{-k·kp·t}.
func TestIntegratorProportionalLoop(t *testing.T) {
	cfg := Config{
		Plant:    plant.NewIntegrator(1.0),
		Kp:       1.0,
		Duration: 10.0,
		Dt:       DefaultDt,
	}

	tr, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	for i, v := range tr.ClosedLoop {
		want := 1 - math.Exp(-tr.Time[i])
		if math.Abs(v-want) > 0.02 {
			t.Fatalf("step %d: output %f, want ~%f", i, v, want)
		}
	}
	final := tr.ClosedLoop[tr.Len()-1]
	if math.Abs(final-1.0) > 0.01 {
		t.Errorf("final output %f, want ~1.0", final)
	}
}

type recordingObserver struct {
	steps   int
	lastOut float64
}

func (r *recordingObserver) OnStep(i int, t, setpoint, output, control float64) {
	r.steps++
	r.lastOut = output
}

func TestObserver(t *testing.T) {
	s := New(baseConfig())
	obs := &recordingObserver{}
	s.AddObserver(obs)

	tr, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if obs.steps != tr.Len() {
		t.Errorf("observer saw %d steps, want %d", obs.steps, tr.Len())
	}
	if obs.lastOut != tr.ClosedLoop[tr.Len()-1] {
		t.Errorf("observer last output %f, want %f", obs.lastOut, tr.ClosedLoop[tr.Len()-1])
	}
}
