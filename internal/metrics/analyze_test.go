package metrics_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pidlab/internal/metrics"
	"github.com/san-kum/pidlab/internal/plant"
	"github.com/san-kum/pidlab/internal/sim"
)

// makeTrace builds a unit-step trace around a closed-loop series; the
// analyzer only reads Time, Setpoint, and ClosedLoop.
func makeTrace(closed []float64, dt float64) *sim.Trace {
	n := len(closed)
	tr := &sim.Trace{
		Time:       make([]float64, n),
		Setpoint:   make([]float64, n),
		ClosedLoop: closed,
	}
	for i := 0; i < n; i++ {
		tr.Time[i] = float64(i) * dt
		tr.Setpoint[i] = 1.0
	}
	return tr
}

func constantSeries(v float64, n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = v
	}
	return s
}

var _ = Describe("Analyze", func() {
	It("rejects an empty trace", func() {
		_, err := metrics.Analyze(&sim.Trace{}, plant.FirstOrder)
		Expect(err).To(MatchError(metrics.ErrEmptyTrace))
	})

	Describe("overshoot", func() {
		It("measures the peak above the final value", func() {
			closed := constantSeries(1.0, 300)
			closed[40] = 1.25
			s, err := metrics.Analyze(makeTrace(closed, 0.01), plant.FirstOrder)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.OvershootPercent).To(BeNumerically("~", 25.0, 1e-9))
		})

		It("is zero when the final value is zero", func() {
			tr := makeTrace(constantSeries(0.5, 200), 0.01)
			for i := range tr.Setpoint {
				tr.Setpoint[i] = 0
			}
			s, err := metrics.Analyze(tr, plant.FirstOrder)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.OvershootPercent).To(BeZero())
		})
	})

	Describe("rise time", func() {
		It("spans the 10% to 90% crossings", func() {
			// Ramp from 0 to 1 over 100 samples, then hold.
			closed := make([]float64, 300)
			for i := range closed {
				if i < 100 {
					closed[i] = float64(i) / 100
				} else {
					closed[i] = 1.0
				}
			}
			s, err := metrics.Analyze(makeTrace(closed, 0.01), plant.FirstOrder)
			Expect(err).NotTo(HaveOccurred())
			// 10% crossed at sample 10, 90% at sample 90.
			Expect(s.RiseTime).To(BeNumerically("~", 0.80, 1e-9))
		})

		It("is zero when the response never reaches 90%", func() {
			s, err := metrics.Analyze(makeTrace(constantSeries(0.5, 300), 0.01), plant.FirstOrder)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.RiseTime).To(BeZero())
		})
	})

	Describe("steady-state error", func() {
		It("averages the last 100 samples for non-integrator plants", func() {
			closed := constantSeries(1.0, 400)
			for i := 300; i < 400; i++ {
				closed[i] = 0.9
			}
			s, err := metrics.Analyze(makeTrace(closed, 0.01), plant.SecondOrder)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.SteadyStateError).To(BeNumerically("~", 0.1, 1e-9))
		})

		It("averages the last 50 samples for long integrator traces", func() {
			closed := constantSeries(1.0, 400)
			for i := 350; i < 400; i++ {
				closed[i] = 1.06
			}
			s, err := metrics.Analyze(makeTrace(closed, 0.01), plant.Integrator)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.SteadyStateError).To(BeNumerically("~", 0.06, 1e-9))
		})

		It("uses the last sample for short integrator traces", func() {
			closed := constantSeries(0.2, 80)
			closed[79] = 0.7
			s, err := metrics.Analyze(makeTrace(closed, 0.01), plant.Integrator)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.SteadyStateError).To(BeNumerically("~", 0.3, 1e-9))
		})
	})

	Describe("settling time", func() {
		It("is absent for integrator plants", func() {
			s, err := metrics.Analyze(makeTrace(constantSeries(1.0, 300), 0.01), plant.Integrator)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Settling).To(BeNil())
		})

		It("marks the sample after the last band excursion", func() {
			closed := constantSeries(1.0, 300)
			closed[250] = 1.05
			s, err := metrics.Analyze(makeTrace(closed, 0.01), plant.FirstOrder)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Settling).NotTo(BeNil())
			Expect(s.Settling.Determined).To(BeTrue())
			Expect(s.Settling.Time).To(BeNumerically("~", 2.51, 1e-9))
		})

		It("clamps to the trace end when the excursion is the last sample", func() {
			closed := constantSeries(1.0, 300)
			closed[299] = 1.10
			s, err := metrics.Analyze(makeTrace(closed, 0.01), plant.FirstOrder)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Settling.Determined).To(BeTrue())
			Expect(s.Settling.Time).To(BeNumerically("~", 2.99, 1e-9))
		})

		It("reports undetermined when the scan window never leaves the band", func() {
			s, err := metrics.Analyze(makeTrace(constantSeries(1.0, 300), 0.01), plant.FirstOrder)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Settling).NotTo(BeNil())
			Expect(s.Settling.Determined).To(BeFalse())
			Expect(s.Settling.Time).To(BeZero())
		})

		It("does not look past the final 200 samples", func() {
			closed := constantSeries(1.0, 1000)
			closed[700] = 2.0 // outside the scan window
			s, err := metrics.Analyze(makeTrace(closed, 0.01), plant.FirstOrder)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Settling.Determined).To(BeFalse())
		})
	})

	Describe("on a simulated run", func() {
		It("summarizes an underdamped second-order loop", func() {
			cfg := sim.Config{
				Plant:    plant.NewSecondOrder(1.0, 2.0, 0.3),
				Kp:       3.0,
				Ki:       0.5,
				Kd:       0.1,
				Duration: 15.0,
				Dt:       sim.DefaultDt,
			}
			tr, err := sim.Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())

			s, err := metrics.Analyze(tr, cfg.Plant.Kind)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.OvershootPercent).To(BeNumerically(">", 10))
			Expect(s.OvershootPercent).To(BeNumerically("<", 40))
			Expect(s.RiseTime).To(BeNumerically("~", 0.37, 0.05))
			Expect(s.SteadyStateError).To(BeNumerically("<", 0.05))
			Expect(s.Settling).NotTo(BeNil())
			Expect(s.Settling.Determined).To(BeTrue())
		})

		It("summarizes an integrator loop with integral action", func() {
			cfg := sim.Config{
				Plant:    plant.NewIntegrator(1.0),
				Kp:       1.0,
				Ki:       0.2,
				Duration: 15.0,
				Dt:       sim.DefaultDt,
			}
			tr, err := sim.Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())

			s, err := metrics.Analyze(tr, cfg.Plant.Kind)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.SteadyStateError).To(BeNumerically("<", 0.05))
			Expect(s.Settling).To(BeNil())
		})
	})
})
