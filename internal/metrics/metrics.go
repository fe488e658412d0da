// Package metrics extracts scalar performance indicators from a
// closed-loop step-response trace.
package metrics

import (
	"errors"
	"math"

	"github.com/san-kum/pidlab/internal/plant"
	"github.com/san-kum/pidlab/internal/sim"
)

const (
	// Settling is detected against a ±2% band around the final value,
	// scanning only the last 200 samples. A response that settles
	// earlier than that window cannot be distinguished from one that
	// never settles; Settling.Determined reports which case occurred.
	settlingBand   = 0.02
	settlingWindow = 200

	riseLow  = 0.1
	riseHigh = 0.9

	steadyWindow           = 100
	integratorSteadyWindow = 50
)

var ErrEmptyTrace = errors.New("metrics: empty trace")

// Settling reports the ±2% settling time. Determined is false when no
// excursion was found inside the scan window, in which case Time is 0
// and the true settling time is unknown rather than instantaneous.
type Settling struct {
	Time       float64 `json:"time"`
	Determined bool    `json:"determined"`
}

// Summary holds the performance indicators of one run. Settling is nil
// for integrator plants, which have no settling-time semantic here.
type Summary struct {
	OvershootPercent float64   `json:"overshoot_percent"`
	RiseTime         float64   `json:"rise_time"`
	SteadyStateError float64   `json:"steady_state_error"`
	Settling         *Settling `json:"settling,omitempty"`
}

// Analyze computes the summary for a trace produced by sim.Run.
func Analyze(tr *sim.Trace, kind plant.Kind) (*Summary, error) {
	n := tr.Len()
	if n == 0 {
		return nil, ErrEmptyTrace
	}

	final := tr.Setpoint[n-1]
	s := &Summary{
		OvershootPercent: overshootPercent(tr.ClosedLoop, final),
		RiseTime:         riseTime(tr.Time, tr.ClosedLoop, final),
	}

	if kind == plant.Integrator {
		s.SteadyStateError = integratorSteadyError(tr.ClosedLoop, final)
	} else {
		s.SteadyStateError = math.Abs(final - mean(tail(tr.ClosedLoop, steadyWindow)))
		s.Settling = settlingTime(tr.Time, tr.ClosedLoop, final)
	}
	return s, nil
}

func overshootPercent(y []float64, final float64) float64 {
	if final == 0 {
		return 0
	}
	peak := y[0]
	for _, v := range y[1:] {
		if v > peak {
			peak = v
		}
	}
	return (peak - final) / final * 100
}

// riseTime is the time from first crossing 10% of the final value to
// first crossing 90%. Zero when either threshold is never reached.
func riseTime(t, y []float64, final float64) float64 {
	lo := firstAtOrAbove(y, riseLow*final)
	hi := firstAtOrAbove(y, riseHigh*final)
	if lo < 0 || hi < 0 {
		return 0
	}
	return t[hi] - t[lo]
}

func firstAtOrAbove(y []float64, threshold float64) int {
	for i, v := range y {
		if v >= threshold {
			return i
		}
	}
	return -1
}

// settlingTime scans backward through at most the final settlingWindow
// samples for the last excursion outside the band; the response is
// considered settled from the sample after it.
func settlingTime(t, y []float64, final float64) *Settling {
	n := len(y)
	band := settlingBand * final
	lo := n - settlingWindow
	if lo < 0 {
		lo = 0
	}
	for i := n - 1; i > lo; i-- {
		if math.Abs(y[i]-final) > band {
			settled := i + 1
			if settled > n-1 {
				settled = n - 1
			}
			return &Settling{Time: t[settled], Determined: true}
		}
	}
	return &Settling{}
}

// integratorSteadyError averages a shorter tail: the integrator closed
// loop keeps creeping, and a long window would mostly measure transient.
func integratorSteadyError(y []float64, final float64) float64 {
	if len(y) > 100 {
		return math.Abs(final - mean(tail(y, integratorSteadyWindow)))
	}
	return math.Abs(final - y[len(y)-1])
}

func tail(y []float64, n int) []float64 {
	if len(y) <= n {
		return y
	}
	return y[len(y)-n:]
}

func mean(y []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range y {
		sum += v
	}
	return sum / float64(len(y))
}
