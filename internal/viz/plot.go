// Package viz renders step-response traces and metric summaries for the
// terminal.
package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/pidlab/internal/metrics"
	"github.com/san-kum/pidlab/internal/sim"
)

// StepResponse plots setpoint, open-loop, and closed-loop output on one
// chart with a legend line underneath.
func StepResponse(tr *sim.Trace, width, height int) string {
	graph := asciigraph.PlotMany(
		[][]float64{tr.Setpoint, tr.OpenLoop, tr.ClosedLoop},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue, asciigraph.Green),
		asciigraph.Caption("step response"),
	)

	legend := fmt.Sprintf("%s reference   %s open loop   %s with pid",
		Red.Render("──"), Cyan.Render("──"), Green.Render("──"))
	return graph + "\n" + legend
}

// ControlSignal plots the controller output over the run.
func ControlSignal(tr *sim.Trace, width, height int) string {
	return asciigraph.Plot(tr.Control,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("control signal"),
	)
}

// ErrorSignal plots the tracking error over the run.
func ErrorSignal(tr *sim.Trace, width, height int) string {
	return asciigraph.Plot(tr.Error,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("error"),
	)
}

// MetricsView formats a metric summary as aligned labelled lines.
func MetricsView(s *metrics.Summary) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("  %s %s\n",
		Dim.Render(fmt.Sprintf("%-22s", "overshoot")),
		White.Render(fmt.Sprintf("%.1f%%", s.OvershootPercent))))
	b.WriteString(fmt.Sprintf("  %s %s\n",
		Dim.Render(fmt.Sprintf("%-22s", "rise time (10-90%)")),
		White.Render(fmt.Sprintf("%.2fs", s.RiseTime))))
	b.WriteString(fmt.Sprintf("  %s %s\n",
		Dim.Render(fmt.Sprintf("%-22s", "steady-state error")),
		White.Render(fmt.Sprintf("%.4f", s.SteadyStateError))))

	if s.Settling != nil {
		val := fmt.Sprintf("%.2fs", s.Settling.Time)
		if !s.Settling.Determined {
			val = "not determined within window"
		}
		b.WriteString(fmt.Sprintf("  %s %s\n",
			Dim.Render(fmt.Sprintf("%-22s", "settling time (±2%)")),
			White.Render(val)))
	}
	return b.String()
}

// Sparkline compresses a series into a one-line unicode bar chart.
func Sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	rang := maxVal - minVal
	if rang == 0 {
		rang = 1
	}
	step := len(data) / width
	if step < 1 {
		step = 1
	}
	var sb strings.Builder
	for i := 0; i < width && i*step < len(data); i++ {
		v := data[i*step]
		idx := int((v - minVal) / rang * 7)
		if idx > 7 {
			idx = 7
		}
		if idx < 0 {
			idx = 0
		}
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}
