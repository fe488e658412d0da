// Package tui is the interactive control panel: plant selection, live
// parameter and gain adjustment, and an immediately re-simulated step
// response with its metrics.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/pidlab/internal/config"
	"github.com/san-kum/pidlab/internal/metrics"
	"github.com/san-kum/pidlab/internal/plant"
	"github.com/san-kum/pidlab/internal/sim"
	"github.com/san-kum/pidlab/internal/viz"
)

// slider bounds and step sizes mirror the control panel ranges.
type paramDef struct {
	min, max, step float64
}

var bounds = map[string]paramDef{
	"k":        {0.1, 5.0, 0.1},
	"tau":      {0.1, 5.0, 0.1},
	"wn":       {0.1, 5.0, 0.1},
	"zeta":     {0.1, 2.0, 0.1},
	"kp":       {0.0, 10.0, 0.1},
	"ki":       {0.0, 5.0, 0.01},
	"kd":       {0.0, 2.0, 0.01},
	"duration": {5.0, 20.0, 1.0},
}

var kindParams = map[plant.Kind][]string{
	plant.FirstOrder:  {"k", "tau", "kp", "ki", "kd", "duration"},
	plant.SecondOrder: {"k", "wn", "zeta", "kp", "ki", "kd", "duration"},
	plant.Integrator:  {"k", "kp", "ki", "kd", "duration"},
}

type model struct {
	kinds   []plant.Kind
	kindIdx int

	params  map[string]float64
	names   []string
	cursor  int
	editing bool
	editBuf string

	trace    *sim.Trace
	summary  *metrics.Summary
	simErr   error
	showHelp bool

	width  int
	height int
}

func newModel() *model {
	m := &model{
		kinds: plant.Kinds(),
		params: map[string]float64{
			"k":        plant.DefaultGain,
			"tau":      plant.DefaultTau,
			"wn":       plant.DefaultWn,
			"zeta":     plant.DefaultZeta,
			"kp":       config.DefaultKp,
			"ki":       config.DefaultKi,
			"kd":       config.DefaultKd,
			"duration": config.DefaultDuration,
		},
		width:  100,
		height: 32,
	}
	m.names = kindParams[m.kind()]
	m.simulate()
	return m
}

func (m *model) kind() plant.Kind { return m.kinds[m.kindIdx] }

func (m *model) plantParams() plant.Params {
	switch m.kind() {
	case plant.SecondOrder:
		return plant.NewSecondOrder(m.params["k"], m.params["wn"], m.params["zeta"])
	case plant.Integrator:
		return plant.NewIntegrator(m.params["k"])
	default:
		return plant.NewFirstOrder(m.params["k"], m.params["tau"])
	}
}

func (m *model) simulate() {
	cfg := sim.Config{
		Plant:    m.plantParams(),
		Kp:       m.params["kp"],
		Ki:       m.params["ki"],
		Kd:       m.params["kd"],
		Duration: m.params["duration"],
		Dt:       sim.DefaultDt,
	}

	tr, err := sim.Run(context.Background(), cfg)
	if err != nil {
		m.trace, m.summary, m.simErr = nil, nil, err
		return
	}
	sum, err := metrics.Analyze(tr, cfg.Plant.Kind)
	if err != nil {
		m.trace, m.summary, m.simErr = tr, nil, err
		return
	}
	m.trace, m.summary, m.simErr = tr, sum, nil
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			if _, err := fmt.Sscanf(m.editBuf, "%f", &val); err == nil {
				m.setParam(m.names[m.cursor], val)
			}
			m.editing = false
			m.editBuf = ""
			m.simulate()
		case "esc":
			m.editing = false
			m.editBuf = ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.names)-1 {
			m.cursor++
		}
	case "left", "h":
		name := m.names[m.cursor]
		m.setParam(name, m.params[name]-bounds[name].step)
		m.simulate()
	case "right", "l":
		name := m.names[m.cursor]
		m.setParam(name, m.params[name]+bounds[name].step)
		m.simulate()
	case "enter":
		m.editing = true
		m.editBuf = ""
	case "tab", "p":
		m.kindIdx = (m.kindIdx + 1) % len(m.kinds)
		m.names = kindParams[m.kind()]
		if m.cursor >= len(m.names) {
			m.cursor = len(m.names) - 1
		}
		m.simulate()
	case "r":
		m.params["kp"] = config.DefaultKp
		m.params["ki"] = config.DefaultKi
		m.params["kd"] = config.DefaultKd
		m.simulate()
	case "R":
		m.params["k"] = plant.DefaultGain
		m.params["tau"] = plant.DefaultTau
		m.params["wn"] = plant.DefaultWn
		m.params["zeta"] = plant.DefaultZeta
		m.simulate()
	case "g":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *model) setParam(name string, val float64) {
	b := bounds[name]
	if val < b.min {
		val = b.min
	}
	if val > b.max {
		val = b.max
	}
	m.params[name] = val
}

func (m model) View() string {
	var b strings.Builder

	p := m.plantParams()

	b.WriteString("\n  " + viz.Cyan.Render("p i d l a b") +
		"  " + viz.Dim.Render(m.kind().String()) + "\n")
	b.WriteString("  " + viz.Dimmer.Render(strings.Repeat("─", 40)) + "\n")
	b.WriteString("  " + viz.Yellow.Render(p.TransferFunction()) + "\n\n")

	for i, name := range m.names {
		val := fmt.Sprintf("%8.2f", m.params[name])
		if m.editing && i == m.cursor {
			val = fmt.Sprintf("%8s", m.editBuf+"▋")
		}
		if i == m.cursor {
			b.WriteString("  " + viz.Cyan.Render("▸ ") +
				viz.White.Render(fmt.Sprintf("%-10s", name)) + viz.Magenta.Render(val) + "\n")
		} else {
			b.WriteString("    " + viz.Dim.Render(fmt.Sprintf("%-10s", name)) +
				viz.Dim.Render(val) + "\n")
		}
	}
	b.WriteString("\n")

	if m.simErr != nil {
		b.WriteString("  " + viz.Red.Render(m.simErr.Error()) + "\n")
	} else if m.trace != nil {
		chartWidth := m.width - 16
		if chartWidth < 40 {
			chartWidth = 40
		}
		chartHeight := m.height - len(m.names) - 18
		if chartHeight < 8 {
			chartHeight = 8
		}

		chart := viz.StepResponse(m.trace, chartWidth, chartHeight)
		for _, line := range strings.Split(chart, "\n") {
			b.WriteString("  " + line + "\n")
		}
		b.WriteString("\n")

		if m.summary != nil {
			b.WriteString(viz.MetricsView(m.summary))
		}
		b.WriteString(fmt.Sprintf("  %s %s\n",
			viz.Dim.Render("u"), viz.Cyan.Render(viz.Sparkline(m.trace.Control, 40))))

		if m.showHelp {
			b.WriteString("\n")
			b.WriteString(viz.Guidance(p, m.params["kp"], m.params["ki"], m.params["kd"]))
		}
	}

	b.WriteString("\n" + viz.Dim.Render("  ↑↓ select  ←→ adjust  enter type  tab plant  g guide  r reset pid  R reset system  q quit") + "\n")
	return b.String()
}

// Run starts the interactive panel and blocks until the user quits.
func Run() error {
	p := tea.NewProgram(*newModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
