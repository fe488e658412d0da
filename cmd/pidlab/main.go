package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/pidlab/internal/config"
	"github.com/san-kum/pidlab/internal/export"
	"github.com/san-kum/pidlab/internal/metrics"
	"github.com/san-kum/pidlab/internal/sim"
	"github.com/san-kum/pidlab/internal/tui"
	"github.com/san-kum/pidlab/internal/viz"
)

var (
	k        float64
	tau      float64
	wn       float64
	zeta     float64
	kp       float64
	ki       float64
	kd       float64
	duration float64
	dt       float64

	configFile string
	preset     string

	csvPath  string
	svgPath  string
	jsonPath string

	sweepGain   string
	sweepValues string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pidlab",
		Short: "closed-loop pid step-response lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the interactive panel when no command given
			return tui.Run()
		},
	}

	runCmd := &cobra.Command{
		Use:   "run [plant]",
		Short: "simulate a step response and print charts and metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().StringVar(&csvPath, "csv", "", "write trace to CSV file")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "write chart to SVG file")
	runCmd.Flags().StringVar(&jsonPath, "json", "", "write trace and metrics to JSON file")

	sweepCmd := &cobra.Command{
		Use:   "sweep [plant]",
		Short: "compare metrics across values of one gain",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepGain, "gain", "kp", "gain to sweep (kp, ki, kd)")
	sweepCmd.Flags().StringVar(&sweepValues, "values", "0.5,1.0,2.0,5.0", "comma-separated gain values")

	presetsCmd := &cobra.Command{
		Use:   "presets [plant]",
		Short: "list presets for a plant kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets(args[0])
			if names == nil {
				return fmt.Errorf("unknown plant kind: %s", args[0])
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PRESET\tKP\tKI\tKD\tDURATION")
			for _, name := range names {
				p := config.GetPreset(args[0], name)
				fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%.0fs\n",
					name, p.Gains.Kp, p.Gains.Ki, p.Gains.Kd, p.Duration)
			}
			return w.Flush()
		},
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive control panel",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run()
		},
	}

	rootCmd.AddCommand(runCmd, sweepCmd, presetsCmd, tuiCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&k, "k", 1.0, "static gain")
	cmd.Flags().Float64Var(&tau, "tau", 1.0, "time constant (first_order)")
	cmd.Flags().Float64Var(&wn, "wn", 1.0, "natural frequency (second_order)")
	cmd.Flags().Float64Var(&zeta, "zeta", 0.5, "damping factor (second_order)")
	cmd.Flags().Float64Var(&kp, "kp", config.DefaultKp, "proportional gain")
	cmd.Flags().Float64Var(&ki, "ki", config.DefaultKi, "integral gain")
	cmd.Flags().Float64Var(&kd, "kd", config.DefaultKd, "derivative gain")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "simulation duration")
	cmd.Flags().Float64Var(&dt, "dt", sim.DefaultDt, "timestep")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// buildConfig layers preset, config file, and flags, with explicitly set
// flags winning.
func buildConfig(cmd *cobra.Command, kind string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Plant = kind

	if preset != "" {
		p := config.GetPreset(kind, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(kind))
		}
		*cfg = *p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		*cfg = *loaded
	}

	flags := []struct {
		name string
		dst  *float64
		src  float64
	}{
		{"k", &cfg.K, k},
		{"tau", &cfg.Tau, tau},
		{"wn", &cfg.Wn, wn},
		{"zeta", &cfg.Zeta, zeta},
		{"kp", &cfg.Gains.Kp, kp},
		{"ki", &cfg.Gains.Ki, ki},
		{"kd", &cfg.Gains.Kd, kd},
		{"time", &cfg.Duration, duration},
		{"dt", &cfg.Dt, dt},
	}
	for _, f := range flags {
		if cmd.Flags().Changed(f.name) {
			*f.dst = f.src
		}
	}
	// Positional plant argument always wins.
	cfg.Plant = kind
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	simCfg, err := cfg.SimConfig()
	if err != nil {
		return err
	}

	tr, err := sim.Run(context.Background(), simCfg)
	if err != nil {
		return err
	}

	summary, err := metrics.Analyze(tr, simCfg.Plant.Kind)
	if err != nil {
		return err
	}

	fmt.Println(viz.Yellow.Render(simCfg.Plant.TransferFunction()))
	fmt.Println()
	fmt.Println(viz.StepResponse(tr, 80, 15))
	fmt.Println()
	fmt.Println(viz.ControlSignal(tr, 80, 8))
	fmt.Println()
	fmt.Print(viz.MetricsView(summary))
	fmt.Println()
	fmt.Print(viz.Guidance(simCfg.Plant, simCfg.Kp, simCfg.Ki, simCfg.Kd))

	if csvPath != "" {
		if err := writeFile(csvPath, func(f *os.File) error {
			return export.WriteCSV(f, tr)
		}); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", csvPath)
	}
	if jsonPath != "" {
		if err := writeFile(jsonPath, func(f *os.File) error {
			return export.WriteJSON(f, tr, summary)
		}); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", jsonPath)
	}
	if svgPath != "" {
		if err := os.WriteFile(svgPath, []byte(export.TraceToSVG(tr, 800, 400)), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
	}
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return write(f)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	values := make([]float64, 0)
	for _, s := range strings.Split(sweepValues, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("bad sweep value %q: %w", s, err)
		}
		values = append(values, v)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tOVERSHOOT\tRISE\tSSERR\tSETTLING\n", strings.ToUpper(sweepGain))

	for _, v := range values {
		runCfg := *cfg
		switch sweepGain {
		case "kp":
			runCfg.Gains.Kp = v
		case "ki":
			runCfg.Gains.Ki = v
		case "kd":
			runCfg.Gains.Kd = v
		default:
			return fmt.Errorf("unknown gain: %s (want kp, ki, or kd)", sweepGain)
		}

		simCfg, err := runCfg.SimConfig()
		if err != nil {
			return err
		}
		tr, err := sim.Run(context.Background(), simCfg)
		if err != nil {
			return err
		}
		summary, err := metrics.Analyze(tr, simCfg.Plant.Kind)
		if err != nil {
			return err
		}

		settling := "-"
		if summary.Settling != nil {
			if summary.Settling.Determined {
				settling = fmt.Sprintf("%.2fs", summary.Settling.Time)
			} else {
				settling = "n/d"
			}
		}
		fmt.Fprintf(w, "%.2f\t%.1f%%\t%.2fs\t%.4f\t%s\n",
			v, summary.OvershootPercent, summary.RiseTime, summary.SteadyStateError, settling)
	}
	return w.Flush()
}
