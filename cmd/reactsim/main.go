package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/reactsim/internal/config"
	"github.com/san-kum/reactsim/internal/ctxlog"
	"github.com/san-kum/reactsim/internal/experiment"
	"github.com/san-kum/reactsim/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	theme      string
	duration   float64
	dt         float64
	points     int
	absTol     float64
	relTol     float64
	integrator string
	params     []string
	inits      []string
	metricsOut string
	noSave     bool
	showPlot   bool
	// plot and phase
	combined   bool
	plotHeight int
	plotWidth  int
	xSpecies   string
	ySpecies   string
	svgOut     string
	svgWidth   int
	svgHeight  int
	// sweep
	axes     []string
	workers  int
	bestOf   string
	minimize bool
	// batch
	keepGoing bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "reactsim",
		Short:         "chemical kinetics simulation lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			viz.SetTheme(theme)
			logger := ctxlog.New(os.Stderr, logLevel)
			cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".reactsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "lab", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	runCmd := &cobra.Command{
		Use:   "run [preset|model.yaml]",
		Short: "integrate a reaction model and store the run",
		Args:  cobra.ExactArgs(1),
		RunE:  runModel,
	}
	addModelFlags(runCmd)
	runCmd.Flags().StringVar(&metricsOut, "metrics-out", "", "write prometheus metrics to this file")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().BoolVar(&showPlot, "plot", false, "plot the concentrations after the run")

	showCmd := &cobra.Command{
		Use:   "show [preset|model.yaml]",
		Short: "print the reactions and the generated rate equations",
		Args:  cobra.ExactArgs(1),
		RunE:  showModel,
	}
	addModelFlags(showCmd)

	verifyCmd := &cobra.Command{
		Use:   "verify [preset|model.yaml]",
		Short: "compare a unary irreversible model with its closed-form solution",
		Args:  cobra.ExactArgs(1),
		RunE:  verifyModel,
	}
	addModelFlags(verifyCmd)
	verifyCmd.Flags().Float64("max-error", 1e-6, "largest accepted absolute error")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list the built-in models",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	integratorsCmd := &cobra.Command{
		Use:   "integrators",
		Short: "list the available integrators",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			reg := experiment.NewRegistry()
			for _, name := range reg.ListIntegrators() {
				_, adaptive, _ := reg.GetIntegrator(name)
				mode := "fixed step"
				if adaptive {
					mode = "adaptive"
				}
				fmt.Printf("  %-16s %s\n", name, mode)
			}
		},
	}

	compareCmd := &cobra.Command{
		Use:   "compare [preset|model.yaml] [integrator1] [integrator2] ...",
		Short: "compare integrators on the same model",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	addModelFlags(compareCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset|model.yaml]",
		Short: "run a model over a grid of parameter values",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepModel,
	}
	addModelFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&axes, "axis", nil, "swept parameter, name=start:stop:count or name=v1,v2,...")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (0 = GOMAXPROCS)")
	sweepCmd.Flags().StringVar(&bestOf, "best", "", "report the point with the largest final concentration of this species")
	sweepCmd.Flags().BoolVar(&minimize, "min", false, "with --best, look for the smallest concentration")
	_ = sweepCmd.MarkFlagRequired("axis")

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run every step of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().BoolVar(&keepGoing, "continue-on-error", false, "keep running after a failed step")
	batchCmd.Flags().StringVar(&metricsOut, "metrics-out", "", "write prometheus metrics to this file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	infoCmd := &cobra.Command{
		Use:   "info [run_id]",
		Short: "print the metadata of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  runInfo,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot concentrations of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	addPlotFlags(plotCmd)
	plotCmd.Flags().BoolVar(&combined, "combined", false, "draw all species in one chart")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase portrait of two species",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	addPlotFlags(phaseCmd)
	phaseCmd.Flags().StringVar(&xSpecies, "x", "", "species on the x axis (default: first)")
	phaseCmd.Flags().StringVar(&ySpecies, "y", "", "species on the y axis (default: second)")
	phaseCmd.Flags().StringVar(&svgOut, "svg", "", "also write the portrait as SVG")

	playCmd := &cobra.Command{
		Use:   "play [run_id]",
		Short: "replay a stored run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  playRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export concentration curves to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 400, "image height")
	exportSVGCmd.Flags().StringVarP(&svgOut, "output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(runCmd, showCmd, verifyCmd, presetsCmd, integratorsCmd, compareCmd, sweepCmd, batchCmd,
		listCmd, infoCmd, plotCmd, phaseCmd, playCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "final time")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	cmd.Flags().Float64Var(&dt, "dt", 0, "first step, or the step of fixed-step integrators")
	cmd.Flags().IntVar(&points, "points", 0, "report on a uniform grid of this many times")
	cmd.Flags().Float64Var(&absTol, "atol", config.DefaultAbsTol, "absolute tolerance")
	cmd.Flags().Float64Var(&relTol, "rtol", config.DefaultRelTol, "relative tolerance")
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "parameter override, name=value")
	cmd.Flags().StringArrayVar(&inits, "init", nil, "initial concentration override, species=value")
}

func addPlotFlags(cmd *cobra.Command) {
	opts := viz.DefaultPlotOptions()
	cmd.Flags().IntVar(&plotHeight, "height", opts.Height, "chart height")
	cmd.Flags().IntVar(&plotWidth, "width", opts.Width, "chart width")
}

// loadModel resolves a preset name or a model file and applies the flags
// the user set explicitly.
func loadModel(cmd *cobra.Command, name string) (*config.Config, error) {
	cfg := config.GetPreset(name)
	if cfg == nil {
		if _, err := os.Stat(name); err != nil {
			return nil, fmt.Errorf("unknown model: %s (presets: %v)", name, config.ListPresets())
		}
		loaded, err := config.Load(name)
		if err != nil {
			return nil, fmt.Errorf("failed to load model: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("points") {
		cfg.Points = points
	}
	if flags.Changed("atol") {
		cfg.AbsTol = absTol
	}
	if flags.Changed("rtol") {
		cfg.RelTol = relTol
	}
	if cfg.Params == nil {
		cfg.Params = map[string]float64{}
	}
	if cfg.Init == nil {
		cfg.Init = map[string]float64{}
	}
	if err := applyAssignments(cfg.Params, params); err != nil {
		return nil, fmt.Errorf("--param: %w", err)
	}
	if err := applyAssignments(cfg.Init, inits); err != nil {
		return nil, fmt.Errorf("--init: %w", err)
	}
	return cfg, cfg.Validate()
}

func applyAssignments(dst map[string]float64, assignments []string) error {
	for _, a := range assignments {
		name, raw, ok := strings.Cut(a, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return fmt.Errorf("expected name=value, got %q", a)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		dst[name] = v
	}
	return nil
}
