package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/reactsim/internal/automation"
	"github.com/san-kum/reactsim/internal/config"
	"github.com/san-kum/reactsim/internal/experiment"
	"github.com/san-kum/reactsim/internal/metrics"
	"github.com/san-kum/reactsim/internal/optim"
	"github.com/san-kum/reactsim/internal/storage"
	"github.com/san-kum/reactsim/internal/viz"
)

func newRunner(save bool) (*automation.Runner, error) {
	r := &automation.Runner{
		Registry: experiment.NewRegistry(),
		Recorder: metrics.NewRecorder(),
	}
	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return nil, err
		}
		r.Store = st
	}
	return r, nil
}

func writeMetrics(r *automation.Runner) error {
	if metricsOut == "" {
		return nil
	}
	if err := r.Recorder.WriteTextfile(metricsOut); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}

func runModel(cmd *cobra.Command, args []string) error {
	cfg, err := loadModel(cmd, args[0])
	if err != nil {
		return err
	}
	runner, err := newRunner(!noSave)
	if err != nil {
		return err
	}

	fmt.Printf("running %s (%s, t = 0 .. %g)...\n", cfg.Name, cfg.Integrator, cfg.Duration)
	start := time.Now()
	runID, res, runErr := runner.RunConfig(cmd.Context(), cfg)
	elapsed := time.Since(start)

	if err := writeMetrics(runner); err != nil {
		return err
	}
	if res == nil {
		return runErr
	}

	rows := []viz.Row{
		{Label: "elapsed", Value: elapsed.Round(time.Microsecond).String()},
		{Label: "points", Value: fmt.Sprint(res.Len())},
		{Label: "accepted", Value: fmt.Sprint(res.Stats.Accepted)},
		{Label: "rejected", Value: fmt.Sprint(res.Stats.Rejected)},
		{Label: "evaluations", Value: fmt.Sprint(res.Stats.Evaluations)},
	}
	if runID != "" {
		rows = append([]viz.Row{{Label: "run id", Value: runID}}, rows...)
	}
	fmt.Println(viz.Summary(cfg.Name, rows))

	if final := res.Final(); final != nil {
		values := make(map[string]float64, len(res.Names))
		for i, name := range res.Names {
			values[name] = final[i]
		}
		fmt.Println(viz.Summary(fmt.Sprintf("concentrations at t = %g", res.Times[res.Len()-1]), viz.ValueRows(values)))
	}

	if showPlot {
		opts := viz.DefaultPlotOptions()
		opts.Combined = true
		opts.Caption = cfg.Name
		for _, chart := range viz.PlotSpecies(res.Names, res.Times, res.Matrix(), opts) {
			fmt.Println(chart)
		}
	}

	if runErr != nil {
		fmt.Println(viz.Verdict(false, "integration stopped early, partial trajectory kept"))
	}
	return runErr
}

func showModel(cmd *cobra.Command, args []string) error {
	cfg, err := loadModel(cmd, args[0])
	if err != nil {
		return err
	}
	exp := experiment.New(cfg, nil)
	if err := exp.Setup(cmd.Context()); err != nil {
		return err
	}

	fmt.Printf("model: %s\n\n", cfg.Name)
	fmt.Println("reactions:")
	fmt.Println(indent(exp.Reactions().String()))
	fmt.Println("rate equations:")
	fmt.Println(indent(exp.System().String()))

	if feed := exp.Feed(); feed != nil {
		fmt.Printf("feed ratio: %s\n", feed.Ratio)
		for _, name := range exp.System().Names() {
			if p, ok := feed.ConcentrationParam(name); ok {
				fmt.Printf("  feed %-8s %s\n", name, p)
			}
		}
		fmt.Println()
	}

	if len(cfg.Params) > 0 {
		fmt.Println(viz.Summary("parameters", viz.ValueRows(cfg.Params)))
	}
	if len(cfg.Init) > 0 {
		fmt.Println(viz.Summary("initial concentrations", viz.ValueRows(cfg.Init)))
	}
	return nil
}

func verifyModel(cmd *cobra.Command, args []string) error {
	cfg, err := loadModel(cmd, args[0])
	if err != nil {
		return err
	}
	maxErr, err := cmd.Flags().GetFloat64("max-error")
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, nil)
	if err := exp.Setup(cmd.Context()); err != nil {
		return err
	}
	v, err := exp.Verify(cmd.Context())
	if err != nil {
		return err
	}

	p := v.Params
	fmt.Println(viz.Summary(fmt.Sprintf("%s -> %s", v.Reactant, v.Product), []viz.Row{
		{Label: "k", Value: fmt.Sprintf("%g", p.K)},
		{Label: "feed ratio", Value: fmt.Sprintf("%g", p.FeedRatio)},
		{Label: "feed " + v.Reactant, Value: fmt.Sprintf("%g", p.FeedA)},
		{Label: "feed " + v.Product, Value: fmt.Sprintf("%g", p.FeedB)},
		{Label: "points", Value: fmt.Sprint(len(v.Exact))},
		{Label: "max err " + v.Reactant, Value: fmt.Sprintf("%.3e", v.MaxErrA)},
		{Label: "max err " + v.Product, Value: fmt.Sprintf("%.3e", v.MaxErrB)},
	}))

	if v.MaxErr() > maxErr {
		fmt.Println(viz.Verdict(false, fmt.Sprintf("error %.3e exceeds %.1e", v.MaxErr(), maxErr)))
		return fmt.Errorf("verification failed for %s", cfg.Name)
	}
	fmt.Println(viz.Verdict(true, fmt.Sprintf("numeric solution within %.1e of the closed form", maxErr)))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tCSTR\tREACTIONS")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%v\t%s\n", name, cfg.CSTR, strings.Join(cfg.Reactions, " | "))
	}
	return w.Flush()
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	base, err := loadModel(cmd, args[0])
	if err != nil {
		return err
	}
	if base.Points == 0 {
		base.Points = 101
	}

	fmt.Printf("comparing integrators for %s (duration=%g, points=%d)\n\n", base.Name, base.Duration, base.Points)

	type row struct {
		name  string
		final map[string]float64
		stats string
		took  time.Duration
		err   error
	}
	var rows []row
	var species []string

	for _, name := range args[1:] {
		cfg := base.Clone()
		cfg.Integrator = name

		exp := experiment.New(cfg, nil)
		r := row{name: name}
		if err := exp.Setup(cmd.Context()); err != nil {
			return err
		}
		start := time.Now()
		res, err := exp.Run(cmd.Context())
		r.took = time.Since(start)
		r.err = err
		if res != nil && err == nil {
			species = res.Names
			r.final = make(map[string]float64, len(res.Names))
			for i, v := range res.Final() {
				r.final[res.Names[i]] = v
			}
			r.stats = fmt.Sprintf("%d/%d/%d", res.Stats.Accepted, res.Stats.Rejected, res.Stats.Evaluations)
		}
		rows = append(rows, r)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := []string{"INTEGRATOR"}
	for _, s := range species {
		header = append(header, "FINAL_"+s)
	}
	header = append(header, "ACC/REJ/EVAL", "TIME_MS")
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, r := range rows {
		if r.err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", r.name, r.err)
			continue
		}
		cols := []string{r.name}
		for _, s := range species {
			cols = append(cols, fmt.Sprintf("%.8f", r.final[s]))
		}
		cols = append(cols, r.stats, fmt.Sprintf("%.2f", float64(r.took.Microseconds())/1000))
		fmt.Fprintln(w, strings.Join(cols, "\t"))
	}
	return w.Flush()
}

func sweepModel(cmd *cobra.Command, args []string) error {
	base, err := loadModel(cmd, args[0])
	if err != nil {
		return err
	}

	var parsed []optim.Axis
	for _, a := range axes {
		axis, err := optim.ParseAxis(a)
		if err != nil {
			return err
		}
		parsed = append(parsed, axis)
	}
	grid := optim.NewGridSearch(parsed...)

	fmt.Printf("sweeping %s over %d points...\n\n", base.Name, len(grid.Points()))
	outcomes, err := grid.Search(cmd.Context(), base, workers)
	if err != nil {
		return err
	}

	paramNames := make([]string, len(parsed))
	for i, a := range parsed {
		paramNames[i] = a.Param
	}
	var species []string
	for _, o := range outcomes {
		if o.Err == nil {
			for s := range o.Final {
				species = append(species, s)
			}
			sort.Strings(species)
			break
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(append(append([]string{}, paramNames...), species...), "\t")))
	failed := 0
	for _, o := range outcomes {
		cols := make([]string, 0, len(paramNames)+len(species))
		for _, p := range paramNames {
			cols = append(cols, fmt.Sprintf("%g", o.Params[p]))
		}
		if o.Err != nil {
			failed++
			cols = append(cols, "error: "+o.Err.Error())
		} else {
			for _, s := range species {
				cols = append(cols, fmt.Sprintf("%.6g", o.Final[s]))
			}
		}
		fmt.Fprintln(w, strings.Join(cols, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if failed > 0 {
		fmt.Printf("\n%d of %d points failed\n", failed, len(outcomes))
	}
	if bestOf != "" {
		best, ok := optim.Best(outcomes, bestOf, !minimize)
		if !ok {
			return fmt.Errorf("no successful point reports species %s", bestOf)
		}
		fmt.Println()
		fmt.Println(viz.Summary(fmt.Sprintf("best %s = %.6g", bestOf, best.Final[bestOf]), viz.ValueRows(best.Params)))
	}
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	runner, err := newRunner(true)
	if err != nil {
		return err
	}
	runner.ContinueOnError = keepGoing

	results, runErr := runner.RunFile(cmd.Context(), args[0])
	if err := writeMetrics(runner); err != nil {
		return errors.Join(runErr, err)
	}

	for _, r := range results {
		switch {
		case r.Err == nil:
			fmt.Println(viz.Verdict(true, fmt.Sprintf("%s  %s", r.Name, r.RunID)))
		case r.RunID != "":
			fmt.Println(viz.Verdict(false, fmt.Sprintf("%s  %s (partial): %v", r.Name, r.RunID, r.Err)))
		default:
			fmt.Println(viz.Verdict(false, fmt.Sprintf("%s: %v", r.Name, r.Err)))
		}
	}
	return runErr
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n") + "\n"
}
