package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/reactsim/internal/export"
	"github.com/san-kum/reactsim/internal/storage"
	"github.com/san-kum/reactsim/internal/viz"
)

// loadRun accepts a run ID, a unique prefix of one, or "latest".
func loadRun(id string) (*storage.RunMetadata, *storage.Trajectory, error) {
	st := storage.New(dataDir)
	if id == "latest" {
		meta, err := st.Latest()
		if err != nil {
			return nil, nil, err
		}
		id = meta.ID
	}
	meta, err := st.Load(id)
	if err != nil {
		return nil, nil, err
	}
	traj, err := st.LoadStates(meta.ID)
	if err != nil {
		return nil, nil, err
	}
	if len(traj.States) == 0 {
		return nil, nil, fmt.Errorf("run %s has no data", meta.ID)
	}
	return meta, traj, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tDURATION\tINTEG\tSTEPS\tSTATUS")

	for _, run := range runs {
		status := "ok"
		if run.Error != "" {
			status = "failed"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%s\t%d\t%s\n",
			run.ID[:min(8, len(run.ID))],
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Integrator,
			run.Stats.Accepted,
			status,
		)
	}

	return w.Flush()
}

func runInfo(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}

	rows := []viz.Row{
		{Label: "id", Value: meta.ID},
		{Label: "timestamp", Value: meta.Timestamp.Format("2006-01-02 15:04:05")},
		{Label: "integrator", Value: meta.Integrator},
		{Label: "duration", Value: fmt.Sprintf("%g", meta.Duration)},
		{Label: "cstr", Value: fmt.Sprint(meta.CSTR)},
		{Label: "points", Value: fmt.Sprint(len(traj.Times))},
		{Label: "accepted", Value: fmt.Sprint(meta.Stats.Accepted)},
		{Label: "rejected", Value: fmt.Sprint(meta.Stats.Rejected)},
		{Label: "evaluations", Value: fmt.Sprint(meta.Stats.Evaluations)},
	}
	fmt.Println(viz.Summary(meta.Model, rows))

	if len(meta.Reactions) > 0 {
		fmt.Println("reactions:")
		for _, r := range meta.Reactions {
			fmt.Printf("  %s\n", r)
		}
		fmt.Println()
	}
	if len(meta.Params) > 0 {
		fmt.Println(viz.Summary("parameters", viz.ValueRows(meta.Params)))
	}
	if len(meta.Metrics) > 0 {
		fmt.Println(viz.Summary("metrics", viz.ValueRows(meta.Metrics)))
	}

	for j, name := range traj.Names {
		fmt.Printf("  %-8s %s\n", name, viz.Sparkline(viz.Column(traj.States, j), 40))
	}

	if meta.Error != "" {
		fmt.Println()
		fmt.Println(viz.Verdict(false, meta.Error))
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("samples: %d\n\n", len(traj.States))

	opts := viz.PlotOptions{Height: plotHeight, Width: plotWidth, Combined: combined}
	if combined {
		opts.Caption = meta.Model
	}
	for _, chart := range viz.PlotSpecies(traj.Names, traj.Times, traj.States, opts) {
		fmt.Println(chart)
		fmt.Println()
	}
	return nil
}

func speciesColumn(traj *storage.Trajectory, name string, fallback int) (string, []float64, error) {
	if name == "" {
		if fallback >= len(traj.Names) {
			return "", nil, fmt.Errorf("run has only %d species", len(traj.Names))
		}
		return traj.Names[fallback], viz.Column(traj.States, fallback), nil
	}
	for j, n := range traj.Names {
		if n == name {
			return n, viz.Column(traj.States, j), nil
		}
	}
	return "", nil, fmt.Errorf("unknown species %s (have %s)", name, strings.Join(traj.Names, ", "))
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}

	xName, xs, err := speciesColumn(traj, xSpecies, 0)
	if err != nil {
		return err
	}
	yName, ys, err := speciesColumn(traj, ySpecies, 1)
	if err != nil {
		return err
	}

	fmt.Printf("phase portrait: %s (x) vs %s (y), run %s\n\n", xName, yName, meta.ID)
	fmt.Println(viz.PhasePortrait(xs, ys, plotWidth, plotHeight*2).String())

	if svgOut != "" {
		doc := export.PhaseSVG(xs, ys, 600, 600, "#00ccff")
		if err := os.WriteFile(svgOut, []byte(doc), 0644); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", svgOut)
	}
	return nil
}

func playRun(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return viz.RunPlayback(fmt.Sprintf("%s  %s", meta.Model, meta.ID[:min(8, len(meta.ID))]), traj.Names, traj.Times, traj.States)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, traj)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, traj)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	doc := export.ConcentrationsSVG(traj.Names, traj.Times, traj.States, svgWidth, svgHeight)
	if svgOut == "" {
		_, err = fmt.Fprint(os.Stdout, doc)
		return err
	}
	return os.WriteFile(svgOut, []byte(doc), 0644)
}
