package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/ballpit/internal/analysis"
	"github.com/san-kum/ballpit/internal/automation"
	"github.com/san-kum/ballpit/internal/export"
	"github.com/san-kum/ballpit/internal/logging"
	"github.com/san-kum/ballpit/internal/metrics"
	"github.com/san-kum/ballpit/internal/optim"
	"github.com/san-kum/ballpit/internal/sim"
	"github.com/san-kum/ballpit/internal/world"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"
)

func runHeadless(cmd *cobra.Command, args []string) error {
	ctx, cfg, log, done, err := setup(cmd, "-")
	if err != nil {
		return err
	}
	defer done()

	simCfg := sim.Config{Ticks: steps, FPS: cfg.FPS}
	if dragBody >= 0 {
		target, err := parseVec(dragTarget)
		if err != nil {
			return err
		}
		simCfg.Drags = []sim.Drag{{Body: dragBody, Start: dragStart, Ticks: dragTicks, Target: target}}
	}

	s := sim.New(cfg.NewWorld())
	for _, m := range metrics.Standard() {
		s.AddMetric(m)
	}

	var last world.Pointer
	s.AddObserver(sim.ObserverFunc(func(_ int, _ *world.World, p world.Pointer) { last = p }))

	var rec *export.Recorder
	if trailFile != "" {
		rec = &export.Recorder{Every: 2}
		s.AddObserver(rec)
	}

	var w *csv.Writer
	if writeCSV {
		w = csv.NewWriter(os.Stdout)
		w.Write([]string{"tick", "body", "x", "y", "vx", "vy", "held"})
		s.AddObserver(csvObserver(w))
	}

	result, err := s.Run(ctx, simCfg)
	if err != nil {
		log.Error(ctx, "run failed", err, "ticks", steps)
		return err
	}
	log.Info(ctx, "run finished", "ticks", result.Ticks, "held_ticks", result.HeldTicks)

	if svgFile != "" {
		if err := writeFile(svgFile, export.WorldSVG(result.Final, last, svgScale)); err != nil {
			return err
		}
		log.Info(ctx, "wrote snapshot", "path", svgFile)
	}
	if rec != nil {
		if err := writeFile(trailFile, export.TrajectorySVG(result.Final, rec.Paths, svgScale)); err != nil {
			return err
		}
		log.Info(ctx, "wrote trajectories", "path", trailFile)
	}

	if writeCSV {
		w.Flush()
		return w.Error()
	}
	if writeJSON {
		return export.NewReport(preset, cfg, result).WriteJSON(os.Stdout)
	}
	printResult(result)

	lambda := analysis.LyapunovExponent(cfg.NewWorld(), steps, 1e-6)
	fmt.Printf("\nlyapunov exponent: %.5f per tick\n", lambda)
	if period := analysis.DominantPeriod(result.Energy); period > 0 {
		fmt.Printf("dominant energy period: %.1f ticks (%.2fs)\n", period, period/float64(cfg.FPS))
	}
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	if numRuns <= 0 {
		return fmt.Errorf("runs must be positive, got %d", numRuns)
	}
	ctx, cfg, log, done, err := setup(cmd, "-")
	if err != nil {
		return err
	}
	defer done()

	e := sim.NewEnsemble(func(seed int64) *world.World {
		c := *cfg
		c.Seed = seed
		return c.NewWorld()
	}, numRuns, cfg.Seed)
	e.NewMetrics = metrics.Standard
	e.Workers = workers

	results, err := e.Run(ctx, sim.Config{Ticks: steps, FPS: cfg.FPS})
	if err != nil {
		log.Error(ctx, "ensemble failed", err, "runs", numRuns)
		return err
	}
	log.Info(ctx, "ensemble finished", "runs", len(results))

	names := metricNames(results[0].Metrics)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "SEED\t%s\n", strings.ToUpper(strings.Join(names, "\t")))
	for _, r := range results {
		fmt.Fprintf(tw, "%d", r.Seed)
		for _, n := range names {
			fmt.Fprintf(tw, "\t%.4f", r.Metrics[n])
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()

	fmt.Println()
	tw = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "METRIC\tMEAN\tSTD")
	for _, s := range sim.Summarize(results) {
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\n", s.Name, s.Mean, s.Std)
	}
	return tw.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	ctx, _, log, done, err := setup(cmd, "-")
	if err != nil {
		return err
	}
	defer done()

	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return logging.WrapError(err, "load scenario")
	}

	results, err := automation.RunScenario(ctx, sc, log)
	if err != nil {
		log.Error(ctx, "scenario failed", err, "scenario", sc.Name)
		return err
	}

	if sc.Name != "" {
		fmt.Printf("scenario: %s\n", sc.Name)
	}
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}
	for _, st := range results {
		fmt.Printf("\n== %s (%d runs)\n", st.Name, len(st.Results))
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "METRIC\tMEAN\tSTD")
		for _, s := range sim.Summarize(st.Results) {
			fmt.Fprintf(tw, "%s\t%.4f\t%.4f\n", s.Name, s.Mean, s.Std)
		}
		tw.Flush()
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	if len(sweepParams) == 0 {
		return fmt.Errorf("at least one --param is required (known: %s)", strings.Join(optim.KnobNames(), ", "))
	}
	names := make([]string, len(sweepParams))
	ranges := make([][]float64, len(sweepParams))
	for i, p := range sweepParams {
		name, values, ok := strings.Cut(p, "=")
		if !ok {
			return fmt.Errorf("invalid --param %q: want name=values", p)
		}
		vals, err := optim.ParseRange(values)
		if err != nil {
			return err
		}
		names[i], ranges[i] = strings.TrimSpace(name), vals
	}

	g, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}
	g.Maximize = maximize

	ctx, cfg, log, done, err := setup(cmd, "-")
	if err != nil {
		return err
	}
	defer done()

	best, points, err := g.Search(ctx, cfg, sim.Config{Ticks: steps, FPS: cfg.FPS}, sweepMetric)
	if err != nil {
		log.Error(ctx, "sweep failed", err, "points", len(points))
		return err
	}
	log.Info(ctx, "sweep finished", "points", len(points), "metric", sweepMetric, "best", best.Value)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(sweepMetric))
	for _, pt := range points {
		for _, n := range names {
			fmt.Fprintf(tw, "%g\t", pt.Params[n])
		}
		mark := ""
		if pt.Value == best.Value {
			mark = "  *"
		}
		fmt.Fprintf(tw, "%.4f%s\n", pt.Value, mark)
	}
	return tw.Flush()
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return logging.WrapError(err, "write %s", path)
	}
	return nil
}

func printResult(r *sim.Result) {
	fmt.Printf("ticks: %d  held: %d\n\n", r.Ticks, r.HeldTicks)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "METRIC\tVALUE")
	for _, n := range metricNames(r.Metrics) {
		fmt.Fprintf(tw, "%s\t%.4f\n", n, r.Metrics[n])
	}
	tw.Flush()

	if len(r.Energy) > 1 {
		graph := asciigraph.Plot(r.Energy,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("kinetic energy per tick"),
		)
		fmt.Printf("\n%s\n\n", graph)
	}

	tw = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "BODY\tX\tY\tVX\tVY")
	for i, b := range r.Final.Bodies {
		fmt.Fprintf(tw, "%d\t%.2f\t%.2f\t%.3f\t%.3f\n", i, b.Pos.X, b.Pos.Y, b.Vel.X, b.Vel.Y)
	}
	tw.Flush()
}

func csvObserver(w *csv.Writer) sim.ObserverFunc {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	return func(tick int, wd *world.World, p world.Pointer) {
		for i, b := range wd.Bodies {
			w.Write([]string{
				strconv.Itoa(tick),
				strconv.Itoa(i),
				f(b.Pos.X), f(b.Pos.Y),
				f(b.Vel.X), f(b.Vel.Y),
				strconv.FormatBool(p.Holds(i)),
			})
		}
	}
}

func metricNames(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// parseVec parses "x,y".
func parseVec(s string) (r2.Vec, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return r2.Vec{}, fmt.Errorf("invalid point %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return r2.Vec{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return r2.Vec{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return r2.Vec{X: x, Y: y}, nil
}
