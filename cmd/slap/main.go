package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/pursuitlab/slap/internal/analysis"
	"github.com/pursuitlab/slap/internal/automation"
	"github.com/pursuitlab/slap/internal/config"
	"github.com/pursuitlab/slap/internal/experiment"
	"github.com/pursuitlab/slap/internal/export"
	"github.com/pursuitlab/slap/internal/optim"
	"github.com/pursuitlab/slap/internal/sim"
	"github.com/pursuitlab/slap/internal/storage"
	"github.com/pursuitlab/slap/internal/tdoa"
	"github.com/pursuitlab/slap/internal/traj"
	"github.com/pursuitlab/slap/internal/viz"
)

var (
	dataDir     string
	configFile  string
	preset      string
	plannerName string
	stepperName string
	dt          float64
	duration    float64
	horizon     int
	separation  float64
	radius      float64
	spin        float64
	targetSpeed float64
	seed        int64
	noSave      bool
	// plot / analyze
	column string
	// traj export
	svgPath string
	// tune / sweep
	tuneParams []string
	metricName string
	paramName  string
	paramMin   float64
	paramMax   float64
	paramSteps int
	// monte carlo
	trials  int
	perturb float64
	// tdoa
	targetPos string
	stationA  string
	stationB  string
	locusMax  float64
	locusN    int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "slap",
		Short: "two-tracker pursuit planning lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".slap", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a pursuit",
		RunE:  runPursuit,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", "", "extra column to plot")

	trajCmd := &cobra.Command{
		Use:   "traj [run_id]",
		Short: "top-down trajectory view",
		Args:  cobra.ExactArgs(1),
		RunE:  trajRun,
	}
	trajCmd.Flags().StringVar(&svgPath, "svg", "", "write an SVG to this path")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a pursuit with live visualization",
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark planner solve times",
		RunE:  benchPlanner,
	}
	benchCmd.Flags().StringVar(&preset, "preset", "", "use preset scenario")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of the tracker orbit",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&column, "column", "", "analyze a raw column instead")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
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

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search over planner parameters",
		RunE:  tunePlanner,
	}
	addConfigFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&tuneParams, "param", nil, "parameter grid, e.g. radius=1.5,2,2.5 (repeatable)")
	tuneCmd.Flags().StringVar(&metricName, "metric", "tracking_rmse", "metric to minimize")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter across a range",
		RunE:  sweepPlanner,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&paramName, "param", "radius", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&paramMin, "min", 1.0, "range start")
	sweepCmd.Flags().Float64Var(&paramMax, "max", 3.0, "range end")
	sweepCmd.Flags().IntVar(&paramSteps, "steps", 5, "number of points")
	sweepCmd.Flags().StringVar(&metricName, "metric", "tracking_rmse", "metric to report")

	monteCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "repeated trials with perturbed initial states",
		RunE:  runMonteCarlo,
	}
	addConfigFlags(monteCmd)
	monteCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCmd.Flags().Float64Var(&perturb, "perturb", 1.0, "initial position perturbation")
	monteCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time)")

	tdoaCmd := &cobra.Command{
		Use:   "tdoa",
		Short: "plot the hyperbolic locus for a station pair",
		RunE:  tdoaLocus,
	}
	tdoaCmd.Flags().StringVar(&targetPos, "target", "3,4", "target position x,y")
	tdoaCmd.Flags().StringVar(&stationA, "a", "0,0", "station a position x,y")
	tdoaCmd.Flags().StringVar(&stationB, "b", "10,0", "station b position x,y")
	tdoaCmd.Flags().Float64Var(&locusMax, "max-param", 2.0, "branch parameter limit")
	tdoaCmd.Flags().IntVar(&locusN, "samples", 41, "locus sample count")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list scenario presets",
		RunE:  listPresets,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, trajCmd, liveCmd, benchCmd, analyzeCmd,
		exportCmd, exportCSVCmd, exportJSONCmd, tuneCmd, sweepCmd, monteCmd, tdoaCmd,
		presetsCmd, scenarioCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset scenario")
	cmd.Flags().StringVar(&plannerName, "planner", "mpc", "planner (mpc, pursuit)")
	cmd.Flags().StringVar(&stepperName, "stepper", "euler", "stepper (euler, rk4)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "planning timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().IntVar(&horizon, "horizon", config.DefaultHorizon, "prediction horizon")
	cmd.Flags().Float64Var(&separation, "separation", config.DefaultSeparation, "minimum tracker separation")
	cmd.Flags().Float64Var(&radius, "radius", config.DefaultRadius, "formation radius")
	cmd.Flags().Float64Var(&spin, "spin", config.DefaultRate, "formation angular rate")
	cmd.Flags().Float64Var(&targetSpeed, "target-speed", config.DefaultSpeed, "target ground speed")
}

// loadConfig resolves preset, config file, and flag overrides, in that
// order of increasing precedence.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("planner") {
		cfg.Planner = plannerName
	}
	if cmd.Flags().Changed("stepper") {
		cfg.Stepper = stepperName
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("horizon") {
		cfg.Horizon = horizon
	}
	if cmd.Flags().Changed("separation") {
		cfg.Separation = separation
	}
	if cmd.Flags().Changed("radius") {
		cfg.Formation.Radius = radius
	}
	if cmd.Flags().Changed("spin") {
		cfg.Formation.Rate = spin
	}
	if cmd.Flags().Changed("target-speed") {
		cfg.Target.Speed = targetSpeed
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}

	return cfg, cfg.Validate()
}

func runPursuit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return err
	}

	fmt.Printf("running %s pursuit...\n", cfg.Planner)
	start := time.Now()

	result, runErr := exp.Run(context.Background())
	if result == nil {
		return runErr
	}

	elapsed := time.Since(start)

	if runErr != nil {
		fmt.Printf("aborted after %v: %v\n", elapsed, runErr)
	} else {
		fmt.Printf("completed in %v\n", elapsed)
	}
	fmt.Printf("cycles: %d\n", result.Cycles)

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg.Planner, cfg.Stepper, cfg.Dt, cfg.Duration, cfg.Seed, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)
	return runErr
}

func printMetrics(metrics map[string]float64) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range []string{"tracking_rmse", "center_rmse", "min_separation", "control_effort", "solve_time_ms"} {
		if val, ok := metrics[name]; ok {
			fmt.Fprintf(w, "  %s\t%.6f\n", name, val)
		}
	}
	w.Flush()
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
	fmt.Fprintln(w, "ID\tPLANNER\tTIME\tDURATION\tDT\tCYCLES\tMIN_SEP")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1fs\t%.2fs\t%d\t%.2f\n",
			run.ID,
			run.Planner,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Cycles,
			run.Metrics["min_separation"],
		)
	}

	return w.Flush()
}

// columnIndex finds a named column in the stored state rows.
func columnIndex(name string) int {
	cols := append(sim.StateColumns(), sim.ControlColumns()...)
	for i, col := range cols {
		if col == name {
			return i
		}
	}
	return -1
}

func columnData(states [][]float64, idx int) []float64 {
	data := make([]float64, len(states))
	for i := range states {
		if idx < len(states[i]) {
			data[i] = states[i][idx]
		}
	}
	return data
}

// separationSeries computes the realized inter-tracker distance per row.
func separationSeries(states [][]float64) []float64 {
	x1, y1 := columnIndex("t1_x"), columnIndex("t1_y")
	x2, y2 := columnIndex("t2_x"), columnIndex("t2_y")

	out := make([]float64, len(states))
	for i, row := range states {
		dx := row[x1] - row[x2]
		dy := row[y1] - row[y2]
		out[i] = math.Hypot(dx, dy)
	}
	return out
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("planner: %s\n", meta.Planner)
	fmt.Printf("samples: %d\n\n", len(states))

	graph := asciigraph.Plot(separationSeries(states),
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("tracker separation"),
	)
	fmt.Println(graph)
	fmt.Println()

	if idx := columnIndex("t1_v"); idx >= 0 {
		graph = asciigraph.Plot(columnData(states, idx),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("tracker 1 speed command"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if column != "" {
		idx := columnIndex(column)
		if idx < 0 {
			return fmt.Errorf("unknown column: %s", column)
		}
		graph = asciigraph.Plot(columnData(states, idx),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(column+" vs time"),
		)
		fmt.Println(graph)
	}

	return nil
}

func trajRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	pathFor := func(xCol, yCol string) []traj.Point {
		xIdx, yIdx := columnIndex(xCol), columnIndex(yCol)
		pts := make([]traj.Point, len(states))
		for i, row := range states {
			pts[i] = traj.Point{X: row[xIdx], Y: row[yIdx]}
		}
		return pts
	}

	paths := [][]traj.Point{
		pathFor("tgt_x", "tgt_y"),
		pathFor("t1_x", "t1_y"),
		pathFor("t2_x", "t2_y"),
	}

	var all []traj.Point
	for _, p := range paths {
		all = append(all, p...)
	}

	width, height := 80, 24
	canvas := viz.NewCanvas(width, height)
	proj := viz.NewProjection(all, width, height)
	for _, p := range paths {
		viz.DrawPath(canvas, proj, p)
	}

	fmt.Printf("run: %s (target and tracker trajectories)\n\n", meta.ID)
	fmt.Println(canvas.String())

	if svgPath != "" {
		svg := export.SceneToSVG(export.ScenePaths{Paths: paths}, 800, 600)
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	p, err := registry.GetPlanner(cfg.Planner, experiment.PipelineConfig(cfg))
	if err != nil {
		return err
	}
	stepper, err := registry.GetStepper(cfg.Stepper)
	if err != nil {
		return err
	}

	m, err := viz.NewModel(p, stepper, cfg.TargetPoints(), cfg.Target.Speed,
		cfg.CenterState(), cfg.TrackerStates(), cfg.Dt, cfg.Duration, cfg.Formation.Radius)
	if err != nil {
		return err
	}

	prog := tea.NewProgram(m)
	_, err = prog.Run()
	return err
}

func benchPlanner(cmd *cobra.Command, args []string) error {
	base := config.DefaultConfig()
	if preset != "" {
		base = config.GetPreset(preset)
		if base == nil {
			return fmt.Errorf("unknown preset: %s", preset)
		}
	}
	base.Duration = 10

	horizons := []int{5, 10, 15}
	dts := []float64{0.25, 0.5}

	fmt.Println("benchmarking mpc planner")
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "HORIZON\tDT\tCYCLES\tSOLVE_MS\tWALL")

	for _, h := range horizons {
		for _, step := range dts {
			cfg := *base
			cfg.Horizon = h
			cfg.Dt = step

			exp := experiment.New(&cfg)
			if err := exp.Setup(experiment.NewRegistry()); err != nil {
				return err
			}

			start := time.Now()
			result, err := exp.Run(context.Background())
			elapsed := time.Since(start)
			if err != nil {
				fmt.Fprintf(w, "%d\t%.2fs\terror: %v\n", h, step, err)
				continue
			}

			fmt.Fprintf(w, "%d\t%.2fs\t%d\t%.2f\t%v\n",
				h, step, result.Cycles, result.Metrics["solve_time_ms"], elapsed.Round(time.Millisecond))
		}
	}

	return w.Flush()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data")
	}

	var data []float64
	caption := "tracker 1 offset from center (x)"
	if column != "" {
		idx := columnIndex(column)
		if idx < 0 {
			return fmt.Errorf("unknown column: %s", column)
		}
		data = columnData(states, idx)
		caption = column
	} else {
		// The orbit shows up in the tracker position relative to the
		// virtual center.
		tIdx, cIdx := columnIndex("t1_x"), columnIndex("ctr_x")
		data = make([]float64, len(states))
		for i, row := range states {
			data[i] = row[tIdx] - row[cIdx]
		}
	}

	fmt.Printf("frequency analysis: %s\n\n", meta.ID)

	ps := analysis.PowerSpectrum(data)
	plotData := ps
	if len(plotData) > 64 {
		plotData = plotData[:64]
	}

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum: "+caption),
	)
	fmt.Println(graph)
	fmt.Println()

	freq := analysis.DominantFrequency(data, meta.Dt)
	fmt.Printf("dominant frequency: %.4f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.2f s\n", 1.0/freq)
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time"}
	header = append(header, sim.StateColumns()...)
	header = append(header, sim.ControlColumns()...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range states {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, val := range states[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	numState := len(sim.StateColumns())
	result := &sim.Result{
		Times:    times,
		States:   make([][]float64, len(states)),
		Controls: make([][]float64, 0, len(states)),
		Metrics:  meta.Metrics,
		Cycles:   meta.Cycles,
	}
	for i, row := range states {
		if len(row) >= numState {
			result.States[i] = row[:numState]
			if i > 0 {
				result.Controls = append(result.Controls, row[numState:])
			}
		} else {
			result.States[i] = row
		}
	}

	return storage.ExportJSONStdout(meta.Planner, meta.Stepper, meta.Dt, meta.Duration, result)
}

func tunePlanner(cmd *cobra.Command, args []string) error {
	if len(tuneParams) == 0 {
		return fmt.Errorf("no parameters given, use --param name=v1,v2,...")
	}

	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(tuneParams))
	ranges := make([][]float64, 0, len(tuneParams))
	for _, spec := range tuneParams {
		name, vals, err := parseParamSpec(spec)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}

	build := func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := *base
		for name, val := range params {
			if err := optim.ApplyParam(&cfg, name, val); err != nil {
				return nil, err
			}
		}
		exp := experiment.New(&cfg)
		if err := exp.Setup(experiment.NewRegistry()); err != nil {
			return nil, err
		}
		return exp, nil
	}

	total := 1
	for _, r := range ranges {
		total *= len(r)
	}
	fmt.Printf("searching %d combinations, minimizing %s...\n", total, metricName)

	gs := optim.NewGridSearch(names, ranges)
	bestParams, best, err := gs.Search(context.Background(), build, metricName)
	if err != nil {
		return err
	}
	if bestParams == nil {
		return fmt.Errorf("no combination produced a complete run")
	}

	fmt.Printf("\nbest %s: %.6f\n", metricName, best)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\t%.4f\n", name, bestParams[name])
	}
	return w.Flush()
}

func parseParamSpec(spec string) (string, []float64, error) {
	parts := strings.SplitN(spec, "=", 2)
	if len(parts) != 2 {
		return "", nil, fmt.Errorf("bad parameter spec: %s (want name=v1,v2,...)", spec)
	}
	name := parts[0]

	raw := strings.Split(parts[1], ",")
	vals := make([]float64, 0, len(raw))
	for _, r := range raw {
		v, err := strconv.ParseFloat(strings.TrimSpace(r), 64)
		if err != nil {
			return "", nil, fmt.Errorf("bad value in %s: %w", spec, err)
		}
		vals = append(vals, v)
	}
	if len(vals) == 0 {
		return "", nil, fmt.Errorf("no values for parameter %s", name)
	}
	return name, vals, nil
}

func sweepPlanner(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	sweep := &automation.ParameterSweep{
		Base:      base,
		ParamName: paramName,
		ParamMin:  paramMin,
		ParamMax:  paramMax,
		NumSteps:  paramSteps,
		Metric:    metricName,
	}

	results, err := automation.RunSweep(context.Background(), sweep, experiment.NewRegistry())
	if err != nil {
		return err
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(paramName), strings.ToUpper(metricName))
	values := make([]float64, 0, len(results))
	for _, r := range results {
		if r.Failed {
			fmt.Fprintf(w, "%.4f\tfailed\n", r.ParamValue)
			continue
		}
		fmt.Fprintf(w, "%.4f\t%.6f\n", r.ParamValue, r.MetricValue)
		values = append(values, r.MetricValue)
	}
	w.Flush()

	if len(values) >= 2 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(values,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption(metricName+" vs "+paramName),
		))
	}
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	mc := &automation.MonteCarloConfig{
		Base:         base,
		Perturbation: perturb,
		NumTrials:    trials,
		Seed:         seed,
	}

	results, err := automation.RunMonteCarlo(context.Background(), mc, experiment.NewRegistry())
	if err != nil {
		return err
	}

	completed, failed := automation.MonteCarloStats(results)
	fmt.Printf("\ncompleted: %d/%d\n", completed, len(results))
	if failed > 0 {
		fmt.Printf("failed: %d\n", failed)
	}

	// worst separation among completed trials
	worst := -1.0
	for _, r := range results {
		if !r.Completed || r.Metrics == nil {
			continue
		}
		if sep, ok := r.Metrics["min_separation"]; ok && (worst < 0 || sep < worst) {
			worst = sep
		}
	}
	if worst >= 0 {
		fmt.Printf("worst min separation: %.3f\n", worst)
	}
	return nil
}

func parsePoint(s string) (traj.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return traj.Point{}, fmt.Errorf("bad point: %s (want x,y)", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return traj.Point{}, err
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return traj.Point{}, err
	}
	return traj.Point{X: x, Y: y}, nil
}

func tdoaLocus(cmd *cobra.Command, args []string) error {
	tgt, err := parsePoint(targetPos)
	if err != nil {
		return err
	}
	a, err := parsePoint(stationA)
	if err != nil {
		return err
	}
	b, err := parsePoint(stationB)
	if err != nil {
		return err
	}

	calc := tdoa.NewCalculator(locusMax, locusN)
	xs, ys, err := calc.Locus(tgt, a, b)
	if err != nil {
		return err
	}

	rd := tdoa.RangeDiff(tgt, a, b)
	fmt.Printf("range difference: %.4f\n", rd)

	points := make([]traj.Point, 0, len(xs)+3)
	for i := range xs {
		points = append(points, traj.Point{X: xs[i], Y: ys[i]})
	}
	points = append(points, tgt, a, b)

	width, height := 80, 24
	canvas := viz.NewCanvas(width, height)
	proj := viz.NewProjection(points, width, height)
	for i := range xs {
		x, y := proj.Px(traj.Point{X: xs[i], Y: ys[i]})
		canvas.Set(x, y)
	}
	for _, p := range []traj.Point{a, b} {
		x, y := proj.Px(p)
		canvas.DrawMarker(x, y)
	}
	tx, ty := proj.Px(tgt)
	canvas.DrawCircle(tx, ty, 2)

	fmt.Println()
	fmt.Println(canvas.String())
	fmt.Println("stations drawn as crosses, target as a circle")
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSPEED\tRADIUS\tSPIN\tDURATION")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%.1f\t%.1f\t%.2f\t%.0fs\n",
			name, cfg.Target.Speed, cfg.Formation.Radius, cfg.Formation.Rate, cfg.Duration)
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Println(scenario.Description)
	}

	results, err := automation.RunScenario(context.Background(), scenario, experiment.NewRegistry())
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	for i, result := range results {
		step := scenario.Steps[i]
		fmt.Printf("\nstep %d (%d cycles):\n", i+1, result.Cycles)
		printMetrics(result.Metrics)

		if step.SaveAs != "" {
			cfg, err := automation.StepConfig(step)
			if err != nil {
				return err
			}
			runID, err := st.Save(cfg.Planner, cfg.Stepper, cfg.Dt, cfg.Duration, cfg.Seed, &result)
			if err != nil {
				return err
			}
			fmt.Printf("saved as %s\n", runID)
		}
	}

	return nil
}
