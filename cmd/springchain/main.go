package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/springchain/internal/analysis"
	"github.com/san-kum/springchain/internal/automation"
	"github.com/san-kum/springchain/internal/config"
	"github.com/san-kum/springchain/internal/dynamo"
	"github.com/san-kum/springchain/internal/export"
	"github.com/san-kum/springchain/internal/metrics"
	"github.com/san-kum/springchain/internal/optim"
	"github.com/san-kum/springchain/internal/params"
	"github.com/san-kum/springchain/internal/physics"
	"github.com/san-kum/springchain/internal/sim"
	"github.com/san-kum/springchain/internal/storage"
	"github.com/san-kum/springchain/internal/tui"
	"github.com/san-kum/springchain/internal/viz"
)

// tuneFrames gives slow presets time to settle.
const tuneFrames = 3000

var (
	dataDir  string
	logLevel string
	logFile  string

	configFile string
	preset     string
	nodes      int
	k          float64
	rest       float64
	gravity    float64
	friction   float64

	frames      int
	dt          float64
	recordEvery int
	settle      bool
	watch       bool
	frameRate   int
	noSave      bool

	theme string

	plotNode  int
	svgFrame  int
	svgOut    string
	svgWidth  int
	svgHeight int
	svgTrail  bool

	sweepParam  string
	sweepValues string

	phaseNode int
	phaseAxis string

	tuneParams []string
	tuneMetric string

	scriptSave bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "springchain",
		Short:         "interactive mass-spring chain",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".springchain", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file")
	addChainFlags(rootCmd)
	rootCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "open the interactive terminal view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addChainFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "color theme")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addChainFlags(runCmd)
	runCmd.Flags().IntVar(&frames, "frames", sim.DefaultFrames, "number of frames")
	runCmd.Flags().Float64Var(&dt, "dt", sim.DefaultDt, "frame interval in ms")
	runCmd.Flags().IntVar(&recordEvery, "record-every", 1, "record every n-th frame (0 = none)")
	runCmd.Flags().BoolVar(&settle, "settle", false, "stop once the chain is at rest")
	runCmd.Flags().BoolVar(&watch, "watch", false, "print frames to the terminal while running")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate for --watch")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot node height and speed",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotNode, "node", -1, "node index (-1 = last)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a stored frame to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&svgFrame, "frame", -1, "recorded frame index (-1 = last)")
	exportSVGCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 600, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 800, "image height")
	exportSVGCmd.Flags().BoolVar(&svgTrail, "trajectory", false, "draw the tail node trajectory instead of a frame")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run one simulation per parameter value, in parallel",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addChainFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", params.SpringConstant, "parameter to vary ("+strings.Join(params.Names(), ", ")+")")
	sweepCmd.Flags().StringVar(&sweepValues, "values", "1,2,4,8", "comma separated values")
	sweepCmd.Flags().IntVar(&frames, "frames", sim.DefaultFrames, "number of frames")
	sweepCmd.Flags().Float64Var(&dt, "dt", sim.DefaultDt, "frame interval in ms")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a node's height",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&plotNode, "node", -1, "node index (-1 = last)")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase portrait of one node",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&phaseNode, "node", -1, "node index (-1 = last)")
	phaseCmd.Flags().StringVar(&phaseAxis, "axis", "y", "axis (x or y)")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search parameters for the lowest score",
		Long: "Runs every combination of --grid values in parallel and reports the one with the\n" +
			"lowest --metric. Grid entries look like k=2,4,8.",
		Args: cobra.NoArgs,
		RunE: runTune,
	}
	addChainFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&tuneParams, "grid", []string{"friction=0.9,0.95,0.98"}, "parameter values, e.g. k=2,4,8 (repeatable)")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", optim.SettleFrame, "score to minimise (settle_frame or a metric name)")
	tuneCmd.Flags().IntVar(&frames, "frames", tuneFrames, "number of frames")
	tuneCmd.Flags().Float64Var(&dt, "dt", sim.DefaultDt, "frame interval in ms")

	scriptCmd := &cobra.Command{
		Use:   "script [scenario.yaml]",
		Short: "replay a scripted interaction session",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}
	addChainFlags(scriptCmd)
	scriptCmd.Flags().BoolVar(&scriptSave, "save", true, "store the session as a run")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "configuration files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	configInitCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(liveCmd, runCmd, listCmd, plotCmd, exportCmd, exportSVGCmd, sweepCmd, analyzeCmd, phaseCmd, tuneCmd, scriptCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addChainFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&nodes, "nodes", physics.DefaultCount, "number of nodes")
	cmd.Flags().Float64Var(&k, "k", params.DefaultSpringConstant, "spring constant")
	cmd.Flags().Float64Var(&rest, "rest", params.DefaultRestLength, "spring rest length")
	cmd.Flags().Float64Var(&gravity, "gravity", params.DefaultGravity, "gravity")
	cmd.Flags().Float64Var(&friction, "friction", params.DefaultFriction, "velocity retained per frame")
}

// loadConfig layers defaults, preset, config file and explicit flags, in
// that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" && !config.Apply(cfg, preset) {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("nodes") {
		cfg.Chain.Nodes = nodes
	}
	if flags.Changed("k") {
		cfg.Params.SpringConstant = k
	}
	if flags.Changed("rest") {
		cfg.Params.RestLength = rest
	}
	if flags.Changed("gravity") {
		cfg.Params.Gravity = gravity
	}
	if flags.Changed("friction") {
		cfg.Params.Friction = friction
	}
	if flags.Changed("frames") {
		cfg.Run.Frames = frames
	}
	if flags.Changed("dt") {
		cfg.Run.DtMs = dt
	}
	if flags.Changed("record-every") {
		cfg.Run.RecordEvery = recordEvery
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func presetName() string {
	switch {
	case configFile != "":
		return "custom"
	case preset != "":
		return preset
	}
	return "default"
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(logLevel, logFile, true)
	if err != nil {
		return err
	}
	defer closeLog()

	s, err := cfg.NewSimulator(sim.WithLogger(logger))
	if err != nil {
		return err
	}
	logger.Info("live view", "preset", presetName(), "nodes", cfg.Chain.Nodes)
	return viz.Run(s, cfg.Layout(), viz.Options{Width: cfg.View.Width, Height: cfg.View.Height, Theme: theme})
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(logLevel, logFile, false)
	if err != nil {
		return err
	}
	defer closeLog()

	s, err := cfg.NewSimulator(sim.WithLogger(logger))
	if err != nil {
		return err
	}
	for _, m := range metrics.Defaults() {
		s.AddMetric(m)
	}

	var renderer *tui.LiveRenderer
	if watch {
		renderer = tui.NewLiveRenderer(cfg.Layout(), cfg.Params.RestLength, frameRate)
		renderer.Start()
		defer renderer.Stop()
		s.AddObserver(renderer)
	}

	runCfg := cfg.RunConfig()
	runCfg.StopWhenSettled = settle

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %d-node chain for %d frames...\n", cfg.Chain.Nodes, runCfg.Frames)
	start := time.Now()
	result, err := s.Run(ctx, runCfg)
	if err != nil && result == nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("frames: %d\n", result.FramesTaken)
	if result.Settled {
		fmt.Printf("settled at frame %d\n", result.SettledAt)
	}
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nMETRIC\tVALUE")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Fprintf(w, "%s\t%.6f\n", name, result.Metrics[name])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(presetName(), runCfg, result)
		if err != nil {
			return err
		}
		logger.Info("run stored", "id", runID, "dir", dataDir)
		fmt.Printf("run id: %s\n", runID)
	}
	return err
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tNODES\tFRAMES\tDT\tSETTLED")

	for _, run := range runs {
		settled := "-"
		if run.Settled {
			settled = strconv.Itoa(run.SettledAt)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d/%d\t%.1fms\t%s\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Nodes,
			run.FramesTaken,
			run.Frames,
			run.Dt,
			settled,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []dynamo.State, []float64, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	states, times, err := st.LoadStates(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(states) == 0 {
		return nil, nil, nil, fmt.Errorf("run %s has no recorded frames", runID)
	}
	return meta, states, times, nil
}

func resolveNode(states []dynamo.State, node int) (int, error) {
	n := states[0].Nodes()
	if node < 0 {
		node = n - 1
	}
	if node >= n {
		return 0, fmt.Errorf("node %d of %d: %w", node, n, dynamo.ErrIndexOutOfRange)
	}
	return node, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, states, _, err := loadRun(args[0])
	if err != nil {
		return err
	}
	node, err := resolveNode(states, plotNode)
	if err != nil {
		return err
	}

	ys := make([]float64, 0, len(states))
	speeds := make([]float64, 0, len(states))
	for _, x := range states {
		if node >= x.Nodes() {
			continue
		}
		ys = append(ys, x.Position(node).Y)
		speeds = append(speeds, x.Velocity(node).Len())
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", len(ys))

	for _, series := range []struct {
		data    []float64
		caption string
	}{
		{ys, fmt.Sprintf("node %d height (y)", node)},
		{speeds, fmt.Sprintf("node %d speed", node)},
	} {
		fmt.Println(asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		))
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, states, _, err := loadRun(args[0])
	if err != nil {
		return err
	}

	out := os.Stdout
	if svgOut != "" {
		f, err := os.Create(svgOut)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if svgTrail {
		points := make([]dynamo.Vec, 0, len(states))
		for _, x := range states {
			if n := x.Nodes(); n > 0 {
				points = append(points, x.Position(n-1))
			}
		}
		_, err := fmt.Fprint(out, export.TrajectoryToSVG(points, svgWidth, svgHeight, "#00ffff"))
		return err
	}

	idx := svgFrame
	if idx < 0 {
		idx = len(states) - 1
	}
	if idx >= len(states) {
		return fmt.Errorf("frame %d of %d: %w", idx, len(states), dynamo.ErrIndexOutOfRange)
	}
	x := states[idx]
	f := sim.Frame{
		Nodes:   make([]physics.Node, x.Nodes()),
		Pinned:  []int{physics.AnchorIndex},
		Dragged: -1,
		Params:  meta.Params,
	}
	for i := range f.Nodes {
		f.Nodes[i] = physics.Node{Pos: x.Position(i), Vel: x.Velocity(i)}
	}

	cfg := config.GetPreset(meta.Preset)
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	l := cfg.Layout()
	l.Count = len(f.Nodes)
	return export.WriteFrame(out, f, l, svgWidth, svgHeight)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(logLevel, logFile, false)
	if err != nil {
		return err
	}
	defer closeLog()

	base, err := params.NewStore(cfg.SimParams())
	if err != nil {
		return err
	}
	var variants []sim.Variant
	for _, raw := range strings.Split(sweepValues, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return fmt.Errorf("sweep value %q: %w", raw, err)
		}
		st, _ := params.NewStore(base.Snapshot())
		if err := st.SetParam(sweepParam, v); err != nil {
			return err
		}
		variants = append(variants, sim.Variant{Name: fmt.Sprintf("%s=%g", sweepParam, v), Params: st.Snapshot()})
	}

	runCfg := cfg.RunConfig()
	runCfg.RecordEvery = 0

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sweep := sim.NewSweep(cfg.Layout(), variants,
		sim.WithLogger(logger),
		sim.WithIntegrator(cfg.NewIntegrator()),
		sim.WithInteraction(cfg.InteractOptions()),
	).WithMetrics(metrics.Defaults)

	start := time.Now()
	results, err := sweep.Run(ctx, runCfg)
	if err != nil {
		return err
	}
	logger.Info("sweep done", "variants", len(variants), "elapsed", time.Since(start))

	names := sortedKeys(results[0].Metrics)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "VARIANT\tFRAMES\tSETTLED\t%s\n", strings.ToUpper(strings.Join(names, "\t")))
	for i, res := range results {
		settled := "-"
		if res.Settled {
			settled = strconv.Itoa(res.SettledAt)
		}
		fmt.Fprintf(w, "%s\t%d\t%s", variants[i].Name, res.FramesTaken, settled)
		for _, n := range names {
			fmt.Fprintf(w, "\t%.4f", res.Metrics[n])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, states, times, err := loadRun(args[0])
	if err != nil {
		return err
	}
	node, err := resolveNode(states, plotNode)
	if err != nil {
		return err
	}

	sampleMs := analysis.SampleInterval(times)
	bins, err := analysis.Spectrum(analysis.Heights(states, node), sampleMs)
	if err != nil {
		return err
	}
	peak, err := analysis.DominantFrequency(analysis.Heights(states, node), sampleMs)
	if err != nil {
		return err
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("node: %d\n", node)
	fmt.Printf("sample interval: %.2fms\n", sampleMs)
	fmt.Printf("dominant frequency: %.3f Hz (period %.0fms, amplitude %.3f)\n\n", peak.Freq, 1000/peak.Freq, peak.Power)

	fmt.Println(asciigraph.Plot(analysis.Powers(bins[1:]),
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("amplitude spectrum, 0 to %.1f Hz", bins[len(bins)-1].Freq)),
	))
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, states, _, err := loadRun(args[0])
	if err != nil {
		return err
	}
	node, err := resolveNode(states, phaseNode)
	if err != nil {
		return err
	}
	portrait, err := analysis.NewPhasePortrait(states, node, phaseAxis)
	if err != nil {
		return err
	}

	fmt.Printf("phase portrait: %s\n", meta.ID)
	fmt.Printf("node %d: %s (horizontal) vs v%s (vertical), %d points\n\n", node, phaseAxis, phaseAxis, len(portrait.Points))
	fmt.Print(portrait.ASCII(80, 24))
	return nil
}

func parseGrid(entries []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(entries))
	ranges := make([][]float64, 0, len(entries))
	for _, e := range entries {
		name, list, ok := strings.Cut(e, "=")
		if !ok {
			return nil, nil, fmt.Errorf("grid entry %q: expected name=v1,v2", e)
		}
		var values []float64
		for _, raw := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("grid entry %q: %w", e, err)
			}
			values = append(values, v)
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(logLevel, logFile, false)
	if err != nil {
		return err
	}
	defer closeLog()

	names, ranges, err := parseGrid(tuneParams)
	if err != nil {
		return err
	}
	g, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}
	g.WithMetrics(metrics.Defaults)

	runCfg := cfg.RunConfig()
	if !cmd.Flags().Changed("frames") && configFile == "" {
		runCfg.Frames = tuneFrames
	}
	runCfg.RecordEvery = 0
	runCfg.StopWhenSettled = tuneMetric == optim.SettleFrame

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	best, all, err := g.Search(ctx, cfg.Layout(), cfg.SimParams(), runCfg, tuneMetric,
		sim.WithLogger(logger),
		sim.WithIntegrator(cfg.NewIntegrator()),
		sim.WithInteraction(cfg.InteractOptions()),
	)
	if err != nil {
		return err
	}
	logger.Info("tune done", "candidates", len(all), "elapsed", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(tuneMetric))
	for _, c := range all {
		for _, n := range names {
			fmt.Fprintf(w, "%g\t", c.Point[n])
		}
		fmt.Fprintf(w, "%.4f\n", c.Score)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Print("\nbest:")
	for _, n := range names {
		fmt.Printf(" %s=%g", n, best.Point[n])
	}
	fmt.Printf(" (%s %.4f)\n", tuneMetric, best.Score)
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(logLevel, logFile, false)
	if err != nil {
		return err
	}
	defer closeLog()

	s, err := cfg.NewSimulator(sim.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}
	report, runErr := automation.Run(ctx, s, sc, logger)
	if report == nil {
		return runErr
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nFRAME\tSTEP\tRESULT\tNODE")
	for _, o := range report.Outcomes {
		result := o.Result.String()
		if o.Err != nil {
			result = "error: " + o.Err.Error()
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", o.Frame, o.Action, result, o.Node)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("frames: %d\n", report.Result.FramesTaken)

	if scriptSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save("script-"+sc.Name, sim.Config{Frames: sc.Frames, Dt: sc.Dt}, report.Result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	return runErr
}
