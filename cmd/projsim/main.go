package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/projsim/internal/ballistics"
	"github.com/san-kum/projsim/internal/config"
	"github.com/san-kum/projsim/internal/export"
	"github.com/san-kum/projsim/internal/observability"
	"github.com/san-kum/projsim/internal/sim"
	"github.com/san-kum/projsim/internal/solver"
	"github.com/san-kum/projsim/internal/storage"
	"github.com/san-kum/projsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	// scenario overrides
	startX  float64
	startY  float64
	targetX float64
	targetY float64
	speed   float64
	angle   float64
	dt      float64
	// solver knobs
	vStep     float64
	precision float64
	// fire options
	save     bool
	noPlot   bool
	plotSize int
	svgWidth int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "projsim",
		Short:         "drag-free projectile simulator and aiming solver",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".projsim", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset scenario")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.Float64Var(&startX, "start-x", 0, "start x (m)")
	pf.Float64Var(&startY, "start-y", config.DefaultStartY, "start y (m)")
	pf.Float64Var(&targetX, "target-x", config.DefaultTargetX, "target x (m)")
	pf.Float64Var(&targetY, "target-y", 0, "target y (m)")
	pf.Float64Var(&speed, "speed", config.DefaultSpeed, "launch speed (m/s)")
	pf.Float64Var(&angle, "angle", config.DefaultAngle, "launch angle (degrees)")
	pf.Float64Var(&dt, "dt", config.DefaultDt, "simulation time step (s)")

	fireCmd := &cobra.Command{
		Use:   "fire",
		Short: "simulate one launch",
		Args:  cobra.NoArgs,
		RunE:  fire,
	}
	fireCmd.Flags().BoolVar(&save, "save", false, "store the trajectory")
	fireCmd.Flags().BoolVar(&noPlot, "no-plot", false, "skip trajectory plots")
	fireCmd.Flags().IntVar(&plotSize, "width", 60, "plot width")

	rangeCmd := &cobra.Command{
		Use:   "range",
		Short: "maximum range and launch angle for the scenario speed",
		Args:  cobra.NoArgs,
		RunE:  maxRange,
	}

	speedCmd := &cobra.Command{
		Use:   "speed",
		Short: "speed that lands on the target at the scenario angle",
		Args:  cobra.NoArgs,
		RunE:  requiredSpeed,
	}
	speedCmd.Flags().Float64Var(&vStep, "vstep", config.DefaultSpeedStep, "speed search increment (m/s)")

	directionCmd := &cobra.Command{
		Use:   "direction",
		Short: "angle that lands on the target at the scenario speed",
		Args:  cobra.NoArgs,
		RunE:  requiredDirection,
	}
	directionCmd.Flags().Float64Var(&precision, "precision", config.DefaultPrecision, "bisection stop threshold (m)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a stored trajectory as CSV to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write a stored run as JSON to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id] [file]",
		Short: "render a stored trajectory as SVG",
		Args:  cobra.ExactArgs(2),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width (px)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available scenario presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSTART\tTARGET\tSPEED\tANGLE")
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Fprintf(w, "%s\t(%g, %g)\t(%g, %g)\t%g\t%g\n", name, p.StartX, p.StartY, p.TargetX, p.TargetY, p.Speed, p.AngleDeg)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(fireCmd, rangeCmd, speedCmd, directionCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

// env bundles what every scenario command needs.
type env struct {
	cfg    *config.Config
	name   string
	state  *ballistics.State
	solver *solver.Solver
	logger *zap.Logger
}

// loadEnv resolves defaults, then preset, then config file, then explicitly
// set flags.
func loadEnv(cmd *cobra.Command) (*env, error) {
	cfg := config.DefaultConfig()
	name := "custom"

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
		name = preset
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fileCfg
	}

	flags := cmd.Flags()
	overrides := []struct {
		flag string
		dst  *float64
		val  float64
	}{
		{"start-x", &cfg.Scenario.StartX, startX},
		{"start-y", &cfg.Scenario.StartY, startY},
		{"target-x", &cfg.Scenario.TargetX, targetX},
		{"target-y", &cfg.Scenario.TargetY, targetY},
		{"speed", &cfg.Scenario.Speed, speed},
		{"angle", &cfg.Scenario.AngleDeg, angle},
		{"dt", &cfg.Solver.Dt, dt},
		{"vstep", &cfg.Solver.SpeedStep, vStep},
		{"precision", &cfg.Solver.Precision, precision},
	}
	for _, o := range overrides {
		if f := flags.Lookup(o.flag); f != nil && f.Changed {
			*o.dst = o.val
		}
	}
	if logLevel != "" {
		cfg.Logger.Level = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := observability.NewStderr(cfg.Logger)
	if err != nil {
		return nil, err
	}

	st, err := cfg.State()
	if err != nil {
		return nil, err
	}

	logger.Debug("scenario loaded",
		zap.String("name", name),
		zap.Stringer("state", st),
		zap.Float64("dt", cfg.Solver.Dt),
	)

	return &env{
		cfg:    cfg,
		name:   name,
		state:  st,
		solver: solver.New(cfg.SolverConfig(), logger),
		logger: logger,
	}, nil
}

func (e *env) simConfig() sim.Config {
	c := e.solver.Config()
	return sim.Config{Dt: c.Dt, MaxSteps: c.MaxSteps}
}

const (
	minPlotWidth = 8
	minSVGWidth  = 2
)

// checkWidth rejects a --width below least.
func checkWidth(width, least int) error {
	if width < least {
		return fmt.Errorf("%w: --width must be at least %d, got %d", ballistics.ErrInvalidParameter, least, width)
	}
	return nil
}

func fire(cmd *cobra.Command, args []string) error {
	if !noPlot {
		if err := checkWidth(plotSize, minPlotWidth); err != nil {
			return err
		}
	}

	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	result, err := sim.Run(*e.state, e.simConfig())
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	metrics := []viz.Metric{
		viz.Metricf("speed", "%.3f m/s", e.state.Speed),
		viz.Metricf("angle", "%.3f°", ballistics.RadToDeg(e.state.Direction)),
		viz.Metricf("landing", "(%.3f, %.3f) m", result.Landing.Pos.X, result.Landing.Pos.Y),
		viz.Metricf("flight time", "%.4f s", result.FlightTime),
		viz.Metricf("miss", "%.3f m", result.Landing.Pos.X-e.state.Target.X),
		viz.Metricf("samples", "%d", len(result.Samples)),
	}

	var maxDistance float64
	r, err := e.solver.MaxRange(*e.state)
	switch {
	case errors.Is(err, ballistics.ErrInfeasible):
		metrics = append(metrics, viz.Metric{Label: "max range", Value: "target height unreachable", Warn: true})
	case err != nil:
		return err
	default:
		maxDistance = r.Distance
		metrics = append(metrics,
			viz.Metricf("max range", "%.3f m at %.2f°", r.Distance, ballistics.RadToDeg(r.Angle)),
			atMaxRangeMetric(e.state.Target.X >= r.Distance),
		)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, viz.Report(e.name, metrics))

	if !noPlot {
		fmt.Fprintln(out)
		fmt.Fprint(out, viz.PathPlot(result.Samples, e.state.Target, plotSize, plotSize/4))
		fmt.Fprintln(out, viz.Separator(plotSize))
		fmt.Fprintln(out, viz.HeightPlot(result.Samples, plotSize, 10, "height (m) over flight"))
	}

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(e.name, *e.state, e.cfg.Solver.Dt, result, maxDistance)
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		e.logger.Info("run saved", zap.String("id", runID), zap.String("dir", st.Path(runID)))
		fmt.Fprintf(out, "\nsaved: %s\n", runID)
	}

	return nil
}

func atMaxRangeMetric(at bool) viz.Metric {
	if at {
		return viz.Metric{Label: "target", Value: "at or beyond max range", Warn: true}
	}
	return viz.Metric{Label: "target", Value: "within range"}
}

func maxRange(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	r, err := e.solver.MaxRange(*e.state)
	if err != nil {
		return err
	}
	at, err := e.solver.IsAtMaxRange(*e.state, e.state.Target.X)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), viz.Report(e.name, []viz.Metric{
		viz.Metricf("speed", "%.3f m/s", e.state.Speed),
		viz.Metricf("max range", "%.4f m", r.Distance),
		viz.Metricf("launch angle", "%.4f°", ballistics.RadToDeg(r.Angle)),
		atMaxRangeMetric(at),
	}))
	return nil
}

func requiredSpeed(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	v, err := e.solver.RequiredSpeed(cmd.Context(), e.state)
	if err != nil {
		return fmt.Errorf("speed search failed: %w", err)
	}

	end, err := sim.EndingPosition(*e.state, e.simConfig())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), viz.Report(e.name, []viz.Metric{
		viz.Metricf("angle", "%.3f°", ballistics.RadToDeg(e.state.Direction)),
		viz.Metricf("required speed", "%.4f m/s", v),
		viz.Metricf("landing", "(%.3f, %.3f) m", end.X, end.Y),
	}))
	return nil
}

func requiredDirection(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	d, err := e.solver.RequiredDirection(cmd.Context(), e.state)
	if errors.Is(err, ballistics.ErrInfeasible) {
		fmt.Fprintln(cmd.OutOrStdout(), viz.Report(e.name, []viz.Metric{
			viz.Metricf("speed", "%.3f m/s", e.state.Speed),
			{Label: "direction", Value: "target out of range", Warn: true},
		}))
		return nil
	}
	if err != nil {
		return fmt.Errorf("direction search failed: %w", err)
	}

	end, err := sim.EndingPosition(*e.state, e.simConfig())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), viz.Report(e.name, []viz.Metric{
		viz.Metricf("speed", "%.3f m/s", e.state.Speed),
		viz.Metricf("required angle", "%.4f°", ballistics.RadToDeg(d)),
		viz.Metricf("landing", "(%.3f, %.3f) m", end.X, end.Y),
	}))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tLANDING X\tFLIGHT TIME")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.3f\t%.4f\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Landing.X,
			run.FlightTime,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	tr, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	if len(tr) == 0 {
		return fmt.Errorf("no data to plot")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\nscenario: %s\nsamples: %d\n\n", meta.ID, meta.Scenario, len(tr))
	fmt.Fprint(out, viz.PathPlot(tr, meta.State.Target, 60, 15))
	fmt.Fprintln(out, viz.Separator(60))
	fmt.Fprintln(out, viz.HeightPlot(tr, 60, 10, "height (m) over flight"))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	tr, err := storage.New(dataDir).LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(cmd.OutOrStdout(), tr)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	tr, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	return storage.WriteJSON(cmd.OutOrStdout(), *meta, tr)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	if err := checkWidth(svgWidth, minSVGWidth); err != nil {
		return err
	}

	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	tr, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	svg := export.TrajectoryToSVG(tr, meta.State.Target, svgWidth, svgWidth/2, "#00ff88")
	if svg == "" {
		return fmt.Errorf("run %s has too few samples to draw", args[0])
	}
	if err := os.WriteFile(args[1], []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[1])
	return nil
}
