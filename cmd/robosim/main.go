package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/san-kum/robosim/internal/config"
	"github.com/san-kum/robosim/internal/dynamo"
	"github.com/san-kum/robosim/internal/log"
	"github.com/san-kum/robosim/internal/metrics"
	"github.com/san-kum/robosim/internal/models"
	"github.com/san-kum/robosim/internal/playground"
	"github.com/san-kum/robosim/internal/store"
)

var (
	dataDir    string
	runID      string
	configFile string
	preset     string
	ticks      int
	logLevel   string
	logFormat  string
	plotWidth  int
	plotHeight int
)

var (
	title = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	label = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	good  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	bad   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

var stateLabels = []string{"x", "y", "theta"}

func main() {
	rootCmd := &cobra.Command{
		Use:          "robosim",
		Short:        "kinematic simulation of wheeled robots on a grid map",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".robosim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "built-in scenario")
	rootCmd.PersistentFlags().IntVar(&ticks, "ticks", 0, "number of ticks (overrides the scenario)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides the scenario)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console or json")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scenario and print per-robot metrics",
		Args:  cobra.NoArgs,
		RunE:  runScenario,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [uid...]",
		Short: "plot robot trajectories of a saved run, or of a fresh one",
		RunE:  plotScenario,
	}
	plotCmd.Flags().StringVar(&runID, "run", "", "saved run id (default: run the scenario)")
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 10, "plot height")

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list kinematic models and their default parameters",
		Args:  cobra.NoArgs,
		RunE:  listModels,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Printf("  %-20s %d robots, %d ticks\n", name, len(cfg.Robots), cfg.Ticks)
			}
			return nil
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "check a scenario without running it",
		Args:  cobra.NoArgs,
		RunE:  validateScenario,
	}

	exportCmd := &cobra.Command{
		Use:   "export [preset] [path]",
		Short: "write a built-in scenario to a yaml file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetPreset(args[0])
			if cfg == nil {
				return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
			}
			if err := config.Save(args[1], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[1])
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, modelsCmd, presetsCmd, validateCmd, exportCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadScenario resolves --config or --preset and applies the command line
// overrides.
func loadScenario() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "" && preset != "":
		return nil, errors.New("--config and --preset are mutually exclusive")
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load config")
		}
		cfg = c
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	default:
		return nil, errors.New("either --config or --preset is required")
	}

	if ticks > 0 {
		cfg.Ticks = ticks
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	return cfg, nil
}

type session struct {
	cfg     *config.Config
	pg      *playground.Playground
	trace   *metrics.Trace
	metrics []metrics.Metric
	elapsed time.Duration
}

// simulate builds the scenario with every metric attached and runs it
// until the configured tick count or an interrupt.
func simulate(cmd *cobra.Command) (*session, error) {
	cfg, err := loadScenario()
	if err != nil {
		return nil, err
	}
	logger, err := log.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	defer func() { _ = logger.Sync() }()

	pg, err := cfg.Build(logger)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, pg: pg, trace: metrics.NewTrace()}
	s.metrics = []metrics.Metric{
		metrics.NewPathLength(),
		metrics.NewControlEffort(),
		metrics.NewInBounds(pg.State().Map()),
	}
	pg.AddObserver(s.trace)
	for _, m := range s.metrics {
		pg.AddObserver(m)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	start := time.Now()
	err = pg.Run(ctx, cfg.Ticks)
	s.elapsed = time.Since(start)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, bad.Render(fmt.Sprintf("interrupted after %d ticks", pg.Ticks())))
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s, err := simulate(cmd)
	if err != nil {
		return err
	}

	fmt.Println(title.Render(s.pg.Name()))
	fmt.Printf("%s %s\n", label.Render("run:     "), s.pg.ID())
	fmt.Printf("%s %d (t=%.3fs, dt=%g)\n", label.Render("ticks:   "), s.pg.Ticks(), s.pg.Time(), s.pg.Dt())
	fmt.Printf("%s %.2fms\n\n", label.Render("elapsed: "), float64(s.elapsed.Microseconds())/1000)

	modelKeys := make(map[int]string, len(s.cfg.Robots))
	for _, rc := range s.cfg.Robots {
		modelKeys[rc.UID] = rc.Model
	}

	meta := store.RunMetadata{
		ID:       s.pg.ID().String(),
		Scenario: s.pg.Name(),
		Dt:       s.pg.Dt(),
		Ticks:    s.pg.Ticks(),
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := []string{"UID", "MODEL", "INTEGRATOR", "POSE"}
	for _, m := range s.metrics {
		header = append(header, strings.ToUpper(m.Name()))
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, uid := range s.pg.UIDs() {
		state, err := s.pg.State().RobotState(uid)
		if err != nil {
			return err
		}
		integ, err := s.pg.Integrator(uid)
		if err != nil {
			return err
		}
		rm := store.RobotMeta{
			UID:        uid,
			Model:      modelKeys[uid],
			Integrator: integ.Kind().String(),
			Metrics:    make(map[string]float64, len(s.metrics)),
		}
		row := []string{fmt.Sprint(uid), rm.Model, rm.Integrator, formatPose(state)}
		for _, m := range s.metrics {
			rm.Metrics[m.Name()] = m.Value(uid)
			row = append(row, fmt.Sprintf("%.3f", m.Value(uid)))
		}
		meta.Robots = append(meta.Robots, rm)
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	uids := s.pg.UIDs()
	for _, m := range s.metrics {
		sum, err := metrics.Summarize(m, uids)
		if err != nil {
			return err
		}
		fmt.Printf("%s mean=%.3f min=%.3f max=%.3f sd=%.3f\n",
			label.Render(fmt.Sprintf("%-15s", sum.Name)), sum.Mean, sum.Min, sum.Max, sum.StdDev)
	}

	if err := st.Save(meta, s.trace); err != nil {
		return errors.Wrap(err, "failed to save run")
	}
	fmt.Printf("\nsaved: %s\n", meta.ID)
	return nil
}

func formatPose(st dynamo.State) string {
	p, err := st.Pose()
	if err != nil {
		return "-"
	}
	parts := make([]string, p.Size())
	for i, v := range p {
		parts[i] = fmt.Sprintf("%.3f", v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := store.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tROBOTS\tTICKS\tTIME")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			r.ID, r.Scenario, len(r.Robots), r.Ticks, r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

// seriesFunc returns flattened state element i of robot uid over time.
type seriesFunc func(uid, i int) ([]float64, error)

func plotScenario(cmd *cobra.Command, args []string) error {
	var (
		uids   []int
		series seriesFunc
	)

	if runID != "" {
		st := store.New(dataDir)
		meta, err := st.Load(runID)
		if err != nil {
			return err
		}
		for _, r := range meta.Robots {
			uids = append(uids, r.UID)
		}
		series = func(uid, i int) ([]float64, error) {
			traj, err := st.LoadTrajectory(runID, uid)
			if err != nil {
				return nil, err
			}
			return traj.Series(i), nil
		}
		fmt.Printf("run: %s\n", meta.ID)
		fmt.Printf("scenario: %s\n\n", meta.Scenario)
	} else {
		s, err := simulate(cmd)
		if err != nil {
			return err
		}
		uids = s.trace.UIDs()
		series = func(uid, i int) ([]float64, error) {
			if len(s.trace.Samples(uid)) == 0 {
				return nil, fmt.Errorf("no samples for robot %d", uid)
			}
			return s.trace.Series(uid, i), nil
		}
	}

	if len(args) > 0 {
		uids = uids[:0]
		for _, a := range args {
			uid, err := strconv.Atoi(a)
			if err != nil {
				return fmt.Errorf("invalid uid: %s", a)
			}
			uids = append(uids, uid)
		}
	}
	sort.Ints(uids)

	for _, uid := range uids {
		fmt.Println(title.Render(fmt.Sprintf("robot %d", uid)))
		for i, name := range stateLabels {
			data, err := series(uid, i)
			if err != nil {
				return err
			}
			if len(data) == 0 {
				continue
			}
			graph := asciigraph.Plot(data,
				asciigraph.Height(plotHeight),
				asciigraph.Width(plotWidth),
				asciigraph.Caption(fmt.Sprintf("%s vs tick", name)),
			)
			fmt.Println(graph)
			fmt.Println()
		}
	}
	return nil
}

func listModels(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL\tPARAMS")
	for _, kind := range models.Kinds() {
		params, _ := models.Defaults(kind)
		names := lo.Keys(params)
		sort.Strings(names)
		parts := make([]string, len(names))
		for i, name := range names {
			parts[i] = fmt.Sprintf("%s=%g", name, params[name])
		}
		fmt.Fprintf(w, "%s\t%s\n", kind, strings.Join(parts, " "))
	}
	return w.Flush()
}

func validateScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		errs := multierr.Errors(err)
		for _, e := range errs {
			fmt.Println(bad.Render("  ✗ " + e.Error()))
		}
		return fmt.Errorf("%d problems found", len(errs))
	}
	if _, err := cfg.Build(zap.NewNop()); err != nil {
		fmt.Println(bad.Render("  ✗ " + err.Error()))
		return errors.New("scenario does not build")
	}
	fmt.Println(good.Render(fmt.Sprintf("✓ %s: %d robots on a %gx%g map", cfg.Name, len(cfg.Robots), cfg.Map.Width, cfg.Map.Height)))
	return nil
}
