package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/ballpit/internal/config"
	"github.com/san-kum/ballpit/internal/gui"
	"github.com/san-kum/ballpit/internal/logging"
	"github.com/san-kum/ballpit/internal/viz"
	"github.com/spf13/cobra"
)

var (
	configFile string
	preset     string
	seed       int64
	numBodies  int
	frameRate  int
	theme      string
	sound      bool
	logLevel   string
	logFile    string

	steps      int
	writeCSV   bool
	writeJSON  bool
	dragBody   int
	dragStart  int
	dragTicks  int
	dragTarget string
	svgFile    string
	trailFile  string
	svgScale   float64

	numRuns int
	workers int

	sweepParams []string
	sweepMetric string
	maximize    bool
)

// main registers the commands and flags and runs the terminal arena when
// no subcommand is given. It exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "ballpit",
		Short:         "bouncing bodies you can grab and throw",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return interactive(cmd, viz.Run)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "start from a preset configuration")
	pf.Int64Var(&seed, "seed", 0, "random seed for the initial layout")
	pf.IntVar(&numBodies, "bodies", 0, "number of bodies (overrides config)")
	pf.IntVar(&frameRate, "fps", 0, "frame rate (overrides config)")
	pf.StringVar(&theme, "theme", "", "terminal color theme")
	pf.BoolVar(&sound, "sound", false, "play the arena through the default audio device (gui)")
	pf.StringVar(&logLevel, "log-level", "", "DEBUG, INFO, WARN or ERROR (default $"+logging.LevelEnv+" or INFO)")
	pf.StringVar(&logFile, "log-file", "", "write JSON logs to this file, - for stderr")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the arena in a window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return interactive(cmd, gui.Run)
		},
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "step the arena headless and report metrics",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&steps, "steps", 600, "ticks to simulate")
	runCmd.Flags().BoolVar(&writeCSV, "csv", false, "write every body at every tick as CSV to stdout")
	runCmd.Flags().BoolVar(&writeJSON, "json", false, "write a JSON report to stdout")
	runCmd.MarkFlagsMutuallyExclusive("csv", "json")
	runCmd.Flags().IntVar(&dragBody, "drag-body", -1, "grab this body during the run (-1 disables)")
	runCmd.Flags().IntVar(&dragStart, "drag-start", 0, "tick at which the grab starts")
	runCmd.Flags().IntVar(&dragTicks, "drag-ticks", 120, "ticks the body is held")
	runCmd.Flags().StringVar(&dragTarget, "drag-to", "125,125", "arena point the pointer drags toward, as x,y")
	runCmd.Flags().StringVar(&svgFile, "svg", "", "write the final arena to this SVG file")
	runCmd.Flags().StringVar(&trailFile, "trail-svg", "", "write every body's path to this SVG file")
	runCmd.Flags().Float64Var(&svgScale, "svg-scale", 2, "SVG pixels per arena unit")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run the same configuration over a range of seeds",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	ensembleCmd.Flags().IntVar(&steps, "steps", 600, "ticks per run")
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 8, "number of seeds")
	ensembleCmd.Flags().IntVar(&workers, "workers", 0, "runs in flight (0 = all)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario of scripted drags",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search physics parameters against a metric",
		Example: `  ballpit sweep --param gravity=0:0.5:0.1 --param damping=0.95,0.99 --metric contacts
  ballpit sweep --param bodies=4:32:4 --metric kinetic_energy --max`,
		Args: cobra.NoArgs,
		RunE: runSweep,
	}
	sweepCmd.Flags().IntVar(&steps, "steps", 600, "ticks per point")
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "name=lo:hi:step or name=a,b,c (repeatable)")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "contacts", "metric to optimize")
	sweepCmd.Flags().BoolVar(&maximize, "max", false, "maximize the metric instead of minimizing it")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "presets:")
			for _, p := range config.ListPresets() {
				fmt.Fprintf(out, "  %s\n", p)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage configuration files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the effective configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return logging.WrapError(err, "write %s", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(guiCmd, runCmd, ensembleCmd, scenarioCmd, sweepCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ballpit:", err)
		os.Exit(1)
	}
}

// loadConfig layers the preset, the config file and the flags, in that
// order, and validates the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("%w: %s (available: %v)", config.ErrUnknownPreset, preset, config.ListPresets())
		}
	}
	if configFile != "" {
		var err error
		if cfg, err = config.LoadOver(configFile, cfg); err != nil {
			return nil, logging.WrapError(err, "load config")
		}
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("bodies") {
		cfg.Bodies.Count = numBodies
	}
	if flags.Changed("fps") {
		cfg.FPS = frameRate
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("sound") {
		cfg.Sound = sound
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup loads the configuration, opens the logger and returns a context
// cancelled on interrupt. defaultLog is used when --log-file is not set.
func setup(cmd *cobra.Command, defaultLog string) (context.Context, *config.Config, *logging.Logger, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	path := logFile
	if !cmd.Flags().Changed("log-file") {
		path = defaultLog
	}
	log, closer, err := logging.Open(path, logLevel)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	ctx = logging.WithSession(ctx, "")
	log.Info(ctx, "starting",
		"command", cmd.Name(),
		"bodies", cfg.Bodies.Count,
		"seed", cfg.Seed,
		"arena", fmt.Sprintf("%gx%g", cfg.Arena.Width, cfg.Arena.Height),
	)

	return ctx, cfg, log, func() {
		stop()
		closeQuietly(closer)
	}, nil
}

func closeQuietly(c io.Closer) {
	if c != nil {
		c.Close()
	}
}

// interactive runs a host that owns the terminal or a window, so logs go
// nowhere unless --log-file is given.
func interactive(cmd *cobra.Command, host func(context.Context, config.Config, *logging.Logger) error) error {
	ctx, cfg, log, done, err := setup(cmd, "")
	if err != nil {
		return err
	}
	defer done()

	err = host(ctx, *cfg, log)
	if errors.Is(err, context.Canceled) || errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	if err != nil {
		log.Error(ctx, "host failed", err)
	}
	return err
}
