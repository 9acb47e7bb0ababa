package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/softsim/internal/config"
	"github.com/san-kum/softsim/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	logFile    string

	dt        float64
	duration  float64
	substeps  int
	overrides []string
	noSave    bool
)

// main wires the softsim commands and exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "softsim",
		Short:         "tetrahedral soft body lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "live" {
				return nil
			}
			return logger.Init(logSettings(cmd))
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".softsim", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "start from a preset (see 'presets')")
	pf.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	pf.StringVar(&logFile, "log-file", "", "also log JSON to a rotated file")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store its samples",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run samples",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSlice("field", []string{"volume", "energy", "strain", "height"}, "series to plot")
	plotCmd.Flags().String("svg", "", "write the first series as SVG instead")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and samples as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringP("output", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringP("output", "o", "", "output file (default stdout)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "summarize a run and find its wobble frequency",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().String("field", "height", "series to analyze")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time the solver across resolutions and formulations",
		Args:  cobra.NoArgs,
		RunE:  benchSolver,
	}
	benchCmd.Flags().IntSlice("res", []int{3, 4, 6}, "mesh resolutions")
	benchCmd.Flags().Float64("seconds", 1, "simulated seconds per case")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "open the interactive terminal viewer",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().String("theme", "jelly", "viewer theme")
	liveCmd.Flags().String("gif", "softsim.gif", "recording path")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "replay a scripted grab scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "simulate and write the body as SVG",
		Args:  cobra.NoArgs,
		RunE:  snapshot,
	}
	addRunFlags(snapshotCmd)
	snapshotCmd.Flags().StringP("output", "o", "snapshot.svg", "output file")
	snapshotCmd.Flags().Bool("braille", false, "render through the braille canvas")
	snapshotCmd.Flags().Int("width", 640, "image width")
	snapshotCmd.Flags().Int("height", 480, "image height")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search body parameters against a metric",
		Args:  cobra.NoArgs,
		RunE:  tune,
	}
	addRunFlags(tuneCmd)
	tuneCmd.Flags().StringArray("param", nil, "name=v1,v2,... (repeatable)")
	tuneCmd.Flags().String("metric", "volume_drift", "metric to minimize")

	sweepCmd := &cobra.Command{
		Use:   "sweep [param]",
		Short: "run one parameter across a range in parallel",
		Args:  cobra.ExactArgs(1),
		RunE:  sweep,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().Float64("min", 0, "first value")
	sweepCmd.Flags().Float64("max", 100, "last value")
	sweepCmd.Flags().Int("steps", 5, "number of values")
	sweepCmd.Flags().Int("workers", 0, "parallel runs (0 = GOMAXPROCS)")

	meshCmd := &cobra.Command{
		Use:   "mesh",
		Short: "generate box mesh JSON files",
		Args:  cobra.NoArgs,
		RunE:  generateMesh,
	}
	meshCmd.Flags().Int("res", 4, "vertices per axis")
	meshCmd.Flags().Float64Slice("size", []float64{1, 1, 1}, "width,height,depth")
	meshCmd.Flags().Int("display-res", 0, "also write a display surface with this resolution")
	meshCmd.Flags().StringP("output", "o", "box.tet.json", "tet mesh file")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportJSONCmd, exportCSVCmd, analyzeCmd,
		benchCmd, presetsCmd, liveCmd, scenarioCmd, snapshotCmd, tuneCmd, sweepCmd, meshCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", 0, "timestep (default from config)")
	cmd.Flags().Float64Var(&duration, "duration", 0, "simulated seconds (default from config)")
	cmd.Flags().IntVar(&substeps, "substeps", 0, "solver substeps (default from config)")
	cmd.Flags().StringArrayVar(&overrides, "set", nil, "param=value override (repeatable)")
}

// loadConfig resolves --config, then --preset, then the defaults, and
// applies the run flags on top.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = c
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (have %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
	default:
		cfg = config.DefaultConfig()
	}

	if dt > 0 {
		cfg.Run.Dt = dt
	}
	if duration > 0 {
		cfg.Run.Duration = duration
	}
	if substeps > 0 {
		cfg.World.Substeps = substeps
	}
	for _, o := range overrides {
		name, value, ok := strings.Cut(o, "=")
		if !ok {
			return nil, fmt.Errorf("bad override %q, want name=value", o)
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("override %s: %w", name, err)
		}
		if err := cfg.Set(name, v); err != nil {
			return nil, err
		}
	}
	logger.Debug("config resolved",
		zap.String("body", cfg.Body.Name),
		zap.String("mesh", cfg.Mesh.Source),
		zap.Float64("dt", cfg.Run.Dt),
		zap.Int("substeps", cfg.World.Substeps))
	return cfg, cfg.Validate()
}

// logSettings fills log flags that were not given from the logging section
// of --config.
func logSettings(cmd *cobra.Command) (string, string) {
	level, file := logLevel, logFile
	if configFile == "" {
		return level, file
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return level, file
	}
	if !cmd.Flags().Changed("log-level") && cfg.Logging.Level != "" {
		level = cfg.Logging.Level
	}
	if !cmd.Flags().Changed("log-file") && cfg.Logging.File != "" {
		file = cfg.Logging.File
	}
	return level, file
}
