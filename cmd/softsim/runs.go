package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/softsim/internal/analysis"
	"github.com/san-kum/softsim/internal/automation"
	"github.com/san-kum/softsim/internal/config"
	"github.com/san-kum/softsim/internal/experiment"
	"github.com/san-kum/softsim/internal/export"
	"github.com/san-kum/softsim/internal/logger"
	"github.com/san-kum/softsim/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, experiment.WithLogger(logger.Named("experiment")))
	if err := exp.Setup(); err != nil {
		return err
	}

	ctx, stop := interruptible()
	defer stop()
	result, runErr := exp.Run(ctx)
	if result == nil {
		return runErr
	}
	if runErr != nil {
		logger.Warn("run stopped early", zap.Int("ticks", result.Ticks), zap.Error(runErr))
	}

	fmt.Printf("body: %s  particles: %d  tets: %d\n", exp.Body().Name(), exp.Body().NumParticles(), len(exp.Body().Tets()))
	fmt.Printf("ticks: %d  samples: %d\n\n", result.Ticks, len(result.Samples))
	if err := printMetrics(result.Metrics); err != nil {
		return err
	}

	if !noSave {
		if err := saveRun(cfg, result); err != nil {
			return err
		}
	}
	return runErr
}

func saveRun(cfg *config.Config, result *experiment.Result) error {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	id, err := st.Save(cfg, result)
	if err != nil {
		return err
	}
	logger.Info("run stored", zap.String("id", id), zap.String("dir", dataDir))
	fmt.Printf("\nsaved run %s\n", id)
	return nil
}

func printMetrics(m map[string]float64) error {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%.6g\n", name, m[name])
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tBODY\tTIME\tDURATION\tDT\tSUBSTEPS\tFORMULATION\tDRIFT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%s\t%.4f\n",
			run.ID,
			run.Body,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Substeps,
			run.Formulation,
			run.Metrics["volume_drift"],
		)
	}
	return w.Flush()
}

func loadResult(runID string) (*storage.RunMetadata, *experiment.Result, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(samples) == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", runID)
	}
	return meta, &experiment.Result{Samples: samples, Metrics: meta.Metrics, Ticks: meta.Ticks}, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadResult(args[0])
	if err != nil {
		return err
	}
	fields, _ := cmd.Flags().GetStringSlice("field")
	svgPath, _ := cmd.Flags().GetString("svg")

	if svgPath != "" {
		if len(fields) == 0 {
			return fmt.Errorf("no field to plot")
		}
		ys, err := result.Series(fields[0])
		if err != nil {
			return err
		}
		ts, _ := result.Series("time")
		doc := export.SeriesToSVG(ts, ys, 800, 300, "#5fd7ff")
		if doc == "" {
			return fmt.Errorf("not enough samples to plot")
		}
		return os.WriteFile(svgPath, []byte(doc), 0644)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("body: %s\n", meta.Body)
	fmt.Printf("samples: %d\n\n", len(result.Samples))
	for _, f := range fields {
		data, err := result.Series(f)
		if err != nil {
			return err
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(f+" vs time"),
		))
		fmt.Println()
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("output")
	return storage.New(dataDir).ExportJSON(args[0], out, os.Stdout)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("output")
	return storage.New(dataDir).ExportCSV(args[0], out, os.Stdout)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadResult(args[0])
	if err != nil {
		return err
	}
	field, _ := cmd.Flags().GetString("field")
	series, err := result.Series(field)
	if err != nil {
		return err
	}

	spacing := meta.Dt
	if cfg, err := storage.New(dataDir).LoadConfig(meta.ID); err == nil && cfg.Run.SampleEvery > 1 {
		spacing *= float64(cfg.Run.SampleEvery)
	}

	s := analysis.Summarize(series, spacing)
	fmt.Printf("analysis: %s (%s)\n\n", meta.ID, field)

	if ps := analysis.PowerSpectrum(series); len(ps) > 2 {
		plot := ps[1:]
		if len(plot) > 80 {
			plot = plot[:80]
		}
		fmt.Println(asciigraph.Plot(plot,
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum ("+field+")"),
		))
		fmt.Println()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "min\t%.6g\n", s.Min)
	fmt.Fprintf(w, "max\t%.6g\n", s.Max)
	fmt.Fprintf(w, "mean\t%.6g\n", s.Mean)
	fmt.Fprintf(w, "std\t%.6g\n", s.Std)
	fmt.Fprintf(w, "settling\t%.3fs\n", s.Settling)
	if s.Frequency > 0 {
		fmt.Fprintf(w, "dominant frequency\t%.3f hz\n", s.Frequency)
		fmt.Fprintf(w, "period\t%.3fs\n", 1/s.Frequency)
	} else {
		fmt.Fprintln(w, "dominant frequency\tnone")
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tMESH\tRES\tEDGE\tVOLUME\tFORMULATION\tPINNED")
	for _, name := range config.ListPresets() {
		c := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%d\t%g\t%g\t%s\t%v\n",
			name, c.Mesh.Source, c.Mesh.Resolution,
			c.Body.EdgeCompliance, c.Body.VolumeCompliance,
			c.Body.Formulation, c.Body.PinBase)
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	ctx, stop := interruptible()
	defer stop()

	result, runErr := automation.RunScenario(ctx, sc, logger.Named("scenario"))
	if result == nil {
		return runErr
	}
	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}
	fmt.Printf("events: %d  ticks: %d\n\n", len(sc.Events), result.Ticks)
	if err := printMetrics(result.Metrics); err != nil {
		return err
	}

	if !noSave {
		cfg, err := sc.BuildConfig()
		if err != nil {
			return err
		}
		if err := saveRun(cfg, result); err != nil {
			return err
		}
	}
	return runErr
}
