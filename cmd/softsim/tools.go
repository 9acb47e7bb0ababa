package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/san-kum/softsim/internal/automation"
	"github.com/san-kum/softsim/internal/experiment"
	"github.com/san-kum/softsim/internal/export"
	"github.com/san-kum/softsim/internal/geom"
	"github.com/san-kum/softsim/internal/logger"
	"github.com/san-kum/softsim/internal/mesh"
	"github.com/san-kum/softsim/internal/optim"
	"github.com/san-kum/softsim/internal/softbody"
	"github.com/san-kum/softsim/internal/viz"
	"github.com/spf13/cobra"
)

func benchSolver(cmd *cobra.Command, args []string) error {
	base, err := loadConfig()
	if err != nil {
		return err
	}
	resolutions, _ := cmd.Flags().GetIntSlice("res")
	seconds, _ := cmd.Flags().GetFloat64("seconds")
	base.Run.Duration = seconds

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RES\tPARTICLES\tTETS\tFORMULATION\tTICKS\tTIME\tTICKS/SEC\tDRIFT")
	for _, res := range resolutions {
		for _, f := range []softbody.Formulation{softbody.Direct, softbody.Accumulated} {
			cfg := base.Clone()
			cfg.Mesh.Resolution = res
			cfg.Body.Formulation = f.String()

			exp := experiment.New(cfg)
			if err := exp.Setup(); err != nil {
				return err
			}
			start := time.Now()
			result, err := exp.Run(context.Background())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%d\t%v\t%.0f\t%.4f\n",
				res, exp.Body().NumParticles(), len(exp.Body().Tets()), f,
				result.Ticks, elapsed.Round(time.Microsecond),
				float64(result.Ticks)/elapsed.Seconds(),
				result.Metrics["volume_drift"])
		}
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	// The viewer owns the terminal, so logs only go to the file.
	level, file := logSettings(cmd)
	if err := logger.InitWithFileConfig(level, fileConfig(file), nil); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	exp := experiment.New(cfg, experiment.WithLogger(logger.Named("experiment")))
	if err := exp.Setup(); err != nil {
		return err
	}

	theme, _ := cmd.Flags().GetString("theme")
	gif, _ := cmd.Flags().GetString("gif")
	return viz.Run(exp,
		viz.WithLogger(logger.Named("viz")),
		viz.WithTheme(theme),
		viz.WithRecordPath(gif),
	)
}

func fileConfig(path string) logger.FileConfig {
	if path == "" {
		return logger.FileConfig{}
	}
	return logger.DefaultFileConfig(path)
}

func snapshot(cmd *cobra.Command, args []string) error {
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
	if _, err := exp.Run(ctx); err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("output")
	braille, _ := cmd.Flags().GetBool("braille")
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")

	body := exp.Body()
	pos, tris := body.Display()
	if len(tris) == 0 {
		pos, tris = body.Positions(), body.SurfaceTris()
	}
	cam := viz.NewCamera(body.Centroid(), 60)
	bb := geom.Bounds(body.Positions())
	extent := max(bb.Max.Sub(bb.Min).Len(), 0.1)
	cam.ZoomBy(0.6 * float64(min(width, height)) / extent / viz.DefaultZoom)
	cam.Snap()

	if braille {
		canvas := viz.NewCanvas(width/8, height/16)
		r := viz.NewRenderer(canvas, cam)
		cam.ZoomBy(float64(canvas.Height*4) / float64(height))
		cam.Snap()
		wc := exp.World().Config()
		r.Floor(wc.Min, wc.Max)
		r.Triangles(pos, tris)
		return os.WriteFile(out, []byte(export.CanvasToSVG(canvas, 4, "#ff5fd7")), 0644)
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	n, err := export.MeshToSVG(f, pos, tris, cam, width, height, export.DefaultMeshStyle())
	if err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d faces, t=%.2fs)\n", out, n, exp.World().Time())
	return nil
}

// parseGrid reads "name=v1,v2,..." into a name and its values.
func parseGrid(s string) (string, []float64, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return "", nil, fmt.Errorf("bad param %q, want name=v1,v2,...", s)
	}
	var vals []float64
	for _, f := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return "", nil, fmt.Errorf("param %s: %w", name, err)
		}
		vals = append(vals, v)
	}
	return name, vals, nil
}

func tune(cmd *cobra.Command, args []string) error {
	base, err := loadConfig()
	if err != nil {
		return err
	}
	specs, _ := cmd.Flags().GetStringArray("param")
	metric, _ := cmd.Flags().GetString("metric")
	if len(specs) == 0 {
		specs = []string{"edge_compliance=0,10,100,1000"}
	}

	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, s := range specs {
		name, vals, err := parseGrid(s)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}

	ctx, stop := interruptible()
	defer stop()
	gs := optim.NewGridSearch(names, ranges).WithLogger(logger.Named("tune"))
	best, score, trials, err := gs.Search(ctx, base, metric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(metric))
	for _, tr := range trials {
		row := make([]string, len(names))
		for i, n := range names {
			row[i] = strconv.FormatFloat(tr.Params[n], 'g', 6, 64)
		}
		val := fmt.Sprintf("%.6g", tr.Value)
		if tr.Err != nil {
			val = "error: " + tr.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\n", strings.Join(row, "\t"), val)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest %s = %.6g with", metric, score)
	for _, n := range names {
		fmt.Printf(" %s=%g", n, best[n])
	}
	fmt.Println()
	return nil
}

func sweep(cmd *cobra.Command, args []string) error {
	base, err := loadConfig()
	if err != nil {
		return err
	}
	lo, _ := cmd.Flags().GetFloat64("min")
	hi, _ := cmd.Flags().GetFloat64("max")
	steps, _ := cmd.Flags().GetInt("steps")
	workers, _ := cmd.Flags().GetInt("workers")

	ctx, stop := interruptible()
	defer stop()
	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Base:     base,
		Param:    args[0],
		Min:      lo,
		Max:      hi,
		NumSteps: steps,
		Workers:  workers,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tDRIFT\tSTRAIN\tSTABILITY\tHEIGHT\n", strings.ToUpper(args[0]))
	for _, r := range results {
		fmt.Fprintf(w, "%g\t%.4f\t%.4f\t%.2f\t%.3f\n", r.Value, r.VolumeDrift, r.EdgeStrain, r.Stability, r.FinalHeight)
	}
	return w.Flush()
}

func generateMesh(cmd *cobra.Command, args []string) error {
	res, _ := cmd.Flags().GetInt("res")
	size, _ := cmd.Flags().GetFloat64Slice("size")
	displayRes, _ := cmd.Flags().GetInt("display-res")
	out, _ := cmd.Flags().GetString("output")
	if len(size) != 3 {
		return fmt.Errorf("size needs three values, got %d", len(size))
	}

	tm := mesh.Box(res, size[0], size[1], size[2])
	if err := mesh.Save(out, tm); err != nil {
		return err
	}
	fmt.Printf("wrote %s: %d verts, %d tets, %d edges\n", out, tm.NumVerts(), tm.NumTets(), tm.NumEdges())
	logger.Sugar.Debugw("tet mesh written", "path", out, "res", res, "size", size)

	vis := ""
	if displayRes > 1 {
		vm := mesh.SurfaceGrid(displayRes, size[0], size[1], size[2], mesh.NoiseOptions{})
		vis = strings.TrimSuffix(strings.TrimSuffix(out, ".json"), ".tet") + ".vis.json"
		if err := mesh.Save(vis, vm); err != nil {
			return err
		}
		fmt.Printf("wrote %s: %d verts, %d tris\n", vis, vm.NumVerts(), len(vm.TriIDs)/3)
	}

	fmt.Printf("\nconfig:\n  mesh:\n    source: file\n    path: %s\n", out)
	if vis != "" {
		fmt.Printf("    display_path: %s\n", vis)
	}
	return nil
}
