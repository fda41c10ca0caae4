// Convergence sweep tool - runs the same stirred flow at several Jacobi
// iteration counts and plots the divergence left after projection.
//
// Usage: go run ./cmd/convergence -ticks 200 -out convergence.png
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/pthm-cable/dye/config"
	"github.com/pthm-cable/dye/emitter"
	"github.com/pthm-cable/dye/fluid"
	"github.com/pthm-cable/dye/telemetry"
)

// sweepResult is one row of the sweep, also written to CSV.
type sweepResult struct {
	Iterations     int     `csv:"iterations"`
	DivergenceMean float64 `csv:"div_mean"`
	DivergenceMax  float64 `csv:"div_max"`
	TotalDensity   float64 `csv:"total_density"`
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	ticks := flag.Int("ticks", 200, "Ticks to run per iteration count")
	iterList := flag.String("iterations", "1,2,4,8,16,32,64,128", "Comma-separated Jacobi iteration counts")
	outPath := flag.String("out", "convergence.png", "Output plot path (.png, .svg or .pdf)")
	csvPath := flag.String("csv", "", "Optional CSV output path")
	flag.Parse()

	iterations, err := parseIterations(*iterList)
	if err != nil {
		fmt.Fprintf(os.Stderr, "convergence: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "convergence: %v\n", err)
		os.Exit(1)
	}

	results, err := sweep(cfg, iterations, *ticks)
	if err != nil {
		fmt.Fprintf(os.Stderr, "convergence: %v\n", err)
		os.Exit(1)
	}

	if err := savePlot(results, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "convergence: %v\n", err)
		os.Exit(1)
	}
	if *csvPath != "" {
		if err := saveCSV(results, *csvPath); err != nil {
			fmt.Fprintf(os.Stderr, "convergence: %v\n", err)
			os.Exit(1)
		}
	}

	means := make([]float64, len(results))
	for i, r := range results {
		means[i] = r.DivergenceMean
	}
	fmt.Println(telemetry.Chart(means, "mean |div| by iteration step", 10))
	slog.Info("sweep complete", "out", *outPath, "runs", len(results), "ticks", *ticks)
}

// parseIterations parses a comma-separated list of positive counts.
func parseIterations(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("iteration count %q: %w", part, err)
		}
		if n < 1 {
			return nil, fmt.Errorf("iteration count %d: %w", n, fluid.ErrInvalidIterations)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no iteration counts in %q", s)
	}
	return out, nil
}

// sweep runs the configured emitters for ticks steps once per iteration
// count and records the divergence after every tick.
func sweep(cfg *config.Config, iterations []int, ticks int) ([]sweepResult, error) {
	base, err := cfg.Params()
	if err != nil {
		return nil, err
	}

	results := make([]sweepResult, 0, len(iterations))
	divs := make([]float64, 0, ticks)
	for _, n := range iterations {
		p := base
		p.Iterations = n

		sim, err := fluid.NewSimulator(fluid.Options{
			Width:   cfg.Derived.GridW,
			Height:  cfg.Derived.GridH,
			Workers: cfg.Solver.Workers,
			Formats: cfg.FormatSupport(),
			Params:  p,
		})
		if err != nil {
			return nil, err
		}

		emitters := emitter.New(cfg.Emitters)
		dt := cfg.Derived.DT32
		divs = divs[:0]
		var last fluid.FieldStats
		for i := 0; i < ticks; i++ {
			if err := sim.Tick(dt, emitters.Update(dt)); err != nil {
				sim.Shutdown()
				return nil, err
			}
			last = sim.Stats()
			divs = append(divs, last.MeanAbsDivergence)
		}
		sim.Shutdown()

		r := sweepResult{Iterations: n, TotalDensity: last.TotalDensity}
		if len(divs) > 0 {
			r.DivergenceMean = stat.Mean(divs, nil)
			for _, d := range divs {
				r.DivergenceMax = max(r.DivergenceMax, d)
			}
		}
		slog.Debug("sweep run", "iterations", n, "div_mean", r.DivergenceMean)
		results = append(results, r)
	}
	return results, nil
}

// savePlot draws mean and max divergence against the iteration count on
// log axes.
func savePlot(results []sweepResult, path string) error {
	p := plot.New()
	p.Title.Text = "Divergence after projection"
	p.X.Label.Text = "Jacobi iterations"
	p.Y.Label.Text = "|div|"
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(plotter.NewGrid())

	mean := make(plotter.XYs, 0, len(results))
	peak := make(plotter.XYs, 0, len(results))
	for _, r := range results {
		// Log axes cannot show zero.
		if r.DivergenceMean <= 0 || r.DivergenceMax <= 0 {
			continue
		}
		mean = append(mean, plotter.XY{X: float64(r.Iterations), Y: r.DivergenceMean})
		peak = append(peak, plotter.XY{X: float64(r.Iterations), Y: r.DivergenceMax})
	}
	if len(mean) == 0 {
		return fmt.Errorf("no nonzero divergence to plot")
	}

	meanLine, meanPoints, err := plotter.NewLinePoints(mean)
	if err != nil {
		return err
	}
	peakLine, err := plotter.NewLine(peak)
	if err != nil {
		return err
	}
	peakLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(meanLine, meanPoints, peakLine)
	p.Legend.Add("mean", meanLine, meanPoints)
	p.Legend.Add("max", peakLine)
	p.Legend.Top = true

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

func saveCSV(results []sweepResult, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := gocsv.MarshalFile(&results, f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
