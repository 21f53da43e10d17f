package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// PlotHistory draws best, top 10% and mean score per generation to a PNG
func PlotHistory(history []GenerationSummary, outPath string) error {
	if len(history) == 0 {
		return fmt.Errorf("no generations to plot")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = "Score by generation (lower is better)"
	p.X.Label.Text = "Generation"
	p.Y.Label.Text = "Score"

	best := make(plotter.XYs, len(history))
	top := make(plotter.XYs, len(history))
	mean := make(plotter.XYs, len(history))
	for i, h := range history {
		x := float64(h.Generation)
		best[i] = plotter.XY{X: x, Y: h.BestScore}
		top[i] = plotter.XY{X: x, Y: h.TopMeanScore}
		mean[i] = plotter.XY{X: x, Y: h.MeanScore}
	}

	if err := plotutil.AddLines(p, "best", best, "top 10%", top, "mean", mean); err != nil {
		return err
	}
	p.Legend.Top = true

	return p.Save(6*vg.Inch, 4*vg.Inch, outPath)
}
