package views

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"motion-resampler/models"
)

// PlotOptions sizes the rendered figure.
type PlotOptions struct {
	WidthIn  float64
	HeightIn float64
}

// RenderRecording draws accX, accY and accZ against time for one raw
// recording and saves the figure to path. The image format follows the
// file extension (png, svg, pdf, ...).
func RenderRecording(rec *models.Recording, title, path string, opts PlotOptions) error {
	if rec.Len() == 0 {
		return &models.EmptyRecordingError{Path: rec.Path}
	}
	if opts.WidthIn <= 0 {
		opts.WidthIn = 12
	}
	if opts.HeightIn <= 0 {
		opts.HeightIn = 4
	}

	xs := make(plotter.XYs, rec.Len())
	ys := make(plotter.XYs, rec.Len())
	zs := make(plotter.XYs, rec.Len())
	for i, s := range rec.Samples {
		xs[i] = plotter.XY{X: s.TimestampS, Y: s.AccX}
		ys[i] = plotter.XY{X: s.TimestampS, Y: s.AccY}
		zs[i] = plotter.XY{X: s.TimestampS, Y: s.AccZ}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Acceleration (g)"
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	if err := plotutil.AddLines(p, "accX", xs, "accY", ys, "accZ", zs); err != nil {
		return fmt.Errorf("plot %s: %w", rec.Path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &models.FileSystemError{Op: "mkdir", Path: filepath.Dir(path), Err: err}
	}
	if err := p.Save(vg.Length(opts.WidthIn)*vg.Inch, vg.Length(opts.HeightIn)*vg.Inch, path); err != nil {
		return &models.FileSystemError{Op: "write", Path: path, Err: err}
	}
	return nil
}
