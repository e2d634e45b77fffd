package controller

import (
	"context"
	"path/filepath"
	"slices"

	"github.com/gosimple/slug"

	"motion-resampler/models"
	"motion-resampler/services/ingest"
	"motion-resampler/utils"
	"motion-resampler/views"
)

// PlotController renders every raw recording of the selected groups as a
// time-series figure. Input files are only read.
type PlotController struct {
	cfg *utils.PipelineConfig
}

func NewPlotController(cfg *utils.PipelineConfig) *PlotController {
	return &PlotController{cfg: cfg}
}

// PlotName maps a raw file name to its figure name, e.g.
// "Normal_kørsel 2.csv" → "normal_korsel-2.png".
func PlotName(base string) string {
	return slug.Make(models.SourceName(base)) + ".png"
}

// Run renders one figure per file and returns an outcome per file.
func (pc *PlotController) Run(ctx context.Context) ([]FileOutcome, error) {
	want := pc.cfg.Plot.Groups
	if slices.Contains(want, "all") {
		want = pc.cfg.Labels()
	}
	var selected []utils.GroupConfig
	for _, g := range pc.cfg.Groups {
		if slices.Contains(want, g.Label) {
			selected = append(selected, g)
		}
	}

	groups, err := DiscoverFiles(pc.cfg.Plot.InputDir, selected)
	if err != nil {
		return nil, err
	}

	opts := views.PlotOptions{WidthIn: pc.cfg.Plot.WidthIn, HeightIn: pc.cfg.Plot.HeightIn}
	var outcomes []FileOutcome
	for _, g := range groups {
		for _, path := range g.Files {
			if err := ctx.Err(); err != nil {
				return outcomes, err
			}
			base := filepath.Base(path)
			o := FileOutcome{
				Input:  path,
				Output: filepath.Join(pc.cfg.Plot.OutputDir, PlotName(base)),
				Label:  g.Label,
			}

			rec, err := ingest.ReadRawRecording(path)
			if err == nil {
				o.Samples = rec.Len()
				err = views.RenderRecording(rec, "Recording: "+base, o.Output, opts)
			}
			if err != nil {
				o.Err = err
				utils.L().Error("plot %s failed: %v", path, err)
			} else {
				utils.L().Info("plotted %s → %s", path, o.Output)
			}
			outcomes = append(outcomes, o)
		}
	}
	return outcomes, nil
}
